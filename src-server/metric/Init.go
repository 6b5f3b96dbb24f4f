package metric

import (
	"log/slog"
	"time"

	"clubhub/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clubhub_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register clubhub_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("clubhub_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("clubhub_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("clubhub_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clubhub_database_read_microsec",
		Help: "The latency of a database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register clubhub_database_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("clubhub_database_read_microsec metric registered")
		databaseRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseRead) {
				case true:
					slog.Debug("clubhub_database_read_microsec metric unregistered")
				case false:
					slog.Warn("clubhub_database_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseRead:
				databaseRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseRead.Set(0)
			}
		}
	}()
}

func databaseWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clubhub_database_write_microsec",
		Help: "The latency of a database write in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseWrite); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register clubhub_database_write_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("clubhub_database_write_microsec metric registered")
		databaseWrite.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseWrite) {
				case true:
					slog.Debug("clubhub_database_write_microsec metric unregistered")
				case false:
					slog.Warn("clubhub_database_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseWrite:
				databaseWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseWrite.Set(0)
			}
		}
	}()
}

func authMiddlewareRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	authMiddlewareRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clubhub_auth_middleware_read_microsec",
		Help: "The latency of the auth middleware's session lookup in microseconds",
	})
	good := true
	if err := prometheus.Register(authMiddlewareRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register clubhub_auth_middleware_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("clubhub_auth_middleware_read_microsec metric registered")
		authMiddlewareRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(authMiddlewareRead) {
				case true:
					slog.Debug("clubhub_auth_middleware_read_microsec metric unregistered")
				case false:
					slog.Warn("clubhub_auth_middleware_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseReadForAuthMiddleware:
				authMiddlewareRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				authMiddlewareRead.Set(0)
			}
		}
	}()
}

func dormspamSyncLatency(as *utils.AppState, clearTickerInterval *time.Duration) {
	dormspamSyncLatency := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clubhub_dormspam_sync_microsec",
		Help: "The latency of the last dormspam feed poll in microseconds",
	})
	good := true
	if err := prometheus.Register(dormspamSyncLatency); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register clubhub_dormspam_sync_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("clubhub_dormspam_sync_microsec metric registered")
		dormspamSyncLatency.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(dormspamSyncLatency) {
				case true:
					slog.Debug("clubhub_dormspam_sync_microsec metric unregistered")
				case false:
					slog.Warn("clubhub_dormspam_sync_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DormspamSyncLatency:
				dormspamSyncLatency.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				dormspamSyncLatency.Set(0)
			}
		}
	}()
}

func dormspamSyncedEvents(as *utils.AppState) {
	dormspamSyncedEvents := promauto.NewCounter(prometheus.CounterOpts{
		Name: "clubhub_dormspam_synced_events_total",
		Help: "The number of events upserted from the dormspam feed",
	})
	good := true
	if err := prometheus.Register(dormspamSyncedEvents); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register clubhub_dormspam_synced_events_total metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("clubhub_dormspam_synced_events_total metric registered")
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(dormspamSyncedEvents) {
				case true:
					slog.Debug("clubhub_dormspam_synced_events_total metric unregistered")
				case false:
					slog.Warn("clubhub_dormspam_synced_events_total metric not registered")
				}
				return
			case count := <-as.MetricChans.DormspamSyncedEvents:
				dormspamSyncedEvents.Add(count)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	databaseRead(as, &clearTickerInterval)
	databaseWrite(as, &clearTickerInterval)
	authMiddlewareRead(as, &clearTickerInterval)
	dormspamSyncLatency(as, &clearTickerInterval)
	dormspamSyncedEvents(as)
}
