package utils

import (
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	port string

	sessionSecret string

	databasePath       string
	staticWebClientDir string

	location *time.Location

	dormspamApiUrl   string
	dormspamSyncSpec string
	dormspamEnabled  bool

	icalProdId string
	icalDomain string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		sessionSecret: func() string {
			secret := os.Getenv("SESSION_SECRET")
			if secret == "" {
				slog.Error("SESSION_SECRET is not set")
				os.Exit(1)
			}
			return secret
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Warn("STATIC_WEB_CLIENT_DIR is not set, SPA route disabled")
				return ""
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory")
				os.Exit(1)
			}
			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return staticWebClientDir
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		dormspamApiUrl: func() string {
			dormspamApiUrl := os.Getenv("DORMSPAM_API_URL")
			if dormspamApiUrl == "" {
				dormspamApiUrl = "https://dormspam-api.example.com/api/events"
			}
			slog.Debug("env", "DORMSPAM_API_URL", dormspamApiUrl)
			return dormspamApiUrl
		}(),
		dormspamSyncSpec: func() string {
			dormspamSyncSpec := os.Getenv("DORMSPAM_SYNC_CRON")
			if dormspamSyncSpec == "" {
				// twice per minute, matching the feed's update cadence
				dormspamSyncSpec = "@every 30s"
			}
			if _, err := cron.ParseStandard(dormspamSyncSpec); err != nil {
				slog.Error("invalid DORMSPAM_SYNC_CRON", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "DORMSPAM_SYNC_CRON", dormspamSyncSpec)
			return dormspamSyncSpec
		}(),
		dormspamEnabled: func() bool {
			enabled := os.Getenv("ENABLE_DORMSPAM_SYNC") == "true"
			slog.Debug("env", "ENABLE_DORMSPAM_SYNC", enabled)
			return enabled
		}(),

		icalProdId: func() string {
			icalProdId := os.Getenv("ICAL_PROD_ID")
			if icalProdId == "" {
				icalProdId = "-//University Clubs//Calendar App//EN"
			}
			return icalProdId
		}(),
		icalDomain: func() string {
			icalDomain := os.Getenv("ICAL_DOMAIN")
			if icalDomain == "" {
				icalDomain = "universityclubs.com"
			}
			return icalDomain
		}(),

		metricCollectionInterval: func() time.Duration {
			intervalStr := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if intervalStr == "" {
				return 10 * time.Second
			}
			interval, err := time.ParseDuration(intervalStr)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", interval)
			return interval
		}(),
	}
}

// Get PORT env
func (c *Config) GetPort() string {
	return c.port
}

// Get SESSION_SECRET env
func (c *Config) GetSessionSecret() string {
	return c.sessionSecret
}

// Get DATABASE_PATH env
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get STATIC_WEB_CLIENT_DIR env
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get DORMSPAM_API_URL env
func (c *Config) GetDormspamApiUrl() string {
	return c.dormspamApiUrl
}

// Get DORMSPAM_SYNC_CRON env
func (c *Config) GetDormspamSyncSpec() string {
	return c.dormspamSyncSpec
}

// Get ENABLE_DORMSPAM_SYNC env
func (c *Config) GetDormspamEnabled() bool {
	return c.dormspamEnabled
}

// Get ICAL_PROD_ID env
func (c *Config) GetIcalProdId() string {
	return c.icalProdId
}

// Get ICAL_DOMAIN env
func (c *Config) GetIcalDomain() string {
	return c.icalDomain
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
