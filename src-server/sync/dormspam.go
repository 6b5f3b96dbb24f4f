// The `sync` package polls the dormspam event feed and mirrors its
// records into the events table. The feed is the system of record for
// campus-wide events; everything here is best-effort and a failed poll
// just waits for the next tick.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"clubhub/src-server/model"
	"clubhub/src-server/utils"

	"github.com/robfig/cron/v3"
)

const requestTimeout = 10 * time.Second

// One event as the dormspam API returns it.
type FeedEvent struct {
	ID             int64  `json:"id"`
	Source         string `json:"source,omitempty"`
	Title          string `json:"title"`
	Organizer      string `json:"organizer"`
	OrganizerEmail string `json:"organizer_email"`
	ContactEmail   string `json:"contact_email"`
	Date           string `json:"date"`
	Location       string `json:"location"`
	ReceivedDate   string `json:"recievedDate"` // sic, the feed misspells it
	LastModified   string `json:"last_modified"`
	EndTime        string `json:"end_time,omitempty"`
	Duration       int    `json:"duration,omitempty"` // minutes
	Details        string `json:"details,omitempty"`
	Tags           []struct {
		Name string `json:"name"`
	} `json:"tags,omitempty"`
}

type FeedResponse struct {
	Status      string      `json:"status"`
	TotalEvents int         `json:"total_events"`
	Returned    int         `json:"returned"`
	Data        []FeedEvent `json:"data"`
}

type Service struct {
	as     *utils.AppState
	client *http.Client
	cron   *cron.Cron

	mu       sync.Mutex
	running  bool
	lastSync time.Time
}

func New(as *utils.AppState) *Service {
	return &Service{
		as:     as,
		client: &http.Client{Timeout: requestTimeout},
		cron:   cron.New(),
	}
}

// Start runs an initial full sync, then polls on the configured
// schedule. A no-op when the feed is disabled or already running.
func (s *Service) Start(ctx context.Context) error {
	if !s.as.Config.GetDormspamEnabled() {
		slog.Info("dormspam sync disabled (set ENABLE_DORMSPAM_SYNC=true to enable)")
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Info("dormspam sync service already running")
		return nil
	}
	s.running = true
	s.mu.Unlock()

	slog.Info("starting dormspam sync service",
		"url", s.as.Config.GetDormspamApiUrl(),
		"schedule", s.as.Config.GetDormspamSyncSpec())

	if err := s.Sync(ctx); err != nil {
		slog.Error("initial dormspam sync failed", "error", err)
	}

	if _, err := s.cron.AddFunc(s.as.Config.GetDormspamSyncSpec(), func() {
		if err := s.Sync(context.Background()); err != nil {
			slog.Error("dormspam sync failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("(*Service).Start: %w", err)
	}
	s.cron.Start()

	go func() {
		gracefulShutdownCh := s.as.CreateGracefulShutdownChan()
		<-*gracefulShutdownCh
		s.Stop()
	}()

	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	slog.Info("dormspam sync service stopped")
}

// Sync fetches everything updated since the watermark and upserts it.
// The watermark only advances after a poll that returned data, to the
// max last_modified seen.
func (s *Service) Sync(ctx context.Context) error {
	startTimer := time.Now()

	s.mu.Lock()
	watermark := s.lastSync
	s.mu.Unlock()

	feed, err := s.fetch(ctx, watermark)
	if err != nil {
		return fmt.Errorf("(*Service).Sync: %w", err)
	}
	if feed.Status != "success" {
		return fmt.Errorf("(*Service).Sync: feed returned status %q", feed.Status)
	}

	select {
	case s.as.MetricChans.DormspamSyncLatency <- float64(time.Since(startTimer).Microseconds()):
	default:
	}

	if feed.Returned == 0 {
		slog.Debug("no new dormspam events to sync")
		return nil
	}

	successCount, errorCount := 0, 0
	latest := watermark
	for _, feedEvent := range feed.Data {
		if err := s.upsertEvent(ctx, feedEvent); err != nil {
			slog.Error("can't upsert dormspam event", "id", feedEvent.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
		if modified, err := time.Parse(time.RFC3339, feedEvent.LastModified); err == nil && modified.After(latest) {
			latest = modified
		}
	}
	slog.Info("dormspam sync completed", "succeeded", successCount, "failed", errorCount)

	select {
	case s.as.MetricChans.DormspamSyncedEvents <- float64(successCount):
	default:
	}

	s.mu.Lock()
	s.lastSync = latest
	s.mu.Unlock()
	return nil
}

func (s *Service) fetch(ctx context.Context, watermark time.Time) (*FeedResponse, error) {
	reqUrl, err := url.Parse(s.as.Config.GetDormspamApiUrl())
	if err != nil {
		return nil, fmt.Errorf("can't parse feed url: %w", err)
	}
	if !watermark.IsZero() {
		query := reqUrl.Query()
		query.Set("last_updated", watermark.UTC().Format(time.RFC3339))
		reqUrl.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("can't create feed request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't reach feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	feed := new(FeedResponse)
	if err := json.NewDecoder(resp.Body).Decode(feed); err != nil {
		return nil, fmt.Errorf("can't decode feed body: %w", err)
	}
	return feed, nil
}

func (s *Service) upsertEvent(ctx context.Context, feedEvent FeedEvent) error {
	startDate, err := time.Parse(time.RFC3339, feedEvent.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", feedEvent.Date, err)
	}

	endUnix := int64(0)
	switch {
	case feedEvent.EndTime != "":
		endDate, err := time.Parse(time.RFC3339, feedEvent.EndTime)
		if err != nil {
			return fmt.Errorf("invalid end_time %q: %w", feedEvent.EndTime, err)
		}
		endUnix = endDate.UTC().Unix()
	case feedEvent.Duration > 0:
		endUnix = startDate.Add(time.Duration(feedEvent.Duration) * time.Minute).UTC().Unix()
	}

	tags := make([]string, 0, len(feedEvent.Tags))
	for _, tag := range feedEvent.Tags {
		tags = append(tags, tag.Name)
	}

	eventModel := model.Event{
		ID:             fmt.Sprintf("dormspam-%d", feedEvent.ID),
		DormspamID:     feedEvent.ID,
		Title:          feedEvent.Title,
		Description:    feedEvent.Details,
		Location:       feedEvent.Location,
		StartUnixUTC:   startDate.UTC().Unix(),
		EndUnixUTC:     endUnix,
		Organizer:      feedEvent.Organizer,
		OrganizerEmail: feedEvent.OrganizerEmail,
		ContactEmail:   feedEvent.ContactEmail,
		Tags:           model.JoinList(tags),
		ClubID:         s.matchClub(ctx, feedEvent.Organizer),
	}
	if received, err := time.Parse(time.RFC3339, feedEvent.ReceivedDate); err == nil {
		eventModel.ReceivedAtUnixUTC = received.UTC().Unix()
	}
	if modified, err := time.Parse(time.RFC3339, feedEvent.LastModified); err == nil {
		eventModel.LastModifiedUnixUTC = modified.UTC().Unix()
	}

	return eventModel.Upsert(ctx, s.as.BunDB)
}

// matchClub links a feed event to a club when the organizer name
// matches one, so the event shows up on that club's saved-calendar.
// A miss is fine; the event just stays unattributed.
func (s *Service) matchClub(ctx context.Context, organizer string) string {
	if organizer == "" {
		return ""
	}
	clubModel := new(model.Club)
	if err := s.as.BunDB.NewSelect().
		Model(clubModel).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(organizer))).
		Scan(ctx); err != nil {
		return ""
	}
	return clubModel.ClubID
}

// LastSync exposes the watermark for the status endpoint and tests.
func (s *Service) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}
