package calendar

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ErrNoEvents is returned by the export methods when the selected period
// has nothing to export. No payload is produced in that case.
var ErrNoEvents = errors.New("no events to export for the selected time period")

// A saved club as the controller needs it for the sidebar listing.
type Club struct {
	ID    string `json:"club_id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Store fetches the controller's raw data. SavedClubs is called before
// Events on every refresh; Events covers the whole month around the
// active date and the resolver narrows it down per view client-side.
type Store interface {
	SavedClubs(ctx context.Context) ([]Club, error)
	SavedClubEvents(ctx context.Context, start, end time.Time) ([]Event, error)
}

// Exporter serializes events for download. Satisfied by ics.Encoder.
type Exporter interface {
	Encode(events []Event) string
}

// / Controller owns the calendar view state: the active date, the view
// mode and the month's fetched event superset. Navigation within the
// same month reuses the superset; crossing a month boundary requires a
// new Refresh.
type Controller struct {
	store    Store
	exporter Exporter
	clock    Clock

	mu         sync.Mutex
	activeDate time.Time
	viewMode   ViewMode
	events     []Event
	clubs      []Club
	loading    bool
	fetchToken uint64
}

func NewController(store Store, exporter Exporter, clock Clock) *Controller {
	if clock == nil {
		clock = time.Now
	}
	return &Controller{
		store:      store,
		exporter:   exporter,
		clock:      clock,
		activeDate: clock(),
		viewMode:   ViewModeMonth,
	}
}

// Refresh fetches the saved clubs list, then the events for the active
// date's month. A fetch failure is logged and degrades to an empty
// calendar; loading is cleared either way. Each refresh carries a token
// and only the latest one may update state, so a slow fetch resolving
// after a newer one is discarded instead of clobbering it.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.fetchToken++
	token := c.fetchToken
	c.loading = true
	start, end := monthBounds(c.activeDate)
	c.mu.Unlock()

	clubs, events, err := func() ([]Club, []Event, error) {
		clubs, err := c.store.SavedClubs(ctx)
		if err != nil {
			return nil, nil, err
		}
		events, err := c.store.SavedClubEvents(ctx, start, end)
		if err != nil {
			return nil, nil, err
		}
		return clubs, events, nil
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.fetchToken {
		slog.Debug("discarding stale calendar fetch", "token", token, "latest", c.fetchToken)
		return
	}
	c.loading = false
	if err != nil {
		slog.Error("can't refresh calendar", "error", err)
		c.clubs = []Club{}
		c.events = []Event{}
		return
	}
	c.clubs = clubs
	c.events = events
}

// monthBounds returns the first and last day of t's month, both at
// midnight. The fetch window therefore ends at 00:00 of the last day,
// so an event starting later on that day falls outside it. This is
// the exact range the web client always requested.
func monthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}

// PrevPeriod steps the active date back one month, week or day depending
// on the view mode. It reports whether the visible month changed, in
// which case the caller should Refresh.
func (c *Controller) PrevPeriod() bool { return c.step(-1) }

// NextPeriod steps the active date forward one period.
func (c *Controller) NextPeriod() bool { return c.step(1) }

func (c *Controller) step(dir int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.activeDate
	switch c.viewMode {
	case ViewModeWeek:
		c.activeDate = c.activeDate.AddDate(0, 0, 7*dir)
	case ViewModeDay:
		c.activeDate = c.activeDate.AddDate(0, 0, dir)
	default:
		c.activeDate = c.activeDate.AddDate(0, dir, 0)
	}
	return before.Month() != c.activeDate.Month() || before.Year() != c.activeDate.Year()
}

// GoToToday resets the active date to the current instant.
func (c *Controller) GoToToday() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.activeDate
	c.activeDate = c.clock()
	return before.Month() != c.activeDate.Month() || before.Year() != c.activeDate.Year()
}

func (c *Controller) SetViewMode(mode ViewMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch mode {
	case ViewModeMonth, ViewModeWeek, ViewModeDay:
		c.viewMode = mode
	}
}

func (c *Controller) SetActiveDate(t time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.activeDate
	c.activeDate = t
	return before.Month() != t.Month() || before.Year() != t.Year()
}

func (c *Controller) ActiveDate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeDate
}

func (c *Controller) ViewMode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMode
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) SavedClubs() []Club {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clubs
}

// Grid builds the cells for the current view mode from the fetched
// event superset.
func (c *Controller) Grid() []DayCell {
	c.mu.Lock()
	active, mode, events := c.activeDate, c.viewMode, c.events
	c.mu.Unlock()
	switch mode {
	case ViewModeWeek:
		return WeekGrid(active, events, c.clock)
	case ViewModeDay:
		return DayGrid(active, events, c.clock)
	default:
		return MonthGrid(active, events, c.clock)
	}
}

// ExportCurrentView serializes the events whose start date falls in the
// current view's period. Returns ErrNoEvents when the period is empty.
func (c *Controller) ExportCurrentView() (string, string, error) {
	c.mu.Lock()
	active, mode, events := c.activeDate, c.viewMode, c.events
	c.mu.Unlock()

	var toExport []Event
	for _, e := range events {
		if startsInPeriod(active, mode, e) {
			toExport = append(toExport, e)
		}
	}
	if len(toExport) == 0 {
		return "", "", ErrNoEvents
	}

	period := func() string {
		switch mode {
		case ViewModeWeek:
			return "Week_" + active.Format("Jan 2")
		case ViewModeDay:
			return active.Format("Jan 2")
		default:
			return active.Format("Jan 2006")
		}
	}()
	filename := "Club_Events_" + strings.ReplaceAll(period, " ", "_") + ".ics"
	return filename, c.exporter.Encode(toExport), nil
}

// ExportEntireCalendar serializes the whole fetched event set.
func (c *Controller) ExportEntireCalendar() (string, string, error) {
	c.mu.Lock()
	events := c.events
	c.mu.Unlock()
	if len(events) == 0 {
		return "", "", ErrNoEvents
	}
	return "All_Club_Events.ics", c.exporter.Encode(events), nil
}

func startsInPeriod(active time.Time, mode ViewMode, e Event) bool {
	switch mode {
	case ViewModeWeek:
		days := WeekDays(active)
		start := dateOnly(e.Start)
		return !start.Before(days[0]) && !start.After(days[6])
	case ViewModeDay:
		return sameDay(e.Start, active)
	default:
		return e.Start.Month() == active.Month() && e.Start.Year() == active.Year()
	}
}
