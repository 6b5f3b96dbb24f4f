package calendar

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	clubs  []Club
	events []Event
	err    error

	// when set, a SavedClubEvents call whose range starts at gateStart
	// blocks until the gate closes
	gate      chan struct{}
	gateStart time.Time

	lastStart, lastEnd time.Time
}

func (s *fakeStore) SavedClubs(ctx context.Context) ([]Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.clubs, nil
}

func (s *fakeStore) SavedClubEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	s.mu.Lock()
	gate := s.gate
	if !s.gateStart.Equal(start) {
		gate = nil
	}
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStart, s.lastEnd = start, end
	if s.err != nil {
		return nil, s.err
	}
	var out []Event
	for _, e := range s.events {
		if !e.Start.Before(start) && !e.Start.After(end.AddDate(0, 0, 1)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeExporter struct{ encoded [][]Event }

func (f *fakeExporter) Encode(events []Event) string {
	f.encoded = append(f.encoded, events)
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR"
}

func TestControllerRefresh(t *testing.T) {
	clock := fixedClock(day(2024, 3, 15))

	t.Run("fetches the active month", func(t *testing.T) {
		store := &fakeStore{
			clubs:  []Club{{ID: "c1", Name: "Chess Club"}},
			events: []Event{{ID: "e1", Title: "Chess Night", Start: day(2024, 3, 15)}},
		}
		c := NewController(store, &fakeExporter{}, clock)
		c.Refresh(context.Background())

		assert.Equal(t, day(2024, 3, 1), store.lastStart)
		assert.Equal(t, day(2024, 3, 31), store.lastEnd)
		assert.Len(t, c.SavedClubs(), 1)
		assert.False(t, c.Loading())
	})

	t.Run("store error degrades to empty calendar", func(t *testing.T) {
		store := &fakeStore{err: context.DeadlineExceeded}
		c := NewController(store, &fakeExporter{}, clock)
		c.Refresh(context.Background())

		assert.Empty(t, c.SavedClubs())
		assert.False(t, c.Loading())
		for _, cell := range c.Grid() {
			assert.Empty(t, cell.Events)
		}
	})

	t.Run("stale fetch is discarded", func(t *testing.T) {
		gate := make(chan struct{})
		store := &fakeStore{
			events: []Event{
				{ID: "stale", Title: "March Event", Start: day(2024, 3, 15)},
				{ID: "fresh", Title: "April Event", Start: day(2024, 4, 5)},
			},
			gate:      gate,
			gateStart: day(2024, 3, 1),
		}
		c := NewController(store, &fakeExporter{}, clock)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Refresh(context.Background()) // march fetch, parked on the gate
		}()

		// the user navigates on; a newer refresh completes while the
		// first is still in flight
		c.SetActiveDate(day(2024, 4, 5))
		c.Refresh(context.Background())

		close(gate)
		wg.Wait()

		cells := c.Grid()
		var seen []string
		for _, cell := range cells {
			for _, e := range cell.Events {
				seen = append(seen, e.ID)
			}
		}
		assert.Equal(t, []string{"fresh"}, seen)
	})
}

func TestControllerNavigation(t *testing.T) {
	clock := fixedClock(day(2024, 3, 15))

	t.Run("month steps always change the month", func(t *testing.T) {
		c := NewController(&fakeStore{}, &fakeExporter{}, clock)
		assert.True(t, c.NextPeriod())
		assert.Equal(t, time.April, c.ActiveDate().Month())
		assert.True(t, c.PrevPeriod())
		assert.Equal(t, time.March, c.ActiveDate().Month())
	})

	t.Run("week step only reports month crossings", func(t *testing.T) {
		c := NewController(&fakeStore{}, &fakeExporter{}, clock)
		c.SetViewMode(ViewModeWeek)
		assert.False(t, c.NextPeriod()) // Mar 15 -> Mar 22
		assert.False(t, c.NextPeriod()) // Mar 22 -> Mar 29
		assert.True(t, c.NextPeriod())  // Mar 29 -> Apr 5
	})

	t.Run("day step across month boundary does", func(t *testing.T) {
		c := NewController(&fakeStore{}, &fakeExporter{}, clock)
		c.SetViewMode(ViewModeDay)
		c.SetActiveDate(day(2024, 3, 31))
		assert.True(t, c.NextPeriod())
		assert.Equal(t, day(2024, 4, 1), dateOnly(c.ActiveDate()))
	})

	t.Run("go to today reports a month change", func(t *testing.T) {
		c := NewController(&fakeStore{}, &fakeExporter{}, clock)
		c.SetActiveDate(day(2024, 7, 1))
		assert.True(t, c.GoToToday())
		assert.Equal(t, time.March, c.ActiveDate().Month())
		assert.False(t, c.GoToToday())
	})

	t.Run("unknown view mode is ignored", func(t *testing.T) {
		c := NewController(&fakeStore{}, &fakeExporter{}, clock)
		c.SetViewMode(ViewMode("year"))
		assert.Equal(t, ViewModeMonth, c.ViewMode())
	})
}

func TestControllerExport(t *testing.T) {
	clock := fixedClock(day(2024, 3, 15))
	events := []Event{
		{ID: "e1", Title: "Chess Night", Start: day(2024, 3, 15)},
		{ID: "e2", Title: "Hackathon", Start: day(2024, 3, 28), End: day(2024, 3, 30)},
	}

	newReady := func(t *testing.T, exp *fakeExporter) *Controller {
		t.Helper()
		c := NewController(&fakeStore{events: events}, exp, clock)
		c.Refresh(context.Background())
		return c
	}

	t.Run("month export includes the whole month", func(t *testing.T) {
		exp := &fakeExporter{}
		c := newReady(t, exp)
		filename, payload, err := c.ExportCurrentView()
		require.NoError(t, err)
		assert.Equal(t, "Club_Events_Mar_2024.ics", filename)
		assert.True(t, strings.HasPrefix(payload, "BEGIN:VCALENDAR"))
		require.Len(t, exp.encoded, 1)
		assert.Len(t, exp.encoded[0], 2)
	})

	t.Run("week export filters by start date", func(t *testing.T) {
		exp := &fakeExporter{}
		c := newReady(t, exp)
		c.SetViewMode(ViewModeWeek)
		filename, _, err := c.ExportCurrentView()
		require.NoError(t, err)
		assert.Equal(t, "Club_Events_Week_Mar_10.ics", filename)
		require.Len(t, exp.encoded, 1)
		assert.Equal(t, "e1", exp.encoded[0][0].ID)
		assert.Len(t, exp.encoded[0], 1)
	})

	t.Run("empty week returns ErrNoEvents", func(t *testing.T) {
		exp := &fakeExporter{}
		c := newReady(t, exp)
		c.SetViewMode(ViewModeWeek)
		c.SetActiveDate(day(2024, 3, 5))
		_, _, err := c.ExportCurrentView()
		assert.ErrorIs(t, err, ErrNoEvents)
		assert.Empty(t, exp.encoded)
	})

	t.Run("day export names the day", func(t *testing.T) {
		exp := &fakeExporter{}
		c := newReady(t, exp)
		c.SetViewMode(ViewModeDay)
		filename, _, err := c.ExportCurrentView()
		require.NoError(t, err)
		assert.Equal(t, "Club_Events_Mar_15.ics", filename)
	})

	t.Run("entire calendar export", func(t *testing.T) {
		exp := &fakeExporter{}
		c := newReady(t, exp)
		filename, _, err := c.ExportEntireCalendar()
		require.NoError(t, err)
		assert.Equal(t, "All_Club_Events.ics", filename)
		require.Len(t, exp.encoded, 1)
		assert.Len(t, exp.encoded[0], 2)
	})

	t.Run("entire calendar with nothing fetched", func(t *testing.T) {
		c := NewController(&fakeStore{}, &fakeExporter{}, clock)
		c.Refresh(context.Background())
		_, _, err := c.ExportEntireCalendar()
		assert.ErrorIs(t, err, ErrNoEvents)
	})
}
