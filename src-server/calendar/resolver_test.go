package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVisibleOn(t *testing.T) {
	t.Run("single day event only on its start day", func(t *testing.T) {
		e := Event{
			ID:    "e1",
			Title: "Chess Night",
			Start: time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC),
		}
		assert.True(t, VisibleOn(day(2024, 3, 15), e))
		assert.False(t, VisibleOn(day(2024, 3, 14), e))
		assert.False(t, VisibleOn(day(2024, 3, 16), e))
	})

	t.Run("multi day event spans inclusive range", func(t *testing.T) {
		e := Event{
			ID:    "e2",
			Title: "Hackathon",
			Start: time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC),
		}
		assert.False(t, VisibleOn(day(2024, 3, 13), e))
		assert.True(t, VisibleOn(day(2024, 3, 14), e))
		assert.True(t, VisibleOn(day(2024, 3, 15), e))
		assert.True(t, VisibleOn(day(2024, 3, 16), e))
		assert.False(t, VisibleOn(day(2024, 3, 17), e))
	})

	t.Run("time of day does not matter", func(t *testing.T) {
		e := Event{
			ID:    "e3",
			Title: "Late Social",
			Start: time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC),
		}
		assert.True(t, VisibleOn(time.Date(2024, 3, 15, 0, 1, 0, 0, time.UTC), e))
	})

	t.Run("inverted range is visible nowhere", func(t *testing.T) {
		e := Event{
			ID:    "e4",
			Title: "Broken",
			Start: day(2024, 3, 16),
			End:   day(2024, 3, 14),
		}
		for d := 13; d <= 17; d++ {
			assert.False(t, VisibleOn(day(2024, 3, d), e), "day %d", d)
		}
	})

	t.Run("cross month boundary", func(t *testing.T) {
		e := Event{
			ID:    "e5",
			Title: "Retreat",
			Start: day(2024, 3, 30),
			End:   day(2024, 4, 2),
		}
		assert.True(t, VisibleOn(day(2024, 3, 31), e))
		assert.True(t, VisibleOn(day(2024, 4, 1), e))
		assert.False(t, VisibleOn(day(2024, 4, 3), e))
	})
}

func TestIsMultiDay(t *testing.T) {
	t.Run("no end never multi day", func(t *testing.T) {
		assert.False(t, IsMultiDay(Event{Start: day(2024, 3, 15)}))
	})

	t.Run("same day end is single day", func(t *testing.T) {
		assert.False(t, IsMultiDay(Event{
			Start: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC),
		}))
	})

	t.Run("next day end is multi day", func(t *testing.T) {
		assert.True(t, IsMultiDay(Event{
			Start: time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC),
		}))
	})
}

func TestEventValidate(t *testing.T) {
	t.Run("accepts end equal to start", func(t *testing.T) {
		e := Event{ID: "x", Title: "t", Start: day(2024, 3, 15), End: day(2024, 3, 15)}
		assert.NoError(t, e.Validate())
	})

	t.Run("rejects blank title", func(t *testing.T) {
		e := Event{ID: "x", Start: day(2024, 3, 15)}
		assert.Error(t, e.Validate())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		e := Event{ID: "x", Title: "t", Start: day(2024, 3, 16), End: day(2024, 3, 14)}
		assert.Error(t, e.Validate())
	})
}
