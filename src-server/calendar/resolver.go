package calendar

import "time"

// Truncate to midnight in t's location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// VisibleOn reports whether the event shows up on the given calendar day.
// Both the day and the event's range are compared at date-only
// granularity, so the event [Mar 14 10:00, Mar 16 10:00] is visible on
// Mar 14 through Mar 16 inclusive. An event without an End occupies only
// its start day. An inverted range (End before Start) describes an empty
// interval and is visible nowhere.
func VisibleOn(day time.Time, e Event) bool {
	start := dateOnly(e.Start)
	end := start
	if !e.End.IsZero() {
		end = dateOnly(e.End)
	}
	d := dateOnly(day)

	// closed-interval intersection of [start, end] and [d, d]
	return !d.Before(start) && !d.After(end)
}

// IsMultiDay reports whether the event spans more than one calendar day.
// Events without an End never do, regardless of their start time.
func IsMultiDay(e Event) bool {
	if e.End.IsZero() {
		return false
	}
	return !sameDay(e.Start, e.End)
}
