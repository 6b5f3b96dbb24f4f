package calendar

import (
	"fmt"
	"time"
)

// A calendar event as seen by the view layer. Start is required; a zero
// End means the event is a single point in time (export derives a one
// hour duration from it).
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"date"`
	End         time.Time `json:"end_date,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	ClubName    string    `json:"clubName,omitempty"`
	ClubColor   string    `json:"clubColor,omitempty"`
}

// Reject events the resolver and encoder can't make sense of before they
// reach either. An End before Start would describe an empty interval.
func (e Event) Validate() error {
	switch {
	case e.Title == "":
		return fmt.Errorf("(Event).Validate: title is blank")
	case e.Start.IsZero():
		return fmt.Errorf("(Event).Validate: start date is blank")
	case !e.End.IsZero() && e.End.Before(e.Start):
		return fmt.Errorf("(Event).Validate: end date is before start date")
	}
	return nil
}

// Clock supplies "now" so grids and exports don't depend on wall-clock
// time in tests.
type Clock func() time.Time
