package model

import (
	"context"
	"fmt"
	"time"

	"clubhub/src-server/calendar"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:event"`

	ID          string `bun:"id,pk"`         // required
	Title       string `bun:"title,notnull"` // required
	Description string `bun:"description"`
	Location    string `bun:"location"`

	StartUnixUTC int64 `bun:"start_date,notnull"` // required
	// 0 means the event is a single point in time
	EndUnixUTC int64 `bun:"end_date"`

	Organizer      string `bun:"organizer"`
	OrganizerEmail string `bun:"organizer_email"`
	ContactEmail   string `bun:"contact_email"`
	Tags           string `bun:"tags"`
	ClubID         string `bun:"club_id"`

	// id in the external dormspam feed, 0 for locally created events
	DormspamID int64 `bun:"dormspam_id"`

	SaveCount int `bun:"save_count"`

	ReceivedAtUnixUTC   int64 `bun:"received_at"`
	LastModifiedUnixUTC int64 `bun:"last_modified"`

	Club *Club `bun:"rel:belongs-to,join:club_id=club_id"`
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.StartUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: start date is blank")
	case e.EndUnixUTC != 0 && e.EndUnixUTC < e.StartUnixUTC:
		return fmt.Errorf("(*Event).Upsert: end date is before start date")
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}
	return nil
}

func (e *Event) TagList() []string {
	return splitList(e.Tags)
}

// ToCalendarEvent converts the stored row into the view layer's shape.
// Club name and color are display annotations the caller already
// resolved.
func (e *Event) ToCalendarEvent(clubName, clubColor string) calendar.Event {
	out := calendar.Event{
		ID:          e.ID,
		Title:       e.Title,
		Start:       time.Unix(e.StartUnixUTC, 0).UTC(),
		Location:    e.Location,
		Description: e.Description,
		ClubName:    clubName,
		ClubColor:   clubColor,
	}
	if e.EndUnixUTC != 0 {
		out.End = time.Unix(e.EndUnixUTC, 0).UTC()
	}
	return out
}
