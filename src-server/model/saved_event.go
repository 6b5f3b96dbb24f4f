package model

import "github.com/uptrace/bun"

type SavedEvent struct {
	bun.BaseModel `bun:"table:saved_events"`

	UserID         string `bun:"user_id,pk"`  // required
	EventID        string `bun:"event_id,pk"` // required
	SavedAtUnixUTC int64  `bun:"saved_at,notnull"`
}
