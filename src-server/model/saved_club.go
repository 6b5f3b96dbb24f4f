package model

import "github.com/uptrace/bun"

// A user's active bookmark on a club. Deleted on unsave.
type SavedClub struct {
	bun.BaseModel `bun:"table:saved_clubs"`

	UserID         string `bun:"user_id,pk"` // required
	ClubID         string `bun:"club_id,pk"` // required
	SavedAtUnixUTC int64  `bun:"saved_at,notnull"`
}

// Permanent record that a user has saved a club at least once. Never
// deleted; a club's save count only increments on a user's first ever
// save, so re-saving after an unsave doesn't inflate it.
type ClubSaver struct {
	bun.BaseModel `bun:"table:club_savers"`

	UserID string `bun:"user_id,pk"`
	ClubID string `bun:"club_id,pk"`
}
