package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID      string `bun:"id,pk,notnull,unique"`
	Email   string `bun:"email,notnull"`
	Name    string `bun:"name"`
	IsAdmin bool   `bun:"is_admin"`
}

func (u *User) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case u.ID == "":
		return fmt.Errorf("(*User).Upsert: user id is blank")
	case u.Email == "":
		return fmt.Errorf("(*User).Upsert: email is blank")
	}

	if _, err := db.
		NewInsert().
		Model(u).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("name = EXCLUDED.name").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*User).Upsert: %w", err)
	}
	return nil
}
