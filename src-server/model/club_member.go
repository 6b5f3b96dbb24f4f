package model

import (
	"context"
	"fmt"
	"regexp"

	"github.com/uptrace/bun"
)

var memberNameRe = regexp.MustCompile(`^[A-Za-z\s]+$`)

// One row of a club's membership roster, managed through the admin
// panel.
type ClubMember struct {
	bun.BaseModel `bun:"table:club_members,alias:member"`

	ID          string `bun:"id,pk"`           // required
	ClubID      string `bun:"club_id,notnull"` // required
	Name        string `bun:"name,notnull"`    // required
	Email       string `bun:"email,notnull"`   // required
	Role        string `bun:"role,notnull"`    // required
	Permissions string `bun:"permissions,notnull"`

	Club *Club `bun:"rel:belongs-to,join:club_id=club_id"`
}

func (m *ClubMember) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case m.ID == "":
		return fmt.Errorf("(*ClubMember).Upsert: member id is blank")
	case m.ClubID == "":
		return fmt.Errorf("(*ClubMember).Upsert: club id is blank")
	case m.Name == "":
		return fmt.Errorf("(*ClubMember).Upsert: name is blank")
	case len(m.Name) > 50:
		return fmt.Errorf("(*ClubMember).Upsert: name cannot exceed 50 characters")
	case !memberNameRe.MatchString(m.Name):
		return fmt.Errorf("(*ClubMember).Upsert: name can only contain alphabetic characters and spaces")
	case m.Email == "":
		return fmt.Errorf("(*ClubMember).Upsert: email is blank")
	case len(m.Email) > 100:
		return fmt.Errorf("(*ClubMember).Upsert: email cannot exceed 100 characters")
	case m.Role == "":
		return fmt.Errorf("(*ClubMember).Upsert: role is blank")
	}

	exists, err := db.NewSelect().
		Model((*ClubMember)(nil)).
		Where("id = ?", m.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*ClubMember).Upsert: %w", err)
	}

	switch exists {
	case true:
		if _, err := db.NewUpdate().
			Model(m).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*ClubMember).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(m).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*ClubMember).Upsert: %w", err)
		}
	}
	return nil
}
