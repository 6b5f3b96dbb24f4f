package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:club"`

	ClubID      string `bun:"club_id,pk"`   // required
	Name        string `bun:"name,notnull"` // required
	IsActive    bool   `bun:"is_active"`
	IsAccepting bool   `bun:"is_accepting"`

	// comma-joined; see RecruitingCycleList/TagList
	RecruitingCycle string `bun:"recruiting_cycle"`
	Tags            string `bun:"tags"`

	MembershipProcess string `bun:"membership_process"`
	Email             string `bun:"email"`
	Instagram         string `bun:"instagram"`
	Linkedin          string `bun:"linkedin"`
	Facebook          string `bun:"facebook"`
	Website           string `bun:"website"`
	Mission           string `bun:"mission"`
	ImageURL          string `bun:"image_url"`

	SaveCount int `bun:"save_count"`

	Members []*ClubMember `bun:"rel:has-many,join:club_id=club_id"`
}

func (c *Club) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case c.ClubID == "":
		return fmt.Errorf("(*Club).Upsert: club id is blank")
	case c.Name == "":
		return fmt.Errorf("(*Club).Upsert: name is blank")
	case len(c.Name) > 100:
		return fmt.Errorf("(*Club).Upsert: name cannot exceed 100 characters")
	case len(c.Mission) > 1000:
		return fmt.Errorf("(*Club).Upsert: mission cannot exceed 1000 characters")
	}

	exists, err := db.NewSelect().
		Model((*Club)(nil)).
		Where("club_id = ?", c.ClubID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Club).Upsert: %w", err)
	}

	switch exists {
	case true:
		if _, err := db.NewUpdate().
			Model(c).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Club).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(c).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Club).Upsert: %w", err)
		}
	}
	return nil
}

func (c *Club) TagList() []string {
	return splitList(c.Tags)
}

func (c *Club) RecruitingCycleList() []string {
	return splitList(c.RecruitingCycle)
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func JoinList(items []string) string {
	return strings.Join(items, ",")
}
