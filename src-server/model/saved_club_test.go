package model_test

import (
	"context"
	"testing"
	"time"

	"clubhub/src-server/model"

	"github.com/google/uuid"
)

func TestSavedClub(t *testing.T) {
	bundb := newTestDB(t)

	userModel := model.User{
		ID:    uuid.NewString(),
		Email: "student@example.edu",
	}
	if err := userModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	clubModel := model.Club{
		ClubID: uuid.NewString(),
		Name:   "Chess Club",
	}
	if err := clubModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	save := func() {
		if _, err := bundb.NewInsert().
			Model(&model.SavedClub{
				UserID:         userModel.ID,
				ClubID:         clubModel.ClubID,
				SavedAtUnixUTC: time.Now().UTC().Unix(),
			}).
			Exec(context.Background()); err != nil {
			t.Error(err)
		}
	}
	unsave := func() {
		if _, err := bundb.NewDelete().
			Model((*model.SavedClub)(nil)).
			Where("user_id = ?", userModel.ID).
			Where("club_id = ?", clubModel.ClubID).
			Exec(context.Background()); err != nil {
			t.Error(err)
		}
	}

	// case: composite pk rejects a duplicate save
	func() {
		save()
		if _, err := bundb.NewInsert().
			Model(&model.SavedClub{
				UserID:         userModel.ID,
				ClubID:         clubModel.ClubID,
				SavedAtUnixUTC: time.Now().UTC().Unix(),
			}).
			Exec(context.Background()); err == nil {
			t.Error("expected duplicate save to fail")
		}
	}()

	// case: club saver record survives an unsave, so a re-save can be
	// told apart from a first save
	func() {
		if _, err := bundb.NewInsert().
			Model(&model.ClubSaver{UserID: userModel.ID, ClubID: clubModel.ClubID}).
			Exec(context.Background()); err != nil {
			t.Error(err)
		}
		unsave()

		savedCount, err := bundb.NewSelect().
			Model((*model.SavedClub)(nil)).
			Where("user_id = ?", userModel.ID).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if savedCount != 0 {
			t.Error("saved club should be gone", savedCount)
		}

		everSaved, err := bundb.NewSelect().
			Model((*model.ClubSaver)(nil)).
			Where("user_id = ?", userModel.ID).
			Where("club_id = ?", clubModel.ClubID).
			Exists(context.Background())
		if err != nil {
			t.Error(err)
		}
		if !everSaved {
			t.Error("club saver record should survive unsave")
		}
	}()
}

func TestClubMemberValidation(t *testing.T) {
	bundb := newTestDB(t)

	clubModel := model.Club{
		ClubID: uuid.NewString(),
		Name:   "Debate Society",
	}
	if err := clubModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	memberModel := model.ClubMember{
		ID:          uuid.NewString(),
		ClubID:      clubModel.ClubID,
		Name:        "Jordan Smith",
		Email:       "jordan@example.edu",
		Role:        "President",
		Permissions: "admin",
	}
	if err := memberModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	// case: numeric name rejected
	func() {
		badModel := memberModel
		badModel.ID = uuid.NewString()
		badModel.Name = "Jordan Smith 2"
		if err := badModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected numeric name to be rejected")
		}
	}()

	// case: overlong name rejected
	func() {
		badModel := memberModel
		badModel.ID = uuid.NewString()
		badModel.Name = "Aa Bb Cc Dd Ee Ff Gg Hh Ii Jj Kk Ll Mm Nn Oo Pp Qq Rr"
		if err := badModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected overlong name to be rejected")
		}
	}()

	// case: roster query by club
	func() {
		var members []model.ClubMember
		if err := bundb.NewSelect().
			Model(&members).
			Where("club_id = ?", clubModel.ClubID).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if len(members) != 1 || members[0].Role != "President" {
			t.Error("roster lookup failed", members)
		}
	}()
}
