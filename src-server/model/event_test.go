package model_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"clubhub/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func TestEvent(t *testing.T) {
	bundb := newTestDB(t)

	clubModel := model.Club{
		ClubID: uuid.NewString(),
		Name:   "Robotics Club",
	}
	if err := clubModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	eventModel := model.Event{
		ID:           uuid.NewString(),
		Title:        "Build Night",
		ClubID:       clubModel.ClubID,
		StartUnixUTC: time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC).Unix(),
	}
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	// case: upsert on the same id updates instead of duplicating
	func() {
		eventModel.Title = "Build Night (rescheduled)"
		if err := eventModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.Event)(nil)).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 1 {
			t.Error("expected one event, got", count)
		}
		eventModelTest := new(model.Event)
		if err := bundb.NewSelect().
			Model(eventModelTest).
			Where("id = ?", eventModel.ID).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if eventModelTest.Title != "Build Night (rescheduled)" {
			t.Error("title not updated", eventModelTest.Title)
		}
	}()

	// case: club relation resolves
	func() {
		eventModelTest := new(model.Event)
		if err := bundb.NewSelect().
			Model(eventModelTest).
			Relation("Club").
			Where("event.id = ?", eventModel.ID).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if eventModelTest.Club == nil || eventModelTest.Club.Name != "Robotics Club" {
			t.Error("club relation not loaded")
		}
	}()

	// case: end before start rejected
	func() {
		badModel := model.Event{
			ID:           uuid.NewString(),
			Title:        "Backwards",
			StartUnixUTC: 2000,
			EndUnixUTC:   1000,
		}
		if err := badModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected end-before-start to be rejected")
		}
	}()

	// case: blank title rejected
	func() {
		badModel := model.Event{
			ID:           uuid.NewString(),
			StartUnixUTC: 1000,
		}
		if err := badModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected blank title to be rejected")
		}
	}()
}

func TestEventToCalendarEvent(t *testing.T) {
	start := time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC)

	eventModel := model.Event{
		ID:           "e1",
		Title:        "Hackathon",
		Location:     "Student Center",
		StartUnixUTC: start.Unix(),
		EndUnixUTC:   end.Unix(),
	}
	out := eventModel.ToCalendarEvent("Robotics Club", "#3b82f6")
	if !out.Start.Equal(start) || !out.End.Equal(end) {
		t.Error("dates not mapped", out.Start, out.End)
	}
	if out.ClubName != "Robotics Club" || out.ClubColor != "#3b82f6" {
		t.Error("club annotations not mapped")
	}

	// zero end stays zero so the view layer treats it as point-in-time
	eventModel.EndUnixUTC = 0
	if out := eventModel.ToCalendarEvent("", ""); !out.End.IsZero() {
		t.Error("expected zero end", out.End)
	}
}
