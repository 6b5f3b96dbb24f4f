package route

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"clubhub/src-server/calendar"
	"clubhub/src-server/ics"
	"clubhub/src-server/model"
	"clubhub/src-server/utils"
)

// calendarStore feeds the calendar controller from the database, scoped
// to one user's saved clubs.
type calendarStore struct {
	as     *utils.AppState
	userID string
}

func (s calendarStore) SavedClubs(ctx context.Context) ([]calendar.Club, error) {
	clubModels := make([]model.Club, 0)
	startTimer := time.Now()
	if err := s.as.BunDB.NewSelect().
		Model(&clubModels).
		Join("JOIN saved_clubs AS sc ON sc.club_id = club.club_id").
		Where("sc.user_id = ?", s.userID).
		Scan(ctx); err != nil {
		return nil, err
	}
	select {
	case s.as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds()):
	default:
	}

	clubs := make([]calendar.Club, 0, len(clubModels))
	for _, club := range clubModels {
		clubs = append(clubs, calendar.Club{
			ID:    club.ClubID,
			Name:  club.Name,
			Color: ClubColor(club.ClubID),
		})
	}
	return clubs, nil
}

func (s calendarStore) SavedClubEvents(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	eventModels := make([]model.Event, 0)
	startTimer := time.Now()
	if err := s.as.BunDB.NewSelect().
		Model(&eventModels).
		Relation("Club").
		Join("JOIN saved_clubs AS sc ON sc.club_id = event.club_id").
		Where("sc.user_id = ?", s.userID).
		Where("event.start_date >= ?", start.Unix()).
		Where("event.start_date <= ?", end.Unix()).
		Order("event.start_date ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	select {
	case s.as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds()):
	default:
	}

	events := make([]calendar.Event, 0, len(eventModels))
	for _, event := range eventModels {
		clubName, clubColor := "", ""
		if event.Club != nil {
			clubName = event.Club.Name
			clubColor = ClubColor(event.Club.ClubID)
		}
		events = append(events, event.ToCalendarEvent(clubName, clubColor))
	}
	return events, nil
}

func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	newEncoder := func() *ics.Encoder {
		enc := ics.NewEncoder()
		enc.ProdID = as.Config.GetIcalProdId()
		enc.Domain = as.Config.GetIcalDomain()
		return enc
	}

	newController := func(r *http.Request, userID string) *calendar.Controller {
		ctrl := calendar.NewController(
			calendarStore{as: as, userID: userID},
			newEncoder(),
			func() time.Time { return time.Now().In(as.Config.GetLocation()) },
		)
		if mode := r.URL.Query().Get("mode"); mode != "" {
			ctrl.SetViewMode(calendar.ViewMode(mode))
		}
		if raw := r.URL.Query().Get("date"); raw != "" {
			if active, err := parseDateParam(raw, as.Config.GetLocation()); err == nil {
				ctrl.SetActiveDate(active)
			}
		}
		return ctrl
	}

	// the grid for one view
	muxer.HandleFunc("GET /api/calendar/view", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}

		ctrl := newController(r, userModel.ID)
		ctrl.Refresh(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"activeDate": ctrl.ActiveDate().Format(time.RFC3339),
			"viewMode":   ctrl.ViewMode(),
			"savedClubs": ctrl.SavedClubs(),
			"cells":      ctrl.Grid(),
		})
	}))

	serveIcs := func(w http.ResponseWriter, filename, payload string, err error) {
		if errors.Is(err, calendar.ErrNoEvents) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't export calendar"))
			return
		}
		w.Header().Set("Content-Type", ics.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, payload); err != nil {
			slog.Warn("can't write to response", "where", "route/calendar.go", "error", err)
		}
	}

	// export the current view's events
	muxer.HandleFunc("GET /api/calendar/export", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}

		ctrl := newController(r, userModel.ID)
		ctrl.Refresh(r.Context())
		filename, payload, err := ctrl.ExportCurrentView()
		serveIcs(w, filename, payload, err)
	}))

	// export the fetched month regardless of view
	muxer.HandleFunc("GET /api/calendar/export/all", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}

		ctrl := newController(r, userModel.ID)
		ctrl.Refresh(r.Context())
		filename, payload, err := ctrl.ExportEntireCalendar()
		serveIcs(w, filename, payload, err)
	}))

	// a single event as a .ics download
	muxer.HandleFunc("GET /api/events/{id}/ics", func(w http.ResponseWriter, r *http.Request) {
		eventModel := new(model.Event)
		if err := as.BunDB.NewSelect().
			Model(eventModel).
			Relation("Club").
			Where("event.id = ?", r.PathValue("id")).
			Scan(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Event not found"}`))
			return
		}

		clubName, clubColor := "", ""
		if eventModel.Club != nil {
			clubName = eventModel.Club.Name
			clubColor = ClubColor(eventModel.Club.ClubID)
		}
		payload := newEncoder().Encode([]calendar.Event{
			eventModel.ToCalendarEvent(clubName, clubColor),
		})
		serveIcs(w, ics.EventFilename(eventModel.Title), payload, nil)
	})
}

// parseDateParam accepts both a plain date and a full timestamp.
func parseDateParam(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
