package route

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clubhub/src-server/model"
	"clubhub/src-server/utils"

	"github.com/uptrace/bun"
)

type OneEventRespBody struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Date        string   `json:"date"`
	EndDate     string   `json:"end_date,omitempty"`
	Organizer   string   `json:"organizer,omitempty"`
	Tags        []string `json:"tags"`
	ClubID      string   `json:"club_id,omitempty"`
	ClubName    string   `json:"clubName,omitempty"`
	ClubColor   string   `json:"clubColor,omitempty"`
	SaveCount   int      `json:"saveCount"`
}

func eventToRespBody(event *model.Event) OneEventRespBody {
	resp := OneEventRespBody{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Date:        time.Unix(event.StartUnixUTC, 0).UTC().Format(time.RFC3339),
		Organizer:   event.Organizer,
		Tags:        event.TagList(),
		ClubID:      event.ClubID,
		SaveCount:   event.SaveCount,
	}
	if event.EndUnixUTC != 0 {
		resp.EndDate = time.Unix(event.EndUnixUTC, 0).UTC().Format(time.RFC3339)
	}
	if event.Club != nil {
		resp.ClubName = event.Club.Name
		resp.ClubColor = ClubColor(event.Club.ClubID)
	}
	return resp
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	// list all events
	muxer.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		eventModels := make([]model.Event, 0)
		if err := as.BunDB.NewSelect().
			Model(&eventModels).
			Relation("Club").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error fetching events"}`))
			return
		}
		if len(eventModels) == 0 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "No events found"}`))
			return
		}

		respBody := make([]OneEventRespBody, 0, len(eventModels))
		for i := range eventModels {
			respBody = append(respBody, eventToRespBody(&eventModels[i]))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	})

	// one event by id
	muxer.HandleFunc("GET /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		eventModel := new(model.Event)
		if err := as.BunDB.NewSelect().
			Model(eventModel).
			Relation("Club").
			Where("event.id = ?", r.PathValue("id")).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Event not found"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(eventToRespBody(eventModel))
	})

	// events of the user's saved clubs in a date range; the calendar
	// fetches a whole month at a time and filters finer views locally
	muxer.HandleFunc("GET /api/user/saved-clubs/events", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		w.Header().Set("Content-Type", "application/json")

		startDate, err := time.Parse(time.RFC3339, r.URL.Query().Get("start_date"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid start_date"}`))
			return
		}
		endDate, err := time.Parse(time.RFC3339, r.URL.Query().Get("end_date"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid end_date"}`))
			return
		}

		eventModels := make([]model.Event, 0)
		if err := as.BunDB.NewSelect().
			Model(&eventModels).
			Relation("Club").
			Join("JOIN saved_clubs AS sc ON sc.club_id = event.club_id").
			Where("sc.user_id = ?", userModel.ID).
			Where("event.start_date >= ?", startDate.Unix()).
			Where("event.start_date <= ?", endDate.Unix()).
			Order("event.start_date ASC").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error fetching events"}`))
			return
		}

		respBody := make([]OneEventRespBody, 0, len(eventModels))
		for i := range eventModels {
			respBody = append(respBody, eventToRespBody(&eventModels[i]))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"events": respBody})
	}))

	type SaveEventReqBody struct {
		EventID string `json:"event_id"`
	}

	// save an event to the user's list
	muxer.HandleFunc("POST /api/save-event", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}

		var reqBody SaveEventReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		statusCode := http.StatusCreated
		eventModel := new(model.Event)
		startTimer := time.Now()
		if err := as.BunDB.RunInTx(r.Context(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			if err := tx.NewSelect().
				Model(eventModel).
				Where("id = ?", reqBody.EventID).
				Scan(ctx); err != nil {
				statusCode = http.StatusNotFound
				return fmt.Errorf("event not found: %w", err)
			}

			alreadySaved, err := tx.NewSelect().
				Model((*model.SavedEvent)(nil)).
				Where("user_id = ?", userModel.ID).
				Where("event_id = ?", reqBody.EventID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("can't check if event is saved: %w", err)
			}
			if alreadySaved {
				statusCode = http.StatusOK
				return nil
			}

			if _, err := tx.NewInsert().
				Model(&model.SavedEvent{
					UserID:         userModel.ID,
					EventID:        reqBody.EventID,
					SavedAtUnixUTC: time.Now().UTC().Unix(),
				}).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't save event: %w", err)
			}

			eventModel.SaveCount++
			if _, err := tx.NewUpdate().
				Model(eventModel).
				Column("save_count").
				WherePK().
				Exec(ctx); err != nil {
				return fmt.Errorf("can't bump save count: %w", err)
			}
			return nil
		}); err != nil {
			if statusCode == http.StatusNotFound {
				w.WriteHeader(statusCode)
				w.Write([]byte(`{"error": "Event not found"}`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error saving event"}`))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(eventToRespBody(eventModel))
	}))

	// remove an event from the user's list
	muxer.HandleFunc("DELETE /api/unsave-event/{id}", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		eventID := r.PathValue("id")
		w.Header().Set("Content-Type", "application/json")

		statusCode := http.StatusOK
		eventModel := new(model.Event)
		startTimer := time.Now()
		if err := as.BunDB.RunInTx(r.Context(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			if err := tx.NewSelect().
				Model(eventModel).
				Where("id = ?", eventID).
				Scan(ctx); err != nil {
				statusCode = http.StatusNotFound
				return fmt.Errorf("event not found: %w", err)
			}

			hasSaved, err := tx.NewSelect().
				Model((*model.SavedEvent)(nil)).
				Where("user_id = ?", userModel.ID).
				Where("event_id = ?", eventID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("can't check if event is saved: %w", err)
			}
			if !hasSaved {
				statusCode = http.StatusNotFound
				return fmt.Errorf("event not found in saved list")
			}

			if _, err := tx.NewDelete().
				Model((*model.SavedEvent)(nil)).
				Where("user_id = ?", userModel.ID).
				Where("event_id = ?", eventID).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't unsave event: %w", err)
			}

			if eventModel.SaveCount > 0 {
				eventModel.SaveCount--
			}
			if _, err := tx.NewUpdate().
				Model(eventModel).
				Column("save_count").
				WherePK().
				Exec(ctx); err != nil {
				return fmt.Errorf("can't drop save count: %w", err)
			}
			return nil
		}); err != nil {
			if statusCode == http.StatusNotFound {
				w.WriteHeader(statusCode)
				w.Write([]byte(`{"error": "event not found in saved list"}`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error unsaving event"}`))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(eventToRespBody(eventModel))
	}))
}
