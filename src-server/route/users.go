package route

import (
	"encoding/json"
	"net/http"

	"clubhub/src-server/model"
	"clubhub/src-server/utils"
)

func Users(muxer *http.ServeMux, as *utils.AppState) {
	// clubs saved by the authenticated user
	muxer.HandleFunc("GET /api/saved-clubs", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		w.Header().Set("Content-Type", "application/json")

		clubModels, err := savedClubs(r, as, userModel.ID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error fetching saved clubs"}`))
			return
		}

		respBody := make([]OneClubRespBody, 0, len(clubModels))
		for i := range clubModels {
			respBody = append(respBody, clubToRespBody(&clubModels[i]))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	}))

	// just the ids of the saved clubs
	muxer.HandleFunc("GET /api/saved-club-ids", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		w.Header().Set("Content-Type", "application/json")

		savedClubModels := make([]model.SavedClub, 0)
		if err := as.BunDB.NewSelect().
			Model(&savedClubModels).
			Where("user_id = ?", userModel.ID).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error fetching saved club ids"}`))
			return
		}

		type OneIDRespBody struct {
			ClubID string `json:"club_id"`
		}
		respBody := make([]OneIDRespBody, 0, len(savedClubModels))
		for _, saved := range savedClubModels {
			respBody = append(respBody, OneIDRespBody{ClubID: saved.ClubID})
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	}))

	// events saved by the authenticated user
	muxer.HandleFunc("GET /api/saved-events", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		w.Header().Set("Content-Type", "application/json")

		eventModels := make([]model.Event, 0)
		if err := as.BunDB.NewSelect().
			Model(&eventModels).
			Join("JOIN saved_events AS se ON se.event_id = event.id").
			Where("se.user_id = ?", userModel.ID).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error fetching saved events"}`))
			return
		}

		respBody := make([]OneEventRespBody, 0, len(eventModels))
		for i := range eventModels {
			respBody = append(respBody, eventToRespBody(&eventModels[i]))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	}))

	// just the ids of the saved events
	muxer.HandleFunc("GET /api/saved-event-ids", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		w.Header().Set("Content-Type", "application/json")

		savedEventModels := make([]model.SavedEvent, 0)
		if err := as.BunDB.NewSelect().
			Model(&savedEventModels).
			Where("user_id = ?", userModel.ID).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error fetching saved event ids"}`))
			return
		}

		type OneIDRespBody struct {
			EventID string `json:"event_id"`
		}
		respBody := make([]OneIDRespBody, 0, len(savedEventModels))
		for _, saved := range savedEventModels {
			respBody = append(respBody, OneIDRespBody{EventID: saved.EventID})
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	}))
}

func savedClubs(r *http.Request, as *utils.AppState, userID string) ([]model.Club, error) {
	clubModels := make([]model.Club, 0)
	if err := as.BunDB.NewSelect().
		Model(&clubModels).
		Join("JOIN saved_clubs AS sc ON sc.club_id = club.club_id").
		Where("sc.user_id = ?", userID).
		Scan(r.Context()); err != nil {
		return nil, err
	}
	return clubModels, nil
}
