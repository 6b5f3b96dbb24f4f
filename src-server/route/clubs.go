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

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type OneClubRespBody struct {
	ClubID            string   `json:"club_id"`
	Name              string   `json:"name"`
	IsActive          bool     `json:"is_active"`
	IsAccepting       bool     `json:"is_accepting"`
	RecruitingCycle   []string `json:"recruiting_cycle"`
	Tags              []string `json:"tags"`
	MembershipProcess string   `json:"membership_process,omitempty"`
	Email             string   `json:"email,omitempty"`
	Instagram         string   `json:"instagram,omitempty"`
	Linkedin          string   `json:"linkedin,omitempty"`
	Facebook          string   `json:"facebook,omitempty"`
	Website           string   `json:"website,omitempty"`
	Mission           string   `json:"mission,omitempty"`
	ImageURL          string   `json:"image_url,omitempty"`
	SaveCount         int      `json:"saveCount"`
	Color             string   `json:"color,omitempty"`
}

func clubToRespBody(club *model.Club) OneClubRespBody {
	return OneClubRespBody{
		ClubID:            club.ClubID,
		Name:              club.Name,
		IsActive:          club.IsActive,
		IsAccepting:       club.IsAccepting,
		RecruitingCycle:   club.RecruitingCycleList(),
		Tags:              club.TagList(),
		MembershipProcess: club.MembershipProcess,
		Email:             club.Email,
		Instagram:         club.Instagram,
		Linkedin:          club.Linkedin,
		Facebook:          club.Facebook,
		Website:           club.Website,
		Mission:           club.Mission,
		ImageURL:          club.ImageURL,
		SaveCount:         club.SaveCount,
		Color:             ClubColor(club.ClubID),
	}
}

func Clubs(muxer *http.ServeMux, as *utils.AppState) {
	// list all clubs
	muxer.HandleFunc("GET /api/clubs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		clubModels := make([]model.Club, 0)
		if err := as.BunDB.
			NewSelect().
			Model(&clubModels).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get clubs"))
			return
		}
		if len(clubModels) == 0 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "clubs not found"}`))
			return
		}

		respBody := make([]OneClubRespBody, 0, len(clubModels))
		for i := range clubModels {
			respBody = append(respBody, clubToRespBody(&clubModels[i]))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	})

	// one club by id
	muxer.HandleFunc("GET /api/clubs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		clubModel := new(model.Club)
		if err := as.BunDB.
			NewSelect().
			Model(clubModel).
			Where("club_id = ?", r.PathValue("id")).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "club not found"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(clubToRespBody(clubModel))
	})

	type CreateClubReqBody struct {
		ClubID            string   `json:"club_id"`
		Name              string   `json:"name"`
		IsActive          *bool    `json:"is_active"`
		IsAccepting       bool     `json:"is_accepting"`
		RecruitingCycle   []string `json:"recruiting_cycle"`
		Tags              []string `json:"tags"`
		MembershipProcess string   `json:"membership_process"`
		Email             string   `json:"email"`
		Instagram         string   `json:"instagram"`
		Linkedin          string   `json:"linkedin"`
		Facebook          string   `json:"facebook"`
		Website           string   `json:"website"`
		Mission           string   `json:"mission"`
		ImageURL          string   `json:"image_url"`
	}

	// create a new club
	muxer.HandleFunc("POST /api/club", AdminMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody CreateClubReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		newClub := model.Club{
			ClubID:            reqBody.ClubID,
			Name:              utils.CleanupString(reqBody.Name),
			IsActive:          reqBody.IsActive == nil || *reqBody.IsActive,
			IsAccepting:       reqBody.IsAccepting,
			RecruitingCycle:   model.JoinList(reqBody.RecruitingCycle),
			Tags:              model.JoinList(reqBody.Tags),
			MembershipProcess: reqBody.MembershipProcess,
			Email:             reqBody.Email,
			Instagram:         reqBody.Instagram,
			Linkedin:          reqBody.Linkedin,
			Facebook:          reqBody.Facebook,
			Website:           reqBody.Website,
			Mission:           reqBody.Mission,
			ImageURL:          reqBody.ImageURL,
		}
		if newClub.ClubID == "" {
			newClub.ClubID = uuid.NewString()
		}
		startTimer := time.Now()
		if err := newClub.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error adding club"}`))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "club added successfully",
			"club_id": newClub.ClubID,
		})
	}))

	type DeleteClubReqBody struct {
		ClubID string `json:"club_id"`
	}

	// delete a club
	muxer.HandleFunc("DELETE /api/club", AdminMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody DeleteClubReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		startTimer := time.Now()
		res, err := as.BunDB.NewDelete().
			Model((*model.Club)(nil)).
			Where("club_id = ?", reqBody.ClubID).
			Exec(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error deleting club"}`))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}
		if deleted, err := res.RowsAffected(); err == nil && deleted == 0 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "club not found"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"message": "club deleted successfully"})
	}))

	type SaveClubReqBody struct {
		ClubID string `json:"club_id"`
	}

	// save a club to the user's list
	muxer.HandleFunc("POST /api/save-club", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}

		var reqBody SaveClubReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		statusCode := http.StatusCreated
		clubModel := new(model.Club)
		startTimer := time.Now()
		if err := as.BunDB.RunInTx(r.Context(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			// already saved -> idempotent success
			alreadySaved, err := tx.NewSelect().
				Model((*model.SavedClub)(nil)).
				Where("user_id = ?", userModel.ID).
				Where("club_id = ?", reqBody.ClubID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("can't check if club is saved: %w", err)
			}

			if err := tx.NewSelect().
				Model(clubModel).
				Where("club_id = ?", reqBody.ClubID).
				Scan(ctx); err != nil {
				statusCode = http.StatusNotFound
				return fmt.Errorf("club not found: %w", err)
			}
			if alreadySaved {
				statusCode = http.StatusOK
				return nil
			}

			// the save count only moves on a user's first ever save
			savedBefore, err := tx.NewSelect().
				Model((*model.ClubSaver)(nil)).
				Where("user_id = ?", userModel.ID).
				Where("club_id = ?", reqBody.ClubID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("can't check save history: %w", err)
			}
			if !savedBefore {
				clubModel.SaveCount++
				if _, err := tx.NewUpdate().
					Model(clubModel).
					Column("save_count").
					WherePK().
					Exec(ctx); err != nil {
					return fmt.Errorf("can't bump save count: %w", err)
				}
				if _, err := tx.NewInsert().
					Model(&model.ClubSaver{UserID: userModel.ID, ClubID: reqBody.ClubID}).
					Exec(ctx); err != nil {
					return fmt.Errorf("can't record save history: %w", err)
				}
			}

			if _, err := tx.NewInsert().
				Model(&model.SavedClub{
					UserID:         userModel.ID,
					ClubID:         reqBody.ClubID,
					SavedAtUnixUTC: time.Now().UTC().Unix(),
				}).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't save club: %w", err)
			}
			return nil
		}); err != nil {
			if statusCode == http.StatusNotFound {
				w.WriteHeader(statusCode)
				w.Write([]byte(`{"error": "Club not found"}`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error saving club"}`))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(clubToRespBody(clubModel))
	}))

	// remove a club from the user's list
	muxer.HandleFunc("DELETE /api/unsave-club/{id}", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		clubID := r.PathValue("id")
		w.Header().Set("Content-Type", "application/json")

		exists, err := as.BunDB.NewSelect().
			Model((*model.SavedClub)(nil)).
			Where("user_id = ?", userModel.ID).
			Where("club_id = ?", clubID).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error unsaving the club"}`))
			return
		case !exists:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "club not found in saved list"}`))
			return
		}

		startTimer := time.Now()
		if _, err := as.BunDB.NewDelete().
			Model((*model.SavedClub)(nil)).
			Where("user_id = ?", userModel.ID).
			Where("club_id = ?", clubID).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error unsaving the club"}`))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		clubModel := new(model.Club)
		if err := as.BunDB.NewSelect().
			Model(clubModel).
			Where("club_id = ?", clubID).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "club not found"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(clubToRespBody(clubModel))
	}))
}
