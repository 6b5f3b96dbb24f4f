package route

import (
	"encoding/json"
	"net/http"
	"time"

	"clubhub/src-server/model"
	"clubhub/src-server/utils"

	"github.com/google/uuid"
)

func Admin(muxer *http.ServeMux, as *utils.AppState) {
	// admin status of the authenticated user
	muxer.HandleFunc("GET /api/admin/check", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"isAdmin": false}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]bool{"isAdmin": userModel.IsAdmin})
	}))

	type OneMemberRespBody struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		Role        string `json:"role"`
		Permissions string `json:"permissions"`
	}

	memberToRespBody := func(m *model.ClubMember) OneMemberRespBody {
		return OneMemberRespBody{
			ID:          m.ID,
			Name:        m.Name,
			Email:       m.Email,
			Role:        m.Role,
			Permissions: m.Permissions,
		}
	}

	// list a club's roster
	muxer.HandleFunc("GET /api/admin/clubs/{id}/members", AdminMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		memberModels := make([]model.ClubMember, 0)
		if err := as.BunDB.NewSelect().
			Model(&memberModels).
			Where("club_id = ?", r.PathValue("id")).
			Order("name ASC").
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error fetching members"}`))
			return
		}

		respBody := make([]OneMemberRespBody, 0, len(memberModels))
		for i := range memberModels {
			respBody = append(respBody, memberToRespBody(&memberModels[i]))
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(respBody)
	}))

	type MemberReqBody struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Role        string `json:"role"`
		Permissions string `json:"permissions"`
	}

	// add a member to a club's roster
	muxer.HandleFunc("POST /api/admin/clubs/{id}/members", AdminMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody MemberReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		clubExists, err := as.BunDB.NewSelect().
			Model((*model.Club)(nil)).
			Where("club_id = ?", r.PathValue("id")).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error adding member"}`))
			return
		case !clubExists:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "club not found"}`))
			return
		}

		newMember := model.ClubMember{
			ID:          uuid.NewString(),
			ClubID:      r.PathValue("id"),
			Name:        utils.CleanupString(reqBody.Name),
			Email:       reqBody.Email,
			Role:        reqBody.Role,
			Permissions: reqBody.Permissions,
		}
		if newMember.Permissions == "" {
			newMember.Permissions = "member"
		}
		startTimer := time.Now()
		if err := newMember.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(memberToRespBody(&newMember))
	}))

	// update a roster member
	muxer.HandleFunc("PUT /api/admin/clubs/{id}/members/{memberID}", AdminMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody MemberReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		memberModel := new(model.ClubMember)
		if err := as.BunDB.NewSelect().
			Model(memberModel).
			Where("id = ?", r.PathValue("memberID")).
			Where("club_id = ?", r.PathValue("id")).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "member not found"}`))
			return
		}

		if reqBody.Name != "" {
			memberModel.Name = utils.CleanupString(reqBody.Name)
		}
		if reqBody.Email != "" {
			memberModel.Email = reqBody.Email
		}
		if reqBody.Role != "" {
			memberModel.Role = reqBody.Role
		}
		if reqBody.Permissions != "" {
			memberModel.Permissions = reqBody.Permissions
		}
		startTimer := time.Now()
		if err := memberModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(memberToRespBody(memberModel))
	}))

	// remove a roster member
	muxer.HandleFunc("DELETE /api/admin/clubs/{id}/members/{memberID}", AdminMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		startTimer := time.Now()
		res, err := as.BunDB.NewDelete().
			Model((*model.ClubMember)(nil)).
			Where("id = ?", r.PathValue("memberID")).
			Where("club_id = ?", r.PathValue("id")).
			Exec(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "error removing member"}`))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}
		if deleted, err := res.RowsAffected(); err == nil && deleted == 0 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "member not found"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"message": "member removed successfully"})
	}))
}
