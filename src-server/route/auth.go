package route

import (
	"encoding/json"
	"net/http"
	"time"

	"clubhub/src-server/jwt"
	"clubhub/src-server/model"
	"clubhub/src-server/utils"

	"github.com/google/uuid"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	// logout
	muxer.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		if sessionCookie, err := r.Cookie(SessionSecretCookieName); err == nil {
			startTimer := time.Now()
			if _, err := as.BunDB.NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionCookie.Value).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete session"))
				return
			}
			select {
			case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
			default:
			}
		}
		w.Header().Set("Set-Cookie", SessionSecretCookieName+"=; Path=/; HttpOnly; SameSite=Lax; Max-Age=0")
		w.WriteHeader(http.StatusOK)
	})

	type LoginReqBody struct {
		Token string `json:"token"`
	}

	// login: exchange a signed identity token for a session cookie
	muxer.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var reqBody LoginReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if reqBody.Token == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a login token"))
			return
		}

		payload, err := jwt.Decode(reqBody.Token, as.Config.GetSessionSecret())
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid login token"))
			return
		}
		// tokens are short-lived, one exchange window
		if time.Unix(payload.IssuedAt, 0).UTC().
			Add(time.Minute * 5).Before(time.Now()) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Login token expired"))
			return
		}

		userModel := &model.User{
			ID:    payload.UserID,
			Email: payload.Email,
			Name:  payload.Name,
		}
		if err := userModel.Upsert(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't upsert user"))
			return
		}

		newSessionSecret := uuid.NewString()
		startTimer := time.Now()
		if _, err := as.BunDB.
			NewInsert().
			Model(&model.Session{
				Secret:           newSessionSecret,
				UserID:           userModel.ID,
				CreatedAtUnixUTC: time.Now().UTC().Unix(),
			}).
			Exec(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't insert session model to DB"))
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		w.Header().Set("Set-Cookie", SessionSecretCookieName+"="+newSessionSecret+"; Path=/; HttpOnly; SameSite=Lax")
		w.WriteHeader(http.StatusOK)
	})

	// whoami
	muxer.HandleFunc("GET /api/whoami", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"id":      userModel.ID,
			"email":   userModel.Email,
			"name":    userModel.Name,
			"isAdmin": userModel.IsAdmin,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
}
