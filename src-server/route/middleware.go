package route

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"clubhub/src-server/model"
	"clubhub/src-server/utils"
)

type UserCtxKeyType string

const (
	UserCtxKey              UserCtxKeyType = "user"
	SessionSecretCookieName string         = "session-secret"
)

// AuthMiddleware resolves the session secret cookie into a *model.User
// in the request context. Expired sessions are deleted on sight.
func AuthMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// extract session secret from cookies
		sessionSecret := func() string {
			sessionCookie, err := r.Cookie(SessionSecretCookieName)
			if err == nil {
				return strings.TrimSpace(sessionCookie.Value)
			}
			return ""
		}()
		if sessionSecret == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session secret cookie not found"))
			return
		}

		startTimer := time.Now()
		exists, err := as.BunDB.
			NewSelect().
			Model((*model.Session)(nil)).
			Where("secret = ?", sessionSecret).
			Exists(r.Context())
		switch {
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't check if session exists in DB"))
			slog.Error("can't check if session exists in DB", "error", err)
			return
		case !exists:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session secret not found"))
			return
		}
		select {
		case as.MetricChans.DatabaseReadForAuthMiddleware <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		sessionModel := new(model.Session)
		if err := as.BunDB.
			NewSelect().
			Model(sessionModel).
			Where("secret = ?", sessionSecret).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't find session model in DB"))
			slog.Error("can't find session model in DB", "error", err)
			return
		}
		if time.Unix(sessionModel.CreatedAtUnixUTC, 0).UTC().
			Add(time.Hour * 24 * model.SessionMaxAgeDays).Before(time.Now()) {
			if _, err := as.BunDB.
				NewDelete().
				Model((*model.Session)(nil)).
				Where("secret = ?", sessionSecret).
				Exec(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't delete session model in DB"))
				slog.Error("can't delete session model in DB", "error", err)
				return
			}

			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session expired"))
			return
		}

		userModel := new(model.User)
		if err := as.BunDB.
			NewSelect().
			Model(userModel).
			Where("id = ?", sessionModel.UserID).
			Scan(r.Context()); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("User not found"))
			return
		}

		ctx := context.WithValue(r.Context(), UserCtxKey, userModel)
		next(w, r.WithContext(ctx))
	}
}

// AdminMiddleware wraps AuthMiddleware and additionally requires the
// resolved user to be an admin.
func AdminMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		userModel, ok := r.Context().Value(UserCtxKey).(*model.User)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get user from middleware"))
			return
		}
		if !userModel.IsAdmin {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Admin access required"))
			return
		}
		next(w, r)
	})
}
