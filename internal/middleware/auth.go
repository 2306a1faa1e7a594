package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"social/internal/db"
	"social/internal/models"
)

// SessionCookie is the name of the cookie holding the session id.
const SessionCookie = "session_id"

// IdentityStore resolves a session token into the current user.
type IdentityStore interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	LoadUser(ctx context.Context, id int64) (*models.User, error)
}

// Flasher queues a message for the next rendered page.
type Flasher interface {
	Add(w http.ResponseWriter, r *http.Request, category, text string) error
}

// UserHandlerFunc is a handler that requires an authenticated user.
type UserHandlerFunc func(w http.ResponseWriter, r *http.Request, user *models.User)

// CurrentUser resolves the request's user from its session cookie, reading
// the user row fresh from the store. It returns db.ErrNotFound when the
// request carries no valid session.
func CurrentUser(r *http.Request, store IdentityStore) (*models.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, db.ErrNotFound
	}
	session, err := store.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	return store.LoadUser(r.Context(), session.UserID)
}

// AuthMiddleware wraps handlers that need a logged in user. Anonymous
// requests are sent to the index page.
func AuthMiddleware(store IdentityStore, flashes Flasher, logger *log.Logger) func(UserHandlerFunc) http.Handler {
	return func(next UserHandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := CurrentUser(r, store)
			if errors.Is(err, db.ErrNotFound) {
				if err := flashes.Add(w, r, "warning", "Please log in to access this page."); err != nil {
					logger.Printf("Flash error: %v", err)
				}
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			if err != nil {
				logger.Printf("Session lookup error: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			next(w, r, user)
		})
	}
}
