package handlers

import (
	"errors"
	"net/http"
	"social/internal/db"
	"social/internal/flash"
	"social/internal/forms"
	"social/internal/middleware"
	"time"
)

type AuthHandler struct {
	*App
}

func NewAuthHandler(app *App) *AuthHandler {
	return &AuthHandler{App: app}
}

// Index serves the landing page with the login and registration forms.
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	// already logged in users go straight to their stream
	if _, err := middleware.CurrentUser(r, h.Repo); err == nil {
		http.Redirect(w, r, "/stream", http.StatusSeeOther)
		return
	}

	data := h.pageData(w, r, "Welcome", nil)
	data["LoginForm"] = forms.LoginForm{}
	data["RegisterForm"] = forms.RegisterForm{}
	data["LoginErrors"] = forms.Errors{}
	data["RegisterErrors"] = forms.Errors{}

	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "index", data)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			h.redirect(w, r, "/", flash.Danger, "Could not read the submitted form.")
			return
		}
		if r.PostFormValue("action") == "register" {
			h.register(w, r, data)
			return
		}
		h.login(w, r, data)
	default:
		h.methodNotAllowed(w)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, data map[string]interface{}) {
	var form forms.LoginForm
	err := forms.Decode(r, &form)
	form.Password = ""
	data["LoginForm"] = form
	var errs forms.Errors
	if errors.As(err, &errs) {
		data["LoginErrors"] = errs
		h.render(w, http.StatusUnprocessableEntity, "index", data)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	user, err := h.Repo.Authenticate(r.Context(), form.Username, r.PostFormValue("password"))
	if errors.Is(err, db.ErrInvalidCredentials) {
		h.Log.Printf("Failed login for user %q", form.Username)
		flashNow(data, flash.Warning, "Sorry, wrong username or password!")
		h.render(w, http.StatusUnauthorized, "index", data)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	session, err := h.Repo.CreateSession(r.Context(), user.ID, h.Config.SessionTTL)
	if err != nil {
		h.serverError(w, err)
		return
	}
	// one active session per user
	if err := h.Repo.DeleteUserSessions(r.Context(), user.ID, session.ID); err != nil {
		h.Log.Printf("Error deleting old sessions: %v", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.Expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.Log.Printf("User logged in: %s", user.Username)
	h.redirect(w, r, "/stream", flash.Success, "Successfully logged in!")
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, data map[string]interface{}) {
	var form forms.RegisterForm
	err := forms.Decode(r, &form)
	password := form.Password
	form.Password, form.ConfirmPassword = "", ""
	data["RegisterForm"] = form
	var errs forms.Errors
	if errors.As(err, &errs) {
		data["RegisterErrors"] = errs
		h.render(w, http.StatusUnprocessableEntity, "index", data)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	user, err := h.Repo.RegisterUser(r.Context(), form.Username, form.FirstName, form.LastName, password)
	if errors.Is(err, db.ErrDuplicateUsername) {
		data["RegisterErrors"] = forms.Errors{"username": "This username is already taken"}
		flashNow(data, flash.Warning, "Sorry, that username is already taken!")
		h.render(w, http.StatusConflict, "index", data)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.Log.Printf("User registered: %s", user.Username)
	h.redirect(w, r, "/", flash.Success, "User successfully created!")
}

// Logout ends the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		h.methodNotAllowed(w)
		return
	}
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.Repo.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.Log.Printf("Error deleting session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.redirect(w, r, "/", flash.Success, "You have been logged out.")
}
