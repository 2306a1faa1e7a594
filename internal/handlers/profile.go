package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"social/internal/db"
	"social/internal/flash"
	"social/internal/forms"
	"social/internal/models"
)

// ProfileHandler shows user profiles and lets owners edit theirs.
type ProfileHandler struct {
	*App
}

func NewProfileHandler(app *App) *ProfileHandler {
	return &ProfileHandler{App: app}
}

// Profile serves /profile (the current user) and /profile/{username}.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request, user *models.User) {
	target := user
	if username := r.PathValue("username"); username != "" && username != user.Username {
		found, err := h.Repo.FindUserByUsername(r.Context(), username)
		if errors.Is(err, db.ErrNotFound) {
			h.redirect(w, r, "/profile", flash.Warning, "User not found!")
			return
		}
		if err != nil {
			h.serverError(w, err)
			return
		}
		target = found
	}

	switch r.Method {
	case http.MethodGet:
		h.showProfile(w, r, user, target, http.StatusOK, profileForm(target.Profile), forms.Errors{})
	case http.MethodPost:
		var form forms.ProfileForm
		err := forms.Decode(r, &form)
		var errs forms.Errors
		if errors.As(err, &errs) {
			h.showProfile(w, r, user, target, http.StatusUnprocessableEntity, form, errs)
			return
		}
		if err != nil {
			h.serverError(w, err)
			return
		}

		self := "/profile/" + url.PathEscape(target.Username)
		err = h.Repo.UpdateProfile(r.Context(), user.ID, target.ID, form.Profile())
		switch {
		case errors.Is(err, db.ErrUnauthorized):
			h.Log.Printf("%s tried to edit the profile of %s", user.Username, target.Username)
			h.redirect(w, r, self, flash.Danger, "You can only edit your own profile!")
		case errors.Is(err, db.ErrNotFound):
			h.redirect(w, r, "/profile", flash.Warning, "User not found!")
		case err != nil:
			h.serverError(w, err)
		default:
			h.redirect(w, r, self, flash.Success, "Profile updated!")
		}
	default:
		h.methodNotAllowed(w)
	}
}

func (h *ProfileHandler) showProfile(w http.ResponseWriter, r *http.Request, user, target *models.User, status int, form forms.ProfileForm, errs forms.Errors) {
	data := h.pageData(w, r, target.Username, user)
	data["User"] = target
	data["CanEdit"] = user.ID == target.ID
	data["Form"] = form
	data["Errors"] = errs
	h.render(w, status, "profile", data)
}

func profileForm(p models.Profile) forms.ProfileForm {
	return forms.ProfileForm{
		Education:   p.Education,
		Employment:  p.Employment,
		Music:       p.Music,
		Movie:       p.Movie,
		Nationality: p.Nationality,
		Birthday:    p.Birthday,
	}
}
