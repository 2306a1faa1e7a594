package handlers

import (
	"errors"
	"net/http"
	"social/internal/db"
	"social/internal/flash"
	"social/internal/forms"
	"social/internal/models"
)

type FriendHandler struct {
	*App
}

func NewFriendHandler(app *App) *FriendHandler {
	return &FriendHandler{App: app}
}

// Friends lists the user's connections and adds new ones by username.
func (h *FriendHandler) Friends(w http.ResponseWriter, r *http.Request, user *models.User) {
	switch r.Method {
	case http.MethodGet:
		h.showFriends(w, r, user, http.StatusOK, forms.FriendForm{}, forms.Errors{})
	case http.MethodPost:
		var form forms.FriendForm
		err := forms.Decode(r, &form)
		var errs forms.Errors
		if errors.As(err, &errs) {
			h.showFriends(w, r, user, http.StatusUnprocessableEntity, form, errs)
			return
		}
		if err != nil {
			h.serverError(w, err)
			return
		}

		friend, err := h.Repo.AddFriend(r.Context(), user.ID, form.Username)
		switch {
		case errors.Is(err, db.ErrUserNotFound):
			h.redirect(w, r, "/friends", flash.Warning, "User does not exist!")
		case errors.Is(err, db.ErrSelfFriend):
			h.redirect(w, r, "/friends", flash.Warning, "You cannot be friends with yourself!")
		case errors.Is(err, db.ErrAlreadyFriends):
			h.redirect(w, r, "/friends", flash.Warning, "You are already friends with this user!")
		case err != nil:
			h.serverError(w, err)
		default:
			h.Log.Printf("%s added friend %s", user.Username, friend.Username)
			h.redirect(w, r, "/friends", flash.Success, "Friend successfully added!")
		}
	default:
		h.methodNotAllowed(w)
	}
}

func (h *FriendHandler) showFriends(w http.ResponseWriter, r *http.Request, user *models.User, status int, form forms.FriendForm, errs forms.Errors) {
	friends, err := h.Repo.ListFriendsFull(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	data := h.pageData(w, r, "Friends", user)
	data["Friends"] = friends
	data["Form"] = form
	data["Errors"] = errs
	h.render(w, status, "friends", data)
}
