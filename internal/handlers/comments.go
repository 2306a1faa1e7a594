package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"social/internal/db"
	"social/internal/flash"
	"social/internal/forms"
	"social/internal/models"
	"strconv"
)

type CommentHandler struct {
	*App
}

func NewCommentHandler(app *App) *CommentHandler {
	return &CommentHandler{App: app}
}

// Comments shows a post with its comments and accepts new comments on it.
func (h *CommentHandler) Comments(w http.ResponseWriter, r *http.Request, user *models.User) {
	postID, err := strconv.ParseInt(r.PathValue("postID"), 10, 64)
	if err != nil || postID <= 0 {
		h.NotFound(w, r)
		return
	}
	post, err := h.visiblePost(r, user, postID)
	if errors.Is(err, db.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.showComments(w, r, user, post, http.StatusOK, forms.CommentForm{}, forms.Errors{})
	case http.MethodPost:
		var form forms.CommentForm
		err := forms.Decode(r, &form)
		var errs forms.Errors
		if errors.As(err, &errs) {
			h.showComments(w, r, user, post, http.StatusUnprocessableEntity, form, errs)
			return
		}
		if err != nil {
			h.serverError(w, err)
			return
		}
		_, err = h.Repo.AddComment(r.Context(), post.ID, user.ID, form.Comment)
		if errors.Is(err, db.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		if err != nil {
			h.serverError(w, err)
			return
		}
		h.redirect(w, r, fmt.Sprintf("/comments/%d", post.ID), flash.Success, "Comment added!")
	default:
		h.methodNotAllowed(w)
	}
}

// visiblePost loads postID if user may see it: their own post or one by a friend.
// Hidden posts are reported as db.ErrNotFound.
func (h *CommentHandler) visiblePost(r *http.Request, user *models.User, postID int64) (*models.PostWithAuthor, error) {
	post, err := h.Repo.GetPost(r.Context(), postID)
	if err != nil {
		return nil, err
	}
	if post.UserID == user.ID {
		return post, nil
	}
	ok, err := h.Repo.AreFriends(r.Context(), user.ID, post.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, db.ErrNotFound
	}
	return post, nil
}

func (h *CommentHandler) showComments(w http.ResponseWriter, r *http.Request, user *models.User, post *models.PostWithAuthor, status int, form forms.CommentForm, errs forms.Errors) {
	comments, err := h.Repo.ListComments(r.Context(), post.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	data := h.pageData(w, r, "Comments", user)
	data["Post"] = post
	data["Comments"] = comments
	data["Form"] = form
	data["Errors"] = errs
	h.render(w, status, "comments", data)
}
