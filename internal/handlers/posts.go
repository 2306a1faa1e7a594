package handlers

import (
	"errors"
	"net/http"
	"social/internal/flash"
	"social/internal/forms"
	"social/internal/models"
	"social/internal/upload"
)

// PostHandler serves the stream: the user's own posts and those of their friends.
type PostHandler struct {
	*App
}

func NewPostHandler(app *App) *PostHandler {
	return &PostHandler{App: app}
}

// Stream lists the visible posts and accepts new ones.
func (h *PostHandler) Stream(w http.ResponseWriter, r *http.Request, user *models.User) {
	switch r.Method {
	case http.MethodGet:
		h.showStream(w, r, user, http.StatusOK, forms.PostForm{}, forms.Errors{})
	case http.MethodPost:
		h.createPost(w, r, user)
	default:
		h.methodNotAllowed(w)
	}
}

func (h *PostHandler) showStream(w http.ResponseWriter, r *http.Request, user *models.User, status int, form forms.PostForm, errs forms.Errors) {
	posts, err := h.Repo.ListVisiblePosts(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}
	data := h.pageData(w, r, "Stream", user)
	data["Posts"] = posts
	data["Form"] = form
	data["Errors"] = errs
	h.render(w, status, "stream", data)
}

func (h *PostHandler) createPost(w http.ResponseWriter, r *http.Request, user *models.User) {
	// leave room for the other form fields on top of the image itself
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUpload+1<<20)
	if err := r.ParseMultipartForm(h.Config.MaxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.redirect(w, r, "/stream", flash.Danger, "Image too large.")
			return
		}
		h.redirect(w, r, "/stream", flash.Danger, "Error loading form.")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var form forms.PostForm
	err := forms.Decode(r, &form)
	var errs forms.Errors
	if errors.As(err, &errs) {
		h.showStream(w, r, user, http.StatusUnprocessableEntity, form, errs)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	var image string
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		image, err = h.Uploads.Save(header.Filename, file)
		if errors.Is(err, upload.ErrInvalidUpload) {
			h.Log.Printf("Rejected upload from %s: %v", user.Username, err)
			h.showStream(w, r, user, http.StatusUnprocessableEntity, form, forms.Errors{"image": "Invalid image type."})
			return
		}
		if err != nil {
			h.serverError(w, err)
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// posting without an image
	default:
		h.redirect(w, r, "/stream", flash.Danger, "Error reading file.")
		return
	}

	if _, err := h.Repo.CreatePost(r.Context(), user.ID, form.Content, image); err != nil {
		if image != "" {
			if rerr := h.Uploads.Remove(image); rerr != nil {
				h.Log.Printf("Error removing orphaned upload %s: %v", image, rerr)
			}
		}
		h.serverError(w, err)
		return
	}
	h.redirect(w, r, "/stream", flash.Success, "Post created!")
}
