package handlers

import (
	"errors"
	"net/http"
	"social/internal/models"
	"social/internal/upload"
)

type UploadHandler struct {
	*App
}

func NewUploadHandler(app *App) *UploadHandler {
	return &UploadHandler{App: app}
}

// Serve sends a stored image. Anything outside the uploads directory is a 404.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request, user *models.User) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w)
		return
	}
	f, info, err := h.Uploads.Open(r.PathValue("filename"))
	if errors.Is(err, upload.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
