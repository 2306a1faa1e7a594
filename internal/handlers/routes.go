package handlers

import (
	"net/http"
	"path/filepath"
	"social/internal/middleware"
)

// NewRouter registers every route of the application on a fresh mux.
func NewRouter(app *App) http.Handler {
	authHandler := NewAuthHandler(app)
	postHandler := NewPostHandler(app)
	commentHandler := NewCommentHandler(app)
	friendHandler := NewFriendHandler(app)
	profileHandler := NewProfileHandler(app)
	uploadHandler := NewUploadHandler(app)

	auth := middleware.AuthMiddleware(app.Repo, app.Flash, app.Log)

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", authHandler.Index)
	mux.HandleFunc("/index", authHandler.Index)
	mux.HandleFunc("/logout", authHandler.Logout)
	mux.HandleFunc("/healthz", app.Health)
	mux.Handle("/stream", auth(postHandler.Stream))
	mux.Handle("/comments/{postID}", auth(commentHandler.Comments))
	mux.Handle("/friends", auth(friendHandler.Friends))
	mux.Handle("/profile", auth(profileHandler.Profile))
	mux.Handle("/profile/{username}", auth(profileHandler.Profile))
	mux.Handle("/uploads/{filename}", auth(uploadHandler.Serve))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(app.Config.ProjectRoot, "static")))))
	mux.HandleFunc("/", app.NotFound)

	return middleware.Logging(app.Log)(mux)
}
