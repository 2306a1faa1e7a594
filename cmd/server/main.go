package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"social/internal/config"
	"social/internal/db"
	"social/internal/flash"
	"social/internal/handlers"
	"social/internal/upload"
	"syscall"
	"time"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := log.New(os.Stdout, "social: ", log.LstdFlags|log.Lshortfile)

	// Initialize repository
	repo, err := db.NewRepository(cfg)
	if err != nil {
		logger.Fatalf("Database initialization error: %v", err)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run migrations
	if err := repo.RunMigrations(ctx); err != nil {
		logger.Fatalf("Migration error: %v", err)
	}

	uploads, err := upload.NewStore(cfg.UploadsDir, cfg.MaxUpload)
	if err != nil {
		logger.Fatalf("Upload directory error: %v", err)
	}

	// Start periodic session cleanup
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := repo.CleanExpiredSessions(ctx)
				if err != nil {
					logger.Printf("Session cleanup error: %v", err)
					continue
				}
				if n > 0 {
					logger.Printf("Removed %d expired sessions", n)
				}
			}
		}
	}()

	app := &handlers.App{
		Repo:    repo,
		Log:     logger,
		Views:   handlers.NewRenderer(cfg.ProjectRoot),
		Uploads: uploads,
		Flash:   flash.NewStore(cfg.SecretKey),
		Config:  cfg,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	// Start server
	logger.Printf("Server started at http://localhost:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server start error: %v", err)
	}
	logger.Printf("Server stopped")
}
