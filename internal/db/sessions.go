package db

import (
	"context"
	"social/internal/models"
	"time"

	"github.com/google/uuid"
)

// CreateSession starts a session for userID that expires after ttl.
func (r *Repository) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*models.Session, error) {
	session := &models.Session{
		ID:      uuid.NewString(),
		UserID:  userID,
		Expires: time.Now().UTC().Add(ttl),
	}
	_, err := r.exec(ctx, "INSERT INTO Sessions (id, u_id, expires) VALUES (?, ?, ?)",
		session.ID, session.UserID, session.Expires)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves an unexpired session by ID.
func (r *Repository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := r.queryRow(ctx, "SELECT id, u_id, expires FROM Sessions WHERE id = ? AND expires > ?",
		sessionID, time.Now().UTC()).Scan(&session.ID, &session.UserID, &session.Expires)
	if err != nil {
		return nil, translate(err)
	}
	return session, nil
}

// DeleteSession deletes a session.
func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.exec(ctx, "DELETE FROM Sessions WHERE id = ?", sessionID)
	return err
}

// DeleteUserSessions deletes all sessions of a user except the current one
func (r *Repository) DeleteUserSessions(ctx context.Context, userID int64, exceptSessionID string) error {
	_, err := r.exec(ctx, "DELETE FROM Sessions WHERE u_id = ? AND id <> ?", userID, exceptSessionID)
	return err
}

// CleanExpiredSessions deletes all expired sessions
func (r *Repository) CleanExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.exec(ctx, "DELETE FROM Sessions WHERE expires <= ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
