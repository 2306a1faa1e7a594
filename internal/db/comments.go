package db

import (
	"context"
	"fmt"
	"html"
	"social/internal/models"
)

// AddComment appends a comment to postID. The text is HTML-escaped before storage.
func (r *Repository) AddComment(ctx context.Context, postID, userID int64, text string) (int64, error) {
	if _, err := r.GetPost(ctx, postID); err != nil {
		return 0, err
	}
	id, err := r.insertReturningID(ctx, "INSERT INTO Comments (p_id, u_id, comment) VALUES (?, ?, ?)",
		postID, userID, html.EscapeString(text))
	if err != nil {
		return 0, fmt.Errorf("creating comment: %w", err)
	}
	return id, nil
}

// ListComments returns the comments of a post with commenter usernames, newest first.
func (r *Repository) ListComments(ctx context.Context, postID int64) ([]*models.CommentWithAuthor, error) {
	rows, err := r.query(ctx, `SELECT c.id, c.p_id, c.u_id, c.comment, c.creation_time, u.username
            FROM Comments c
            JOIN Users u ON u.id = c.u_id
            WHERE c.p_id = ?
            ORDER BY c.creation_time DESC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.CommentWithAuthor
	for rows.Next() {
		c := &models.CommentWithAuthor{}
		err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Comment.Comment, &c.CreationTime, &c.Username)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
