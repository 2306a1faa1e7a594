package db

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"social/internal/models"
)

const postColumns = `p.id, p.u_id, p.content, p.image, p.creation_time,
        u.username, u.first_name, u.last_name`

func scanPost(s rowScanner, withCount bool) (*models.PostWithAuthor, error) {
	p := &models.PostWithAuthor{}
	var image sql.NullString
	dest := []any{&p.ID, &p.UserID, &p.Content, &image, &p.CreationTime,
		&p.Username, &p.FirstName, &p.LastName}
	if withCount {
		dest = append(dest, &p.CommentCount)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, translate(err)
	}
	p.Image = image.String
	return p, nil
}

// CreatePost stores a post for userID. Content is HTML-escaped before it is
// written; image is a name returned by the upload store or empty.
func (r *Repository) CreatePost(ctx context.Context, userID int64, content, image string) (int64, error) {
	var img sql.NullString
	if image != "" {
		img = sql.NullString{String: image, Valid: true}
	}
	id, err := r.insertReturningID(ctx, "INSERT INTO Posts (u_id, content, image) VALUES (?, ?, ?)",
		userID, html.EscapeString(content), img)
	if err != nil {
		return 0, fmt.Errorf("creating post: %w", err)
	}
	return id, nil
}

// GetPost retrieves a post with its author.
func (r *Repository) GetPost(ctx context.Context, postID int64) (*models.PostWithAuthor, error) {
	return scanPost(r.queryRow(ctx, `SELECT `+postColumns+`
            FROM Posts p
            JOIN Users u ON u.id = p.u_id
            WHERE p.id = ?`, postID), false)
}

// ListVisiblePosts returns the posts of userID and of everyone connected to
// userID by an edge in either direction, newest first.
func (r *Repository) ListVisiblePosts(ctx context.Context, userID int64) ([]*models.PostWithAuthor, error) {
	rows, err := r.query(ctx, `SELECT `+postColumns+`,
                (SELECT COUNT(*) FROM Comments c WHERE c.p_id = p.id) AS comment_count
            FROM Posts p
            JOIN Users u ON u.id = p.u_id
            WHERE p.u_id = ?
               OR p.u_id IN (SELECT f_id FROM Friends WHERE u_id = ?)
               OR p.u_id IN (SELECT u_id FROM Friends WHERE f_id = ?)
            ORDER BY p.creation_time DESC, p.id ASC`,
		userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.PostWithAuthor
	for rows.Next() {
		p, err := scanPost(rows, true)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
