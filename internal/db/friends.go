package db

import (
	"context"
	"errors"
	"fmt"
	"social/internal/models"
)

// ListFriendIDs returns the ids userID has added, i.e. edges with u_id = userID.
func (r *Repository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.query(ctx, "SELECT f_id FROM Friends WHERE u_id = ? ORDER BY f_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AreFriends reports whether an edge exists between a and b in either direction.
func (r *Repository) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	var count int
	err := r.queryRow(ctx, `SELECT COUNT(*) FROM Friends
            WHERE (u_id = ? AND f_id = ?) OR (u_id = ? AND f_id = ?)`,
		a, b, b, a).Scan(&count)
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// AddFriend inserts the edge userID -> target, resolving target by username.
// Only one direction is stored; the reverse edge is never created.
func (r *Repository) AddFriend(ctx context.Context, userID int64, targetUsername string) (*models.User, error) {
	target, err := r.FindUserByUsername(ctx, targetUsername)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if target.ID == userID {
		return nil, ErrSelfFriend
	}

	already, err := r.AreFriends(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyFriends
	}

	_, err = r.exec(ctx, "INSERT INTO Friends (u_id, f_id) VALUES (?, ?)", userID, target.ID)
	if errors.Is(err, ErrConflict) {
		return nil, ErrAlreadyFriends
	}
	if err != nil {
		return nil, fmt.Errorf("adding friend: %w", err)
	}
	return target, nil
}

// ListFriendsFull returns the users connected to userID in either direction,
// excluding userID itself, ordered by username.
func (r *Repository) ListFriendsFull(ctx context.Context, userID int64) ([]*models.User, error) {
	rows, err := r.query(ctx, `SELECT `+userColumns+`
            FROM Users u
            WHERE u.id <> ?
              AND (u.id IN (SELECT f_id FROM Friends WHERE u_id = ?)
                OR u.id IN (SELECT u_id FROM Friends WHERE f_id = ?))
            ORDER BY u.username`,
		userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		friends = append(friends, u)
	}
	return friends, rows.Err()
}
