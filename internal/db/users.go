package db

import (
	"context"
	"errors"
	"fmt"
	"social/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const userColumns = `u.id, u.username, u.password, u.first_name, u.last_name,
        COALESCE(u.education, ''), COALESCE(u.employment, ''), COALESCE(u.music, ''),
        COALESCE(u.movie, ''), COALESCE(u.nationality, ''), COALESCE(u.birthday, '')`

func scanUser(s rowScanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.Username, &u.Password, &u.FirstName, &u.LastName,
		&u.Education, &u.Employment, &u.Music, &u.Movie, &u.Nationality, &u.Birthday)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// RegisterUser creates a user with a bcrypt hashed password.
// It returns ErrDuplicateUsername when the username is taken.
func (r *Repository) RegisterUser(ctx context.Context, username, firstName, lastName, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	id, err := r.insertReturningID(ctx,
		`INSERT INTO Users (username, first_name, last_name, password) VALUES (?, ?, ?, ?)`,
		username, firstName, lastName, string(hash))
	if errors.Is(err, ErrConflict) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &models.User{
		ID:        id,
		Username:  username,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
	}, nil
}

// FindUserByID retrieves a user by primary key.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM Users u WHERE u.id = ?`, id))
}

// FindUserByUsername retrieves a user by exact username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM Users u WHERE u.username = ?`, username))
}

// LoadUser materializes the current identity for a request.
func (r *Repository) LoadUser(ctx context.Context, id int64) (*models.User, error) {
	return r.FindUserByID(ctx, id)
}

// VerifyPassword reports whether candidate matches the user's stored hash.
func VerifyPassword(user *models.User, candidate string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// Authenticate looks up username and checks the password.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (r *Repository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.FindUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile replaces the profile fields of targetID. Only the owner may edit.
func (r *Repository) UpdateProfile(ctx context.Context, actorID, targetID int64, p models.Profile) error {
	if actorID != targetID {
		return ErrUnauthorized
	}
	res, err := r.exec(ctx, `UPDATE Users
            SET education = ?, employment = ?, music = ?, movie = ?, nationality = ?, birthday = ?
            WHERE id = ?`,
		p.Education, p.Employment, p.Music, p.Movie, p.Nationality, p.Birthday, targetID)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
