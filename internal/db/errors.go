package db

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("constraint violation")

	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("not allowed to modify this profile")

	ErrUserNotFound   = errors.New("user does not exist")
	ErrSelfFriend     = errors.New("cannot be friends with yourself")
	ErrAlreadyFriends = errors.New("already friends with this user")
)
