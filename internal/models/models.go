package models

import "time"

// User represents a registered member of the network
type User struct {
	ID        int64
	Username  string
	Password  string // bcrypt hash
	FirstName string
	LastName  string
	Profile
}

// Profile holds the optional, user editable profile fields
type Profile struct {
	Education   string
	Employment  string
	Music       string
	Movie       string
	Nationality string
	Birthday    string
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Post represents an entry in the stream
type Post struct {
	ID           int64
	UserID       int64
	Content      string // stored HTML-escaped
	Image        string // upload file name, empty when none
	CreationTime time.Time
}

// PostWithAuthor is a stream row: the post, its author and its comment count
type PostWithAuthor struct {
	Post
	Username     string
	FirstName    string
	LastName     string
	CommentCount int
}

// Comment represents a comment on a post
type Comment struct {
	ID           int64
	PostID       int64
	UserID       int64
	Comment      string // stored HTML-escaped
	CreationTime time.Time
}

// CommentWithAuthor joins a comment with the commenter's username
type CommentWithAuthor struct {
	Comment
	Username string
}

// Session represents a login session
type Session struct {
	ID      string
	UserID  int64
	Expires time.Time
}
