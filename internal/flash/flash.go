// Package flash carries one-shot user messages across a redirect in a signed cookie.
package flash

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	cookieName = "flash"
	maxAge     = 5 * time.Minute
)

// Message categories used by the templates.
const (
	Success = "success"
	Warning = "warning"
	Danger  = "danger"
)

type Message struct {
	Category string `json:"c"`
	Text     string `json:"t"`
}

type claims struct {
	Messages []Message `json:"msgs"`
	jwt.RegisteredClaims
}

// Store signs and verifies flash cookies with an HMAC key.
type Store struct {
	key []byte
}

func NewStore(secret string) *Store {
	return &Store{key: []byte(secret)}
}

// Add appends a message to those already queued for the next page.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, category, text string) error {
	msgs := s.read(r)
	// a flash cookie already set on this response supersedes the request's
	if pending := w.Header()["Set-Cookie"]; len(pending) > 0 {
		kept := pending[:0]
		for _, raw := range pending {
			c, err := http.ParseSetCookie(raw)
			if err != nil || c.Name != cookieName {
				kept = append(kept, raw)
				continue
			}
			msgs = nil
			if c.MaxAge >= 0 {
				msgs = s.decode(c.Value)
			}
		}
		w.Header()["Set-Cookie"] = kept
	}
	msgs = append(msgs, Message{Category: category, Text: text})

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Messages: msgs,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return fmt.Errorf("signing flash: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the queued messages and clears the cookie.
// Missing, expired or tampered cookies yield no messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	msgs := s.read(r)
	if _, err := r.Cookie(cookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:   cookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
	return msgs
}

func (s *Store) read(r *http.Request) []Message {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	return s.decode(c.Value)
}

func (s *Store) decode(value string) []Message {
	var cl claims
	_, err := jwt.ParseWithClaims(value, &cl, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil
	}
	return cl.Messages
}
