// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("not logged in: run \"resolve login\" first")

// ErrExpired is returned when the stored token's exp claim has passed.
var ErrExpired = errors.New("session expired: run \"resolve login\" again")

// Session is the logged-in user and their bearer token.
type Session struct {
	Token string      `json:"token"`
	User  ticket.User `json:"user"`

	// BaseURL records which service issued the token.
	BaseURL string `json:"base_url,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

// Role returns the logged-in user's role.
func (s *Session) Role() ticket.Role {
	return s.User.Role
}

// Can reports whether the logged-in user may perform action.
func (s *Session) Can(action string) bool {
	return ticket.Allowed(s.User.Role, action)
}

// ExpiresAt returns the token's exp claim. The token is decoded without
// signature verification: the service verifies, the client only wants
// to avoid sending a token it knows is stale. Opaque (non-JWT) tokens
// and tokens without exp report false.
func (s *Session) ExpiresAt() (time.Time, bool) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token's exp claim is at or before now.
func (s *Session) Expired(now time.Time) bool {
	expiresAt, ok := s.ExpiresAt()
	return ok && !now.Before(expiresAt)
}

// Store reads and writes the session file. There is no locking:
// concurrent writers are last-write-wins.
type Store struct {
	path string
}

// NewStore returns a store for the session file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved session. A missing or malformed file, or one
// without a token or user id, is reported as [ErrNoSession] rather
// than a parse error.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session file %s: %w", s.path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, ErrNoSession
	}
	if session.Token == "" || session.User.ID == 0 {
		return nil, ErrNoSession
	}
	return &session, nil
}

// LoadActive is like [Store.Load] but also rejects an expired token.
func (s *Store) LoadActive(now time.Time) (*Session, error) {
	session, err := s.Load()
	if err != nil {
		return nil, err
	}
	if session.Expired(now) {
		return nil, ErrExpired
	}
	return session, nil
}

// Save writes session with mode 0600, creating the parent directory
// with mode 0700.
func (s *Store) Save(session *Session) error {
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", s.path, err)
	}
	return nil
}
