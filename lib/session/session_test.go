// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/segmento/resolve/lib/schema/ticket"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "ana@example.com",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolve", "session.json")
	store := NewStore(path)

	original := &Session{
		Token: "opaque-token",
		User:  ticket.User{ID: 4, Name: "Ana", Role: ticket.RoleRequester},
	}
	if err := store.Save(original); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %o, want 0600", info.Mode().Perm())
	}
	directoryInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if directoryInfo.Mode().Perm() != 0700 {
		t.Errorf("directory mode = %o, want 0700", directoryInfo.Mode().Perm())
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Token != "opaque-token" || loaded.User.Name != "Ana" {
		t.Errorf("loaded = %+v", loaded)
	}
	if !loaded.Can(ticket.ActionCreate) || loaded.Can(ticket.ActionAssign) {
		t.Error("requester should be able to create but not assign")
	}
}

func TestStore_AbsentAndMalformed(t *testing.T) {
	directory := t.TempDir()

	tests := []struct {
		name    string
		content string
		write   bool
	}{
		{name: "missing file"},
		{name: "malformed json", content: "{\"token\":", write: true},
		{name: "no token", content: `{"user":{"id":1}}`, write: true},
		{name: "no user id", content: `{"token":"x","user":{}}`, write: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(directory, test.name+".json")
			if test.write {
				if err := os.WriteFile(path, []byte(test.content), 0600); err != nil {
					t.Fatalf("write: %v", err)
				}
			}
			_, err := NewStore(path).Load()
			if !errors.Is(err, ErrNoSession) {
				t.Errorf("Load() error = %v, want ErrNoSession", err)
			}
		})
	}
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)

	if err := store.Clear(); err != nil {
		t.Errorf("Clear() on absent session: %v", err)
	}
	if err := store.Save(&Session{Token: "t", User: ticket.User{ID: 1}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load() after Clear() = %v, want ErrNoSession", err)
	}
}

func TestSession_Expiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	fresh := &Session{Token: signedToken(t, now.Add(time.Hour)), User: ticket.User{ID: 1}}
	if fresh.Expired(now) {
		t.Error("token expiring in an hour reported expired")
	}
	expiresAt, ok := fresh.ExpiresAt()
	if !ok || !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt() = %v, %v", expiresAt, ok)
	}

	stale := &Session{Token: signedToken(t, now.Add(-time.Minute)), User: ticket.User{ID: 1}}
	if !stale.Expired(now) {
		t.Error("token expired a minute ago reported fresh")
	}

	opaque := &Session{Token: "not-a-jwt", User: ticket.User{ID: 1}}
	if opaque.Expired(now) {
		t.Error("opaque tokens carry no expiry and are never expired")
	}
}

func TestStore_LoadActive(t *testing.T) {
	now := time.Now()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)

	if err := store.Save(&Session{Token: signedToken(t, now.Add(-time.Hour)), User: ticket.User{ID: 2}}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := store.LoadActive(now); !errors.Is(err, ErrExpired) {
		t.Errorf("LoadActive() error = %v, want ErrExpired", err)
	}
}
