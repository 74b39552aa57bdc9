// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// historyPrefix names each user's transcript file.
const historyPrefix = "chatbot_messages_user_"

// HistoryStore keeps one transcript file per user in a directory.
// Writes are last-write-wins with no locking.
type HistoryStore struct {
	directory string
}

// NewHistoryStore returns a store rooted at directory. The directory
// is created on first save.
func NewHistoryStore(directory string) *HistoryStore {
	return &HistoryStore{directory: directory}
}

// Path returns the transcript file for userID.
func (s *HistoryStore) Path(userID int64) string {
	return filepath.Join(s.directory, historyPrefix+strconv.FormatInt(userID, 10)+".json")
}

// Load returns the saved transcript for userID. A missing, unreadable,
// or malformed file yields an empty transcript.
func (s *HistoryStore) Load(userID int64) []Message {
	data, err := os.ReadFile(s.Path(userID))
	if err != nil {
		return nil
	}
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil
	}
	return messages
}

// Save replaces the saved transcript for userID.
func (s *HistoryStore) Save(userID int64, messages []Message) error {
	if err := os.MkdirAll(s.directory, 0700); err != nil {
		return fmt.Errorf("creating chat history directory %s: %w", s.directory, err)
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshaling chat history: %w", err)
	}
	path := s.Path(userID)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing chat history %s: %w", path, err)
	}
	return nil
}

// Clear removes the saved transcript for userID.
func (s *HistoryStore) Clear(userID int64) error {
	err := os.Remove(s.Path(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing chat history: %w", err)
	}
	return nil
}
