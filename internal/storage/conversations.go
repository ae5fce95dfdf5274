// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat transcripts as JSON files under the hi
// config directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/morganforge/hi/internal/model"
	"github.com/morganforge/hi/internal/util"
)

// ErrConversationNotFound is returned when no transcript matches an ID.
var ErrConversationNotFound = errors.New("conversation not found")

// =============================================================================
// STORED TYPES
// =============================================================================

// StoredConversation is one persisted transcript.
type StoredConversation struct {
	ID        string          `json:"id"`
	Summary   string          `json:"summary"`
	Model     string          `json:"model"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Messages  []model.Message `json:"messages"`
}

// ConversationMeta is the listing view of a stored transcript.
type ConversationMeta struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	Model        string    `json:"model"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// FromConversation builds a StoredConversation from a live transcript.
func FromConversation(conv *model.Conversation) *StoredConversation {
	return &StoredConversation{
		Model:     conv.Model,
		CreatedAt: conv.StartedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  conv.Messages,
	}
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore reads and writes transcripts in BaseDir.
type ConversationStore struct {
	BaseDir string

	// MaxConversations caps stored transcripts; oldest are pruned. Zero
	// means unlimited.
	MaxConversations int
}

// NewConversationStore creates a store under dir with the given cap.
func NewConversationStore(dir string, maxConversations int) (*ConversationStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create conversations directory: %w", err)
	}
	return &ConversationStore{BaseDir: dir, MaxConversations: maxConversations}, nil
}

// Save persists a transcript atomically and returns its ID.
func (s *ConversationStore) Save(conv *StoredConversation) (string, error) {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.Summary == "" {
		conv.Summary = summarize(conv.Messages)
	}
	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return "", err
	}
	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0o644); err != nil {
		return "", err
	}

	if s.MaxConversations > 0 {
		s.enforceLimit()
	}
	return conv.ID, nil
}

// summarize derives a listing summary from the first user message.
func summarize(messages []model.Message) string {
	for _, m := range messages {
		if m.Role == model.RoleUser && m.Content != "" {
			line := strings.ReplaceAll(m.Content, "\n", " ")
			line = strings.ReplaceAll(line, "\r", "")
			return util.TruncateRunes(line, 50)
		}
	}
	return "New conversation"
}

// enforceLimit prunes the oldest transcripts over the cap.
func (s *ConversationStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxConversations {
		return
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})
	for _, m := range metas[:len(metas)-s.MaxConversations] {
		s.Delete(m.ID)
	}
}

// Load retrieves a transcript by ID.
func (s *ConversationStore) Load(id string) (*StoredConversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	var conv StoredConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("parse conversation %s: %w", id, err)
	}
	return &conv, nil
}

// List returns metadata for all stored transcripts, most recent first.
// Corrupted files are skipped.
func (s *ConversationStore) List() ([]ConversationMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ConversationMeta{}, nil
		}
		return nil, err
	}

	var metas []ConversationMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		conv, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		metas = append(metas, ConversationMeta{
			ID:           conv.ID,
			Summary:      conv.Summary,
			Model:        conv.Model,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Delete removes a stored transcript.
func (s *ConversationStore) Delete(id string) error {
	err := os.Remove(s.filePath(id))
	if os.IsNotExist(err) {
		return ErrConversationNotFound
	}
	return err
}

func (s *ConversationStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}
