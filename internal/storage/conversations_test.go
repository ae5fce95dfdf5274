// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/morganforge/hi/internal/model"
)

func newTestStore(t *testing.T, max int) *ConversationStore {
	t.Helper()
	store, err := NewConversationStore(filepath.Join(t.TempDir(), "conversations"), max)
	if err != nil {
		t.Fatalf("NewConversationStore() error = %v", err)
	}
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t, 0)

	conv := model.NewConversation("sonar", "sys")
	conv.AddUserMessage("what is a goroutine?")
	conv.AddAssistantMessage("a lightweight thread")

	id, err := store.Save(FromConversation(conv))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == "" {
		t.Fatal("Save() returned empty ID")
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Model != "sonar" {
		t.Errorf("model = %q", loaded.Model)
	}
	if len(loaded.Messages) != 3 {
		t.Errorf("messages = %d, want 3", len(loaded.Messages))
	}
	if loaded.Summary != "what is a goroutine?" {
		t.Errorf("summary = %q", loaded.Summary)
	}
}

func TestSummaryTruncation(t *testing.T) {
	store := newTestStore(t, 0)

	conv := model.NewConversation("sonar", "")
	conv.AddUserMessage(strings.Repeat("long question ", 10))

	id, err := store.Save(FromConversation(conv))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, _ := store.Load(id)
	if len([]rune(loaded.Summary)) > 50 {
		t.Errorf("summary too long: %q", loaded.Summary)
	}
	if !strings.HasSuffix(loaded.Summary, "...") {
		t.Errorf("truncated summary should end with ellipsis: %q", loaded.Summary)
	}
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t, 0)
	if _, err := store.Load("nope"); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("error = %v, want ErrConversationNotFound", err)
	}
}

func TestListOrdering(t *testing.T) {
	store := newTestStore(t, 0)

	for _, q := range []string{"first", "second", "third"} {
		conv := model.NewConversation("sonar", "")
		conv.AddUserMessage(q)
		if _, err := store.Save(FromConversation(conv)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("list = %d entries, want 3", len(metas))
	}
	if metas[0].Summary != "third" {
		t.Errorf("most recent first: got %q", metas[0].Summary)
	}
}

func TestListSkipsCorruptedFiles(t *testing.T) {
	store := newTestStore(t, 0)

	conv := model.NewConversation("sonar", "")
	conv.AddUserMessage("good")
	if _, err := store.Save(FromConversation(conv)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.BaseDir, "bad.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("list = %d entries, want 1", len(metas))
	}
}

func TestEnforceLimit(t *testing.T) {
	store := newTestStore(t, 2)

	for _, q := range []string{"one", "two", "three"} {
		conv := model.NewConversation("sonar", "")
		conv.AddUserMessage(q)
		if _, err := store.Save(FromConversation(conv)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("list = %d entries, want 2 after pruning", len(metas))
	}
	for _, m := range metas {
		if m.Summary == "one" {
			t.Error("oldest transcript should have been pruned")
		}
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, 0)

	conv := model.NewConversation("sonar", "")
	conv.AddUserMessage("bye")
	id, _ := store.Save(FromConversation(conv))

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("Load() after delete = %v, want ErrConversationNotFound", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("double Delete() = %v, want ErrConversationNotFound", err)
	}
}
