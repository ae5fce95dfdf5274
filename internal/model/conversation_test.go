// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

func TestNewConversationSeedsSystemPrompt(t *testing.T) {
	c := NewConversation("sonar", "be brief")
	if len(c.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(c.Messages))
	}
	if c.Messages[0].Role != RoleSystem || c.Messages[0].Content != "be brief" {
		t.Errorf("seed message = %+v", c.Messages[0])
	}
}

func TestNewConversationWithoutSystemPrompt(t *testing.T) {
	c := NewConversation("sonar", "")
	if len(c.Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(c.Messages))
	}
}

func TestConversationRoundTrip(t *testing.T) {
	c := NewConversation("sonar", "sys")
	idx := c.AddUserMessage("hello")
	c.AddAssistantMessage("hi there")

	if got := c.TurnCount(); got != 1 {
		t.Errorf("TurnCount() = %d, want 1", got)
	}
	if got := c.FirstUserMessage(); got != "hello" {
		t.Errorf("FirstUserMessage() = %q, want %q", got, "hello")
	}
	if idx != 1 {
		t.Errorf("user message index = %d, want 1", idx)
	}
}

func TestTruncateAtRollsBackFailedTurn(t *testing.T) {
	c := NewConversation("sonar", "")
	c.AddUserMessage("first")
	c.AddAssistantMessage("reply")
	idx := c.AddUserMessage("second")

	c.TruncateAt(idx)

	if len(c.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(c.Messages))
	}
	if c.Messages[1].Role != RoleAssistant {
		t.Errorf("last message role = %s, want assistant", c.Messages[1].Role)
	}
}

func TestResetReseedsSystemMessage(t *testing.T) {
	c := NewConversation("sonar", "sys")
	c.AddUserMessage("q")
	c.AddAssistantMessage("a")

	c.Reset()

	if len(c.Messages) != 1 {
		t.Fatalf("messages after reset = %d, want 1", len(c.Messages))
	}
	if c.Messages[0].Role != RoleSystem {
		t.Errorf("role = %s, want system", c.Messages[0].Role)
	}
}

func TestResetWithoutSystemPrompt(t *testing.T) {
	c := NewConversation("sonar", "")
	c.AddUserMessage("q")
	c.Reset()
	if len(c.Messages) != 0 {
		t.Errorf("messages after reset = %d, want 0", len(c.Messages))
	}
}

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleSystem, "System"},
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{Role("other"), "other"},
	}
	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
