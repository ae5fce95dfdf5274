// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an append-only message transcript plus metadata. The
// full transcript is sent with every request; there is no windowing.
type Conversation struct {
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewConversation creates a conversation for the given model. When
// systemPrompt is non-empty the transcript is seeded with a single system
// message.
func NewConversation(model, systemPrompt string) *Conversation {
	c := &Conversation{
		Model:        model,
		SystemPrompt: systemPrompt,
		StartedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	c.seedSystem()
	return c
}

func (c *Conversation) seedSystem() {
	if c.SystemPrompt != "" {
		c.Messages = append(c.Messages, NewSystemMessage(c.SystemPrompt))
	}
}

// AddUserMessage appends a user message and returns its index, so a failed
// turn can roll it back with TruncateAt.
func (c *Conversation) AddUserMessage(content string) int {
	c.Messages = append(c.Messages, NewUserMessage(content))
	c.UpdatedAt = time.Now()
	return len(c.Messages) - 1
}

// AddAssistantMessage appends an assistant reply.
func (c *Conversation) AddAssistantMessage(content string) {
	c.Messages = append(c.Messages, NewAssistantMessage(content))
	c.UpdatedAt = time.Now()
}

// TruncateAt drops the message at index i and everything after it.
func (c *Conversation) TruncateAt(i int) {
	if i >= 0 && i < len(c.Messages) {
		c.Messages = c.Messages[:i]
	}
}

// Reset clears the transcript and re-seeds the system message if one is
// configured.
func (c *Conversation) Reset() {
	c.Messages = c.Messages[:0]
	c.seedSystem()
	c.UpdatedAt = time.Now()
}

// TurnCount returns the number of user messages in the transcript.
func (c *Conversation) TurnCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// FirstUserMessage returns the content of the earliest user message, or ""
// when none exists. Used for transcript summaries.
func (c *Conversation) FirstUserMessage() string {
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}
