// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package perplexity

import (
	"github.com/morganforge/hi/internal/model"
)

// ChatMessage is one transcript entry on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat completions request body. Perplexity extends the
// common shape with search_* options.
type ChatRequest struct {
	Model                  string        `json:"model"`
	Messages               []ChatMessage `json:"messages"`
	Stream                 bool          `json:"stream,omitempty"`
	MaxTokens              int           `json:"max_tokens,omitempty"`
	SearchDomainFilter     []string      `json:"search_domain_filter,omitempty"`
	SearchRecencyFilter    string        `json:"search_recency_filter,omitempty"`
	ReturnRelatedQuestions bool          `json:"return_related_questions,omitempty"`
}

// SearchResult is one source consulted for an answer.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date,omitempty"`
}

// Usage is the token accounting block of a response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the buffered chat completions response body.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Citations        []string       `json:"citations,omitempty"`
	SearchResults    []SearchResult `json:"search_results,omitempty"`
	RelatedQuestions []string       `json:"related_questions,omitempty"`
	Usage            Usage          `json:"usage"`
}

// Content returns the first choice's message content. A missing choice or
// empty content is a shape error, never an empty answer.
func (r *ChatResponse) Content() (string, error) {
	if len(r.Choices) == 0 {
		return "", &ShapeError{Field: "choices"}
	}
	content := r.Choices[0].Message.Content
	if content == "" {
		return "", &ShapeError{Field: "choices[0].message.content"}
	}
	return content, nil
}

// RequestOptions carries the per-turn search options from the CLI flags.
// Domains and ExcludeDomains are mutually exclusive; the flag parser rejects
// both being set before a request is ever built.
type RequestOptions struct {
	Domains          []string
	ExcludeDomains   []string
	Recency          string
	RelatedQuestions bool
}

// ValidRecency reports whether s is an accepted recency window.
func ValidRecency(s string) bool {
	switch s {
	case "hour", "day", "week", "month":
		return true
	}
	return false
}

// BuildRequest assembles one immutable request from the conversation and
// options. The full transcript is sent as-is; exclusion domains are sent
// with a "-" prefix in the same filter field.
func BuildRequest(conv *model.Conversation, opts RequestOptions) *ChatRequest {
	messages := make([]ChatMessage, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	req := &ChatRequest{
		Model:                  conv.Model,
		Messages:               messages,
		SearchRecencyFilter:    opts.Recency,
		ReturnRelatedQuestions: opts.RelatedQuestions,
	}

	switch {
	case len(opts.Domains) > 0:
		req.SearchDomainFilter = append([]string(nil), opts.Domains...)
	case len(opts.ExcludeDomains) > 0:
		filter := make([]string, 0, len(opts.ExcludeDomains))
		for _, d := range opts.ExcludeDomains {
			filter = append(filter, "-"+d)
		}
		req.SearchDomainFilter = filter
	}

	return req
}
