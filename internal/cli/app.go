// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared wiring for the hi command handlers.

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/morganforge/hi/internal/config"
	"github.com/morganforge/hi/internal/model"
	"github.com/morganforge/hi/internal/perplexity"
	"github.com/morganforge/hi/internal/storage"
	"github.com/morganforge/hi/internal/telemetry"
)

// App bundles the dependencies shared by all command handlers. Store and
// usage log are opened lazily and are optional: persistence failures never
// block a turn.
type App struct {
	Config *config.Config
	Client *perplexity.Client

	store *storage.ConversationStore
	usage *telemetry.UsageLog
}

// NewApp wires an App from loaded configuration.
func NewApp(cfg *config.Config) *App {
	client := perplexity.NewClient(cfg.APIKey).WithTimeout(cfg.RequestTimeout())
	return &App{Config: cfg, Client: client}
}

// Store returns the transcript store, opening it on first use. Returns nil
// when the store cannot be opened.
func (a *App) Store() *storage.ConversationStore {
	if a.store == nil {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil
		}
		store, err := storage.NewConversationStore(filepath.Join(dir, "conversations"), a.Config.MaxConversations)
		if err != nil {
			return nil
		}
		a.store = store
	}
	return a.store
}

// UsageLog returns the usage log, opening it on first use. Returns nil when
// the log cannot be opened.
func (a *App) UsageLog() *telemetry.UsageLog {
	if a.usage == nil {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil
		}
		log, err := telemetry.OpenUsageLog(filepath.Join(dir, "usage.db"))
		if err != nil {
			return nil
		}
		a.usage = log
	}
	return a.usage
}

// Close releases lazily opened resources.
func (a *App) Close() {
	if a.usage != nil {
		a.usage.Close()
		a.usage = nil
	}
}

// Resolver builds a model resolver. Interactive disambiguation is enabled
// only when stdin is a terminal.
func (a *App) Resolver() *model.Resolver {
	r := &model.Resolver{
		Warn:    PrintWarning,
		Default: a.Config.DefaultModel,
		ShowCatalog: func() {
			fmt.Print(model.CatalogListing())
		},
	}
	if IsTTY() {
		r.Prompt = func() (string, error) {
			return PromptInput("model> ")
		}
	}
	return r
}

// TurnResult is the outcome of one dispatched turn.
type TurnResult struct {
	Content          string
	Citations        []string
	SearchResults    []perplexity.SearchResult
	RelatedQuestions []string
	Usage            perplexity.Usage
	Streamed         bool
}

// DispatchTurn sends the conversation to the API. Streaming is used when
// stdout is a terminal, one buffered request otherwise; the caller never
// chooses. Streamed fragments are echoed to stdout as they arrive.
func (a *App) DispatchTurn(ctx context.Context, conv *model.Conversation, opts perplexity.RequestOptions) (*TurnResult, error) {
	req := perplexity.BuildRequest(conv, opts)

	if IsStdoutTTY() {
		res, err := a.Client.ChatStream(ctx, req, os.Stdout)
		if err != nil {
			return nil, err
		}
		return &TurnResult{
			Content:       res.Content,
			Citations:     res.Citations,
			SearchResults: res.SearchResults,
			Usage:         res.Usage,
			Streamed:      true,
		}, nil
	}

	resp, err := a.Client.Chat(ctx, req)
	if err != nil {
		return nil, err
	}
	content, err := resp.Content()
	if err != nil {
		return nil, err
	}
	return &TurnResult{
		Content:          content,
		Citations:        resp.Citations,
		SearchResults:    resp.SearchResults,
		RelatedQuestions: resp.RelatedQuestions,
		Usage:            resp.Usage,
	}, nil
}

// RecordUsage logs a completed turn. Best effort.
func (a *App) RecordUsage(modelID string, res *TurnResult, elapsed time.Duration) {
	log := a.UsageLog()
	if log == nil {
		return
	}
	mode := telemetry.ModeBuffered
	if res.Streamed {
		mode = telemetry.ModeStreaming
	}
	rec := telemetry.Record{
		Model:            modelID,
		Mode:             mode,
		PromptTokens:     res.Usage.PromptTokens,
		CompletionTokens: res.Usage.CompletionTokens,
		Duration:         elapsed,
	}
	if err := log.Add(rec); err != nil {
		PrintWarning("could not record usage: %v", err)
	}
}
