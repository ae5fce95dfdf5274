// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - Informational subcommands for the hi CLI.

package cli

import (
	"fmt"

	"github.com/morganforge/hi/internal/model"
)

// HandleModels prints the model catalog with aliases.
func HandleModels() error {
	fmt.Print(model.CatalogListing())
	return nil
}

// HandleSessions lists saved transcripts, most recent first.
func HandleSessions(app *App) error {
	store := app.Store()
	if store == nil {
		return &ConfigError{Reason: "transcript store unavailable"}
	}
	metas, err := store.List()
	if err != nil {
		return fmt.Errorf("listing transcripts: %w", err)
	}
	if len(metas) == 0 {
		fmt.Println(DimStyle.Render("No saved conversations."))
		return nil
	}
	for _, m := range metas {
		fmt.Printf("%s  %s  %s  %s\n",
			DimStyle.Render(shortID(m.ID)),
			m.UpdatedAt.Format("2006-01-02 15:04"),
			CommandStyle.Render(m.Model),
			m.Summary)
	}
	return nil
}

// shortID returns the display prefix of a transcript ID. IDs are normally
// UUIDs, but the store tolerates foreign files with arbitrary id fields.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// HandleUsage prints aggregate token usage from the local log.
func HandleUsage(app *App) error {
	log := app.UsageLog()
	if log == nil {
		return &ConfigError{Reason: "usage log unavailable"}
	}
	totals, err := log.Totals()
	if err != nil {
		return fmt.Errorf("reading usage log: %w", err)
	}
	if totals.Turns == 0 {
		fmt.Println(DimStyle.Render("No usage recorded yet."))
		return nil
	}
	fmt.Println(TitleStyle.Render("Usage"))
	fmt.Printf("  Turns:             %d\n", totals.Turns)
	fmt.Printf("  Prompt tokens:     %d\n", totals.PromptTokens)
	fmt.Printf("  Completion tokens: %d\n", totals.CompletionTokens)
	if len(totals.ByModel) > 0 {
		fmt.Println(DimStyle.Render("  By model:"))
		for modelID, turns := range totals.ByModel {
			fmt.Printf("    %-24s %d\n", modelID, turns)
		}
	}
	return nil
}

// HandleHelp prints the top-level usage text.
func HandleHelp() error {
	fmt.Print(helpText)
	return nil
}

const helpText = `hi - ask Perplexity from the command line

Usage:
  hi "your question" [model] [system-prompt]   Ask one question and exit
  hi chat [model] [system-prompt]              Start an interactive chat
  hi models                                    List available models
  hi sessions                                  List saved conversations
  hi usage                                     Show token usage totals
  hi setup                                     Configure your API key
  hi update                                    Update a git checkout in place
  hi help                                      Show this help

Flags:
  -m, --model <name>            Model name, alias, or catalog index
  -s, --system <prompt>         System prompt for this invocation
  --domains <a,b>               Restrict search to these domains
  --exclude-domains <a,b>       Exclude these domains from search
  --recency <hour|day|week|month>  Restrict search by recency
  --related                     Request follow-up question suggestions
  -q, --quiet                   Answer only, no decorations
  --no-save                     Do not save the transcript

Piped stdin is appended to the question, so this works:
  git diff | hi "review this change"

Configuration lives in ~/.hi/config.toml. The API key can also be set via
the PERPLEXITY_API_KEY environment variable.
`
