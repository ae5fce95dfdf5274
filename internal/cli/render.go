// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render.go - Answer display for the hi CLI.
//
// Buffered answers are rendered as markdown on a TTY and printed raw
// otherwise, so piped output stays clean.

package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/hi/internal/perplexity"
)

// markdownRenderer is the shared glamour renderer. Nil means rendering is
// unavailable and answers fall back to plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, returning the
// original content when rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// DisplayAnswer prints a complete answer with a model-name prefix.
func DisplayAnswer(modelID, content string, quiet bool) {
	if !quiet {
		fmt.Println(TitleStyle.Render(modelID + ":"))
	}
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(content))
	} else {
		fmt.Print(content)
	}
	fmt.Println()
}

// DisplayCitations prints numbered citation URLs.
func DisplayCitations(citations []string) {
	if len(citations) == 0 {
		return
	}
	fmt.Println(DimStyle.Render("Citations:"))
	for i, c := range citations {
		fmt.Printf("  %s %s\n", DimStyle.Render(fmt.Sprintf("[%d]", i+1)), c)
	}
}

// DisplaySearchResults prints the sources consulted for an answer.
func DisplaySearchResults(results []perplexity.SearchResult) {
	if len(results) == 0 {
		return
	}
	fmt.Println(DimStyle.Render("Sources:"))
	for _, r := range results {
		if r.Title != "" {
			fmt.Printf("  %s %s\n", DimStyle.Render("-"), fmt.Sprintf("%s (%s)", r.Title, r.URL))
		} else {
			fmt.Printf("  %s %s\n", DimStyle.Render("-"), r.URL)
		}
	}
}

// DisplayRelatedQuestions prints follow-up question suggestions.
func DisplayRelatedQuestions(questions []string) {
	if len(questions) == 0 {
		return
	}
	fmt.Println(DimStyle.Render("Related:"))
	for _, q := range questions {
		fmt.Printf("  %s %s\n", DimStyle.Render("-"), q)
	}
}
