// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelInfo describes one entry in the fixed model catalog.
type ModelInfo struct {
	ID          string
	Description string
}

// Catalog is the fixed list of supported models. Index 0 is the default.
var Catalog = []ModelInfo{
	{ID: "sonar", Description: "Fast general-purpose search model"},
	{ID: "sonar-pro", Description: "Larger context, better for long answers"},
	{ID: "sonar-reasoning", Description: "Chain-of-thought reasoning"},
	{ID: "sonar-reasoning-pro", Description: "Stronger reasoning, larger context"},
	{ID: "sonar-deep-research", Description: "Multi-step research, slow and thorough"},
}

// DefaultModel returns the catalog default.
func DefaultModel() string {
	return Catalog[0].ID
}

// aliases maps lowercase shorthand tokens to catalog indices. Index digits
// ("0".."4") are handled in Resolve without table entries.
var aliases = map[string]int{
	"s": 0, "so": 0, "small": 0,
	"l": 1, "lo": 1, "long": 1, "pro": 1,
	"r": 2, "re": 2, "reson": 2, "reasoning": 2,
	"rp": 3, "r-pro": 3, "rpro": 3, "reasoning-pro": 3,
	"d": 4, "deep": 4,
}

// helpTriggers are tokens that request the interactive catalog listing
// instead of naming a model.
var helpTriggers = map[string]bool{
	"?": true, "help": true, "h": true, "models": true,
}

// PromptFunc asks the user for a replacement model token after the catalog
// has been shown. It returns the entered token, or an error when no more
// input is available.
type PromptFunc func() (string, error)

// WarnFunc reports a non-fatal resolution warning to the user.
type WarnFunc func(format string, args ...any)

// Resolver turns user-supplied model tokens into canonical catalog IDs. The
// zero value resolves silently and without interactive disambiguation.
type Resolver struct {
	// Prompt is invoked when the token asks for help ("?", "help", "h",
	// "models"). Nil disables interactive disambiguation and falls back to
	// the default model.
	Prompt PromptFunc
	// Warn receives the message for unrecognized tokens. Nil discards it.
	Warn WarnFunc
	// ShowCatalog prints the catalog before each disambiguation prompt.
	// Nil disables the listing.
	ShowCatalog func()
	// Default is the configured fallback token, used when no model is given
	// on the command line. Empty or unrecognized values fall back to the
	// catalog default.
	Default string
}

// maxPromptAttempts bounds the interactive disambiguation loop.
const maxPromptAttempts = 3

// Resolve maps token to a canonical model ID. It never fails: empty input
// and unrecognized tokens fall back to the default, and help triggers enter
// a bounded prompt loop.
func (r *Resolver) Resolve(token string) string {
	for attempt := 0; ; attempt++ {
		id, needPrompt := r.resolveOnce(token)
		if !needPrompt {
			return id
		}
		if r.Prompt == nil || attempt >= maxPromptAttempts-1 {
			return r.fallback()
		}
		if r.ShowCatalog != nil {
			r.ShowCatalog()
		}
		next, err := r.Prompt()
		if err != nil {
			return r.fallback()
		}
		token = next
	}
}

// lookupToken maps canonical names, aliases, and single-digit indices to a
// catalog ID.
func lookupToken(token string) (string, bool) {
	lower := strings.ToLower(token)
	for _, m := range Catalog {
		if lower == m.ID {
			return m.ID, true
		}
	}
	if idx, ok := aliases[lower]; ok {
		return Catalog[idx].ID, true
	}
	if len(lower) == 1 && lower[0] >= '0' && lower[0] <= '9' {
		if idx := int(lower[0] - '0'); idx < len(Catalog) {
			return Catalog[idx].ID, true
		}
	}
	return "", false
}

// fallback resolves the configured default token, degrading to the catalog
// default when it names no catalog entry.
func (r *Resolver) fallback() string {
	if r.Default == "" {
		return DefaultModel()
	}
	if id, ok := lookupToken(strings.TrimSpace(r.Default)); ok {
		return id
	}
	if r.Warn != nil {
		r.Warn("configured default model %q unknown, using %s", r.Default, DefaultModel())
	}
	return DefaultModel()
}

// resolveOnce performs a single non-interactive resolution step. The second
// return value is true when the token asks for the catalog listing.
func (r *Resolver) resolveOnce(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return r.fallback(), false
	}

	if id, ok := lookupToken(token); ok {
		return id, false
	}
	if helpTriggers[strings.ToLower(token)] {
		return "", true
	}

	if r.Warn != nil {
		r.Warn("unknown model %q, using %s", token, r.fallback())
	}
	return r.fallback(), false
}

// CatalogListing renders the catalog as numbered lines for display.
func CatalogListing() string {
	var b strings.Builder
	for i, m := range Catalog {
		fmt.Fprintf(&b, "  %d  %-22s %s\n", i, m.ID, m.Description)
	}
	return b.String()
}
