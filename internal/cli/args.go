// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing for the hi CLI.

package cli

import (
	"fmt"
	"strings"

	"github.com/morganforge/hi/internal/perplexity"
)

// UsageError is an invalid invocation: conflicting flags, bad flag values.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser separates flags from positional arguments. Supported formats:
//
//	--flag value     Long flag with space-separated value
//	--flag=value     Long flag with equals sign
//	-f value         Short flag with space-separated value
//	--flag           Boolean flag (no value)
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// stringFlagNames are flags that always consume a value, so a bare
// occurrence followed by a positional is never misread as boolean.
var stringFlagNames = map[string]bool{
	"m": true, "model": true,
	"s": true, "system": true,
	"domains": true, "exclude-domains": true,
	"recency": true,
}

// boolFlagNames are flags that never consume a value.
var boolFlagNames = map[string]bool{
	"related": true,
	"q":       true, "quiet": true,
	"no-save": true,
}

// NewArgParser parses raw arguments.
func NewArgParser(raw []string) (*ArgParser, error) {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			i++
			continue
		}

		// --flag=value
		if strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			name := strings.TrimLeft(parts[0], "-")
			switch {
			case boolFlagNames[name]:
				p.boolFlags[name] = parts[1] == "true"
			case stringFlagNames[name]:
				p.flags[name] = parts[1]
			default:
				return nil, &UsageError{Message: fmt.Sprintf("unknown flag: %s", parts[0])}
			}
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		switch {
		case boolFlagNames[name]:
			p.boolFlags[name] = true
			i++
		case stringFlagNames[name]:
			if i+1 >= len(raw) {
				return nil, &UsageError{Message: fmt.Sprintf("flag --%s requires a value", name)}
			}
			p.flags[name] = raw[i+1]
			i += 2
		default:
			return nil, &UsageError{Message: fmt.Sprintf("unknown flag: %s", arg)}
		}
	}
	return p, nil
}

// Flag returns the value of a string flag, or "".
func (p *ArgParser) Flag(names ...string) string {
	for _, n := range names {
		if v, ok := p.flags[strings.TrimLeft(n, "-")]; ok {
			return v
		}
	}
	return ""
}

// BoolFlag returns the value of a boolean flag.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, n := range names {
		if v, ok := p.boolFlags[strings.TrimLeft(n, "-")]; ok && v {
			return true
		}
	}
	return false
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// =============================================================================
// TURN ARGUMENTS
// =============================================================================

// Args carries everything a turn handler needs from the command line.
// Positional order is question (or the chat subcommand), model token,
// system prompt; flags may override the positional model and system prompt.
type Args struct {
	Question     string
	ModelToken   string
	SystemPrompt string
	Options      perplexity.RequestOptions
	Quiet        bool
	NoSave       bool
}

// splitCSV splits a comma-separated flag value, dropping empty entries.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseTurnArgs parses the arguments of a single-use or chat invocation.
// firstPositional is the index of the question (1 for "hi chat ...", 0 for
// "hi ..." where the question itself is positional 0).
func ParseTurnArgs(raw []string, firstPositional int) (*Args, error) {
	p, err := NewArgParser(raw)
	if err != nil {
		return nil, err
	}

	args := &Args{
		Question:     p.Positional(firstPositional),
		ModelToken:   p.Positional(firstPositional + 1),
		SystemPrompt: p.Positional(firstPositional + 2),
		Quiet:        p.BoolFlag("q", "quiet"),
		NoSave:       p.BoolFlag("no-save"),
	}

	if m := p.Flag("m", "model"); m != "" {
		args.ModelToken = m
	}
	if s := p.Flag("s", "system"); s != "" {
		args.SystemPrompt = s
	}

	domains := splitCSV(p.Flag("domains"))
	exclude := splitCSV(p.Flag("exclude-domains"))
	if len(domains) > 0 && len(exclude) > 0 {
		return nil, &UsageError{Message: "--domains and --exclude-domains are mutually exclusive"}
	}
	args.Options.Domains = domains
	args.Options.ExcludeDomains = exclude

	if r := p.Flag("recency"); r != "" {
		if !perplexity.ValidRecency(r) {
			return nil, &UsageError{Message: fmt.Sprintf("invalid --recency %q (want hour, day, week, or month)", r)}
		}
		args.Options.Recency = r
	}
	args.Options.RelatedQuestions = p.BoolFlag("related")

	return args, nil
}

// ParseChatArgs parses the arguments of "hi chat [model] [system-prompt]".
// Positional 0 is the subcommand itself, so the model and system prompt land
// in the same slots ParseTurnArgs expects; there is no question.
func ParseChatArgs(raw []string) (*Args, error) {
	args, err := ParseTurnArgs(raw, 0)
	if err != nil {
		return nil, err
	}
	args.Question = ""
	return args, nil
}
