// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTurnArgsPositionals(t *testing.T) {
	args, err := ParseTurnArgs([]string{"what is go", "pro", "be brief"}, 0)
	if err != nil {
		t.Fatalf("ParseTurnArgs: %v", err)
	}
	if args.Question != "what is go" {
		t.Errorf("Question = %q", args.Question)
	}
	if args.ModelToken != "pro" {
		t.Errorf("ModelToken = %q", args.ModelToken)
	}
	if args.SystemPrompt != "be brief" {
		t.Errorf("SystemPrompt = %q", args.SystemPrompt)
	}
}

func TestParseChatArgs(t *testing.T) {
	args, err := ParseChatArgs([]string{"chat", "pro", "be brief"})
	if err != nil {
		t.Fatalf("ParseChatArgs: %v", err)
	}
	if args.Question != "" {
		t.Errorf("Question = %q, want empty", args.Question)
	}
	if args.ModelToken != "pro" {
		t.Errorf("ModelToken = %q, want pro", args.ModelToken)
	}
	if args.SystemPrompt != "be brief" {
		t.Errorf("SystemPrompt = %q, want %q", args.SystemPrompt, "be brief")
	}
}

func TestParseTurnArgsFlagsOverridePositionals(t *testing.T) {
	args, err := ParseTurnArgs([]string{"question", "sonar", "-m", "sonar-pro", "--system", "terse"}, 0)
	if err != nil {
		t.Fatalf("ParseTurnArgs: %v", err)
	}
	if args.ModelToken != "sonar-pro" {
		t.Errorf("ModelToken = %q, want sonar-pro", args.ModelToken)
	}
	if args.SystemPrompt != "terse" {
		t.Errorf("SystemPrompt = %q, want terse", args.SystemPrompt)
	}
}

func TestParseTurnArgsSearchOptions(t *testing.T) {
	args, err := ParseTurnArgs([]string{"q", "--domains", "go.dev, pkg.go.dev", "--recency", "week", "--related"}, 0)
	if err != nil {
		t.Fatalf("ParseTurnArgs: %v", err)
	}
	if len(args.Options.Domains) != 2 || args.Options.Domains[1] != "pkg.go.dev" {
		t.Errorf("Domains = %v", args.Options.Domains)
	}
	if args.Options.Recency != "week" {
		t.Errorf("Recency = %q", args.Options.Recency)
	}
	if !args.Options.RelatedQuestions {
		t.Error("RelatedQuestions = false, want true")
	}
}

func TestParseTurnArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want string
	}{
		{"mutually exclusive domains", []string{"q", "--domains", "a.com", "--exclude-domains", "b.com"}, "mutually exclusive"},
		{"bad recency", []string{"q", "--recency", "year"}, "recency"},
		{"unknown flag", []string{"q", "--frobnicate"}, "unknown flag"},
		{"unknown flag with equals", []string{"q", "--bogus=1"}, "unknown flag"},
		{"misspelled flag with equals", []string{"q", "--recncy=week"}, "unknown flag"},
		{"missing value", []string{"q", "--model"}, "requires a value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTurnArgs(tt.raw, 0)
			var usageErr *UsageError
			if !errors.As(err, &usageErr) {
				t.Fatalf("error = %v, want *UsageError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseTurnArgsEqualsAndBools(t *testing.T) {
	args, err := ParseTurnArgs([]string{"q", "--model=sonar-reasoning", "-q", "--no-save"}, 0)
	if err != nil {
		t.Fatalf("ParseTurnArgs: %v", err)
	}
	if args.ModelToken != "sonar-reasoning" {
		t.Errorf("ModelToken = %q", args.ModelToken)
	}
	if !args.Quiet || !args.NoSave {
		t.Errorf("Quiet = %v, NoSave = %v, want both true", args.Quiet, args.NoSave)
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a.com", 1},
		{"a.com,b.com", 2},
		{" a.com , ,b.com ", 2},
	}
	for _, tt := range tests {
		if got := splitCSV(tt.in); len(got) != tt.want {
			t.Errorf("splitCSV(%q) = %v, want %d entries", tt.in, got, tt.want)
		}
	}
}
