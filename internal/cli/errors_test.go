// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/morganforge/hi/internal/perplexity"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Message: "bad flag"}, ExitUsageError},
		{"config", &ConfigError{Reason: "no key"}, ExitConfigError},
		{"tty required", &TTYRequiredError{Operation: "chat"}, ExitConfigError},
		{"not configured", perplexity.ErrNotConfigured, ExitConfigError},
		{"auth", perplexity.ErrAuthFailed, ExitAuthError},
		{"wrapped auth", fmt.Errorf("turn failed: %w", perplexity.ErrAuthFailed), ExitAuthError},
		{"network", &perplexity.NetworkError{Err: errors.New("refused")}, ExitNetworkError},
		{"deadline", context.DeadlineExceeded, ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
