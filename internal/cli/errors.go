// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit code mapping for the hi CLI.
//
// Handlers return errors; only main decides the process exit code. This
// keeps every failure path testable and gives scripts stable codes per
// failure category.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/morganforge/hi/internal/perplexity"
)

const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitGeneralError indicates an uncategorized error.
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments.
	ExitUsageError = 2
	// ExitConfigError indicates a configuration problem (e.g. no API key).
	ExitConfigError = 3
	// ExitAuthError indicates the API rejected the key.
	ExitAuthError = 4
	// ExitNetworkError indicates a transport-level failure.
	ExitNetworkError = 5
)

// ConfigError is an unrecoverable configuration problem.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Reason }

// ExitCodeFor maps an error to its process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var configErr *ConfigError
	var ttyErr *TTYRequiredError
	if errors.As(err, &configErr) || errors.As(err, &ttyErr) || errors.Is(err, perplexity.ErrNotConfigured) {
		return ExitConfigError
	}

	if errors.Is(err, perplexity.ErrAuthFailed) {
		return ExitAuthError
	}

	var netErr *perplexity.NetworkError
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return ExitNetworkError
	}

	return ExitGeneralError
}

// PrintError writes a styled error diagnostic to stderr.
func PrintError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[error]"), err)
}

// PrintWarning writes a styled warning to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle.Render("[warn]"), fmt.Sprintf(format, args...))
}
