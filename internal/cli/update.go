// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Self-update via git for the hi CLI.
//
// "hi update" runs git pull in the directory containing the executable. This
// only works for checkouts run in place; installs outside a git work tree get
// a clear error instead of a confusing git failure.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// updateTimeout bounds the git pull so a dead remote cannot hang the command.
const updateTimeout = 60 * time.Second

// HandleUpdate pulls the latest version of the checkout the binary runs from.
func HandleUpdate() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	dir := filepath.Dir(exe)

	if _, err := exec.LookPath("git"); err != nil {
		return &ConfigError{Reason: "git not found; cannot self-update"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	check := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--is-inside-work-tree")
	if err := check.Run(); err != nil {
		return &ConfigError{Reason: fmt.Sprintf("%s is not a git checkout; update manually", dir)}
	}

	fmt.Println(InfoStyle.Render("Updating " + dir + "..."))
	pull := exec.CommandContext(ctx, "git", "-C", dir, "pull", "-q", "--ff-only")
	pull.Stdout = os.Stdout
	pull.Stderr = os.Stderr
	if err := pull.Run(); err != nil {
		return fmt.Errorf("git pull failed: %w", err)
	}
	fmt.Println(SuccessStyle.Render("Up to date."))
	return nil
}
