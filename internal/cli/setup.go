// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run API key wizard for the hi CLI.
//
// Runs when the user invokes "hi setup", or automatically when no API key is
// configured and stdin is a terminal. The key is read without echo, checked
// against the API with a one-token probe, then written to the config file.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/morganforge/hi/internal/config"
	"github.com/morganforge/hi/internal/model"
	"github.com/morganforge/hi/internal/perplexity"
)

// validateTimeout bounds the setup probe request.
const validateTimeout = 30 * time.Second

// promptSecure reads a line from the terminal without echoing it.
func promptSecure(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// HandleSetup walks the user through configuring an API key.
func HandleSetup(app *App) error {
	if !IsTTY() {
		return &ConfigError{Reason: "setup requires a terminal; set PERPLEXITY_API_KEY instead"}
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("hi setup"))
	fmt.Println(RenderSeparator(30))
	fmt.Println("Get an API key at https://www.perplexity.ai/settings/api")
	fmt.Println()

	key, err := promptSecure("Perplexity API key: ")
	if err != nil {
		return err
	}
	if key == "" {
		return &ConfigError{Reason: "no API key entered"}
	}

	fmt.Println(DimStyle.Render("Checking key..."))
	client := perplexity.NewClient(key)
	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()
	if err := client.ValidateKey(ctx, model.DefaultModel()); err != nil {
		return fmt.Errorf("key validation failed: %w", err)
	}
	fmt.Println(SuccessStyle.Render("Key is valid."))

	app.Config.APIKey = key
	if err := config.Save(app.Config); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	app.Client = perplexity.NewClient(key).WithTimeout(app.Config.RequestTimeout())

	path, _ := config.ConfigPath()
	fmt.Printf("%s %s\n", SuccessStyle.Render("Saved to"), path)

	if PromptYesNo("Also export PERPLEXITY_API_KEY in your shell profile?") {
		if err := appendShellExport(key); err != nil {
			PrintWarning("could not update shell profile: %v", err)
		}
	}
	fmt.Println()
	return nil
}

// appendShellExport appends an export line to the user's shell rc file.
func appendShellExport(key string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	rc := home + "/.bashrc"
	if shell := os.Getenv("SHELL"); strings.HasSuffix(shell, "zsh") {
		rc = home + "/.zshrc"
	}
	f, err := os.OpenFile(rc, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "\nexport PERPLEXITY_API_KEY=%q\n", key); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", SuccessStyle.Render("Updated"), rc)
	return nil
}

// EnsureConfigured checks that an API key is available, running setup when
// possible. Non-interactive invocations get an actionable error instead.
func EnsureConfigured(app *App) error {
	if app.Client.IsConfigured() {
		return nil
	}
	if !IsTTY() {
		return &ConfigError{Reason: "no API key configured; set PERPLEXITY_API_KEY or run: hi setup"}
	}
	fmt.Println(WarningStyle.Render("No API key configured."))
	return HandleSetup(app)
}
