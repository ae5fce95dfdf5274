// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists the hi configuration.
//
// Configuration precedence, highest first:
//   - environment variables (PERPLEXITY_API_KEY, HI_MODEL, HI_SYSTEM_PROMPT)
//   - ~/.hi/config.toml
//   - built-in defaults
//
// The configuration is loaded once at startup and passed explicitly; there
// is no mutable global.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/hi/internal/model"
	"github.com/morganforge/hi/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the complete hi configuration.
type Config struct {
	// APIKey is the Perplexity API key. Never printed.
	APIKey string `toml:"api_key"`

	// DefaultModel is the model used when none is given on the command line.
	DefaultModel string `toml:"default_model"`

	// SystemPrompt seeds every new conversation when non-empty.
	SystemPrompt string `toml:"system_prompt"`

	// RequestTimeoutSecs bounds a single buffered request.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`

	// SaveTranscripts controls whether chat sessions are written to disk.
	SaveTranscripts bool `toml:"save_transcripts"`

	// MaxConversations caps the number of stored transcripts.
	MaxConversations int `toml:"max_conversations"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultModel:       model.DefaultModel(),
		RequestTimeoutSecs: 120,
		SaveTranscripts:    true,
		MaxConversations:   100,
	}
}

// RequestTimeout returns the buffered request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the hi configuration directory, ~/.hi.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".hi"), nil
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the config directory if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the configuration: defaults, then the config file when present,
// then environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load with an explicit file path. Used by tests.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" {
		c.APIKey = key
	}
	if m := os.Getenv("HI_MODEL"); m != "" {
		c.DefaultModel = m
	}
	if p := os.Getenv("HI_SYSTEM_PROMPT"); p != "" {
		c.SystemPrompt = p
	}
}

// fillDefaults repairs zero values a sparse config file may leave behind.
func (c *Config) fillDefaults() {
	d := Default()
	if c.DefaultModel == "" {
		c.DefaultModel = d.DefaultModel
	}
	if c.RequestTimeoutSecs <= 0 {
		c.RequestTimeoutSecs = d.RequestTimeoutSecs
	}
	if c.MaxConversations <= 0 {
		c.MaxConversations = d.MaxConversations
	}
}

// Validate checks the configuration for values no request could use.
func (c *Config) Validate() error {
	if c.RequestTimeoutSecs < 1 || c.RequestTimeoutSecs > 3600 {
		return fmt.Errorf("request_timeout_secs %d out of range [1, 3600]", c.RequestTimeoutSecs)
	}
	return nil
}

// Save writes the configuration atomically to the default path with owner-only
// permissions, since it may contain the API key.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath is Save with an explicit file path. Used by tests.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return util.AtomicWriteFileWithDir(path, buf.Bytes(), 0o600)
}
