// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records per-turn API usage in a local SQLite database.
// Recording is best effort; a logging failure never fails a turn.
package telemetry

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Mode labels how a turn was transported.
type Mode string

const (
	ModeBuffered  Mode = "buffered"
	ModeStreaming Mode = "streaming"
)

// Record is one completed turn.
type Record struct {
	Timestamp        time.Time
	Model            string
	Mode             Mode
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// Totals aggregates the usage log.
type Totals struct {
	Turns            int
	PromptTokens     int
	CompletionTokens int
	ByModel          map[string]int
}

// UsageLog is a SQLite-backed append-only usage store.
type UsageLog struct {
	db *sql.DB
}

// OpenUsageLog opens or creates the usage database at path.
func OpenUsageLog(path string) (*UsageLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}

	// Single writer, short transactions. WAL keeps readers unblocked.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure usage db: %w", err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts INTEGER NOT NULL,
		model TEXT NOT NULL,
		mode TEXT NOT NULL,
		prompt_tokens INTEGER NOT NULL,
		completion_tokens INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create usage table: %w", err)
	}

	return &UsageLog{db: db}, nil
}

// Close releases the database handle.
func (l *UsageLog) Close() error {
	return l.db.Close()
}

// Add appends one turn record.
func (l *UsageLog) Add(r Record) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	_, err := l.db.Exec(
		"INSERT INTO usage (ts, model, mode, prompt_tokens, completion_tokens, duration_ms) VALUES (?, ?, ?, ?, ?, ?)",
		r.Timestamp.Unix(), r.Model, string(r.Mode), r.PromptTokens, r.CompletionTokens, r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Totals aggregates all recorded turns.
func (l *UsageLog) Totals() (*Totals, error) {
	t := &Totals{ByModel: make(map[string]int)}

	row := l.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(completion_tokens), 0) FROM usage")
	if err := row.Scan(&t.Turns, &t.PromptTokens, &t.CompletionTokens); err != nil {
		return nil, fmt.Errorf("query usage totals: %w", err)
	}

	rows, err := l.db.Query("SELECT model, COUNT(*) FROM usage GROUP BY model")
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m string
		var n int
		if err := rows.Scan(&m, &n); err != nil {
			return nil, err
		}
		t.ByModel[m] = n
	}
	return t, rows.Err()
}
