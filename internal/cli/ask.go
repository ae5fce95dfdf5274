// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single-use turn handler for the hi CLI.
//
// Handles "hi <question> [model] [system-prompt]": exactly one round trip,
// then exit. Piped stdin is appended to the question beneath a delimiter
// fence so shell pipelines can feed context in.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/morganforge/hi/internal/model"
)

// stdinFence separates the positional question from piped stdin content.
const stdinFence = "---"

// readPipedStdin returns trimmed stdin content when stdin is a pipe.
func readPipedStdin() string {
	if !StdinIsPiped() {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// HandleAsk runs one question/answer round and returns.
func HandleAsk(app *App, args *Args) error {
	question := strings.TrimSpace(args.Question)
	if piped := readPipedStdin(); piped != "" {
		if question == "" {
			question = piped
		} else {
			question = question + "\n" + stdinFence + "\n" + piped
		}
	}
	if question == "" {
		return &UsageError{Message: `no question given; usage: hi "your question" [model] [system-prompt]`}
	}

	modelID := app.Resolver().Resolve(args.ModelToken)

	systemPrompt := args.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = app.Config.SystemPrompt
	}

	conv := model.NewConversation(modelID, systemPrompt)
	conv.AddUserMessage(question)

	start := time.Now()
	res, err := app.DispatchTurn(context.Background(), conv, args.Options)
	if err != nil {
		return err
	}

	if res.Streamed {
		// Fragments are already on screen; close the line.
		fmt.Println()
	} else {
		DisplayAnswer(modelID, res.Content, args.Quiet)
	}

	if !args.Quiet {
		DisplaySearchResults(res.SearchResults)
		DisplayCitations(res.Citations)
		DisplayRelatedQuestions(res.RelatedQuestions)
	}

	app.RecordUsage(modelID, res, time.Since(start))
	return nil
}
