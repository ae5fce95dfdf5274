// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat handler for the hi CLI.
//
// Handles "hi chat [model] [system-prompt]": a line-oriented REPL that keeps
// the full transcript and dispatches one turn at a time. In-band commands,
// matched case-insensitively before anything is sent:
//
//	exit, quit       End the session
//	new chat         Confirm, then clear the transcript (empty input too)
//	change model     Pick a different model from the catalog
//
// The transcript is saved on exit unless --no-save is given or saving is
// disabled in config.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/morganforge/hi/internal/config"
	"github.com/morganforge/hi/internal/model"
	"github.com/morganforge/hi/internal/storage"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatInput wraps liner with a persistent history file, giving the REPL
// arrow-key history and line editing.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates the input reader and loads prior history.
func NewChatInput() *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &ChatInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

// ReadLine reads one line, recording non-empty input in history.
func (c *ChatInput) ReadLine(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and restores the terminal.
func (c *ChatInput) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// IN-BAND COMMANDS
// =============================================================================

type chatCommand int

const (
	chatCmdNone chatCommand = iota
	chatCmdExit
	chatCmdNewChat
	chatCmdChangeModel
)

// parseChatCommand classifies in-band commands, matched case-insensitively.
// Empty input counts as a new-chat request.
func parseChatCommand(line string) chatCommand {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return chatCmdExit
	case "", "new chat":
		return chatCmdNewChat
	case "change model":
		return chatCmdChangeModel
	}
	return chatCmdNone
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive chat loop.
func HandleChat(app *App, args *Args) error {
	if !IsTTY() {
		return &TTYRequiredError{Operation: "chat"}
	}

	modelID := app.Resolver().Resolve(args.ModelToken)

	systemPrompt := args.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = app.Config.SystemPrompt
	}

	conv := model.NewConversation(modelID, systemPrompt)
	input := NewChatInput()
	defer input.Close()

	if !args.Quiet {
		printWelcome(conv.Model)
	}

loop:
	for {
		line, err := input.ReadLine(PromptStyle.Render("hi> "))
		if err != nil {
			// Ctrl+C or Ctrl+D ends the session.
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				PrintError(err)
			}
			fmt.Println()
			break
		}
		line = strings.TrimSpace(line)

		switch parseChatCommand(line) {
		case chatCmdExit:
			break loop

		case chatCmdNewChat:
			if PromptYesNo("Start a new chat? The current conversation will be lost.") {
				saveTranscript(app, conv, args)
				conv.Reset()
				fmt.Println(CommandStyle.Render("[new chat]"))
			}
			continue

		case chatCmdChangeModel:
			conv.Model = app.Resolver().Resolve("?")
			fmt.Printf("%s %s\n", CommandStyle.Render("[model]"), conv.Model)
			continue
		}

		if err := runChatTurn(app, conv, line, args); err != nil {
			PrintError(err)
		}
	}

	saveTranscript(app, conv, args)
	if !args.Quiet {
		fmt.Println(InfoStyle.Render("Goodbye!"))
	}
	return nil
}

// runChatTurn dispatches one user message. On failure the user message is
// rolled back so a retry does not duplicate it in the transcript.
func runChatTurn(app *App, conv *model.Conversation, question string, args *Args) error {
	idx := conv.AddUserMessage(question)

	start := time.Now()
	res, err := app.DispatchTurn(context.Background(), conv, args.Options)
	if err != nil {
		conv.TruncateAt(idx)
		return err
	}
	conv.AddAssistantMessage(res.Content)

	if res.Streamed {
		fmt.Println()
	} else {
		DisplayAnswer(conv.Model, res.Content, args.Quiet)
	}
	if !args.Quiet {
		DisplaySearchResults(res.SearchResults)
		DisplayCitations(res.Citations)
		DisplayRelatedQuestions(res.RelatedQuestions)
		fmt.Println()
	}

	app.RecordUsage(conv.Model, res, time.Since(start))
	return nil
}

// saveTranscript persists the conversation when it has at least one turn.
func saveTranscript(app *App, conv *model.Conversation, args *Args) {
	if args.NoSave || !app.Config.SaveTranscripts || conv.TurnCount() == 0 {
		return
	}
	store := app.Store()
	if store == nil {
		return
	}
	if _, err := store.Save(storage.FromConversation(conv)); err != nil {
		PrintWarning("could not save transcript: %v", err)
	}
}

// printWelcome prints the session banner.
func printWelcome(modelID string) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("hi interactive chat"))
	fmt.Println(RenderSeparator(30))
	fmt.Printf("%s %s\n", InfoStyle.Render("Model:"), CommandStyle.Render(modelID))
	fmt.Println(InfoStyle.Render("Type a message and press Enter. Commands: exit, new chat, change model"))
	fmt.Println()
}
