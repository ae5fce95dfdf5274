// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Interactive prompt helpers for the hi CLI.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptYesNo asks a yes/no question on stdin. Returns false when stdin is
// not a terminal or on any read error; destructive defaults stay safe.
func PromptYesNo(question string) bool {
	if !IsTTY() {
		return false
	}
	return promptYesNoFrom(os.Stdin, os.Stdout, question)
}

// promptYesNoFrom is PromptYesNo with injectable streams. Used by tests.
func promptYesNoFrom(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes"
}

// PromptInput reads one trimmed line after printing prompt. Returns an error
// when stdin is closed.
func PromptInput(prompt string) (string, error) {
	fmt.Print(prompt)
	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
