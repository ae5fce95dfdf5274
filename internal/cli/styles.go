// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for all hi commands.
//
// Colors are disabled automatically for non-TTY output and when NO_COLOR is
// set; FORCE_COLOR overrides detection.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles and the model-name answer prefix.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// PromptStyle is the interactive input prompt.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// SuccessStyle marks successful operations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle marks errors and failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle marks warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Yellow/Orange

	// InfoStyle is for informational lines.
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")) // Blue

	// DimStyle de-emphasizes secondary text such as citations.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim gray

	// CommandStyle highlights model names and in-band commands.
	CommandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")) // Bright green

	// SeparatorStyle is for horizontal dividers.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray
)

// RenderSeparator renders a horizontal divider line.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 40
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}
