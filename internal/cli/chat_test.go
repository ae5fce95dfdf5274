// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseChatCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want chatCommand
	}{
		{"exit", "exit", chatCmdExit},
		{"quit", "quit", chatCmdExit},
		{"exit uppercase", "EXIT", chatCmdExit},
		{"quit mixed case", "Quit", chatCmdExit},
		{"empty line", "", chatCmdNewChat},
		{"whitespace only", "   ", chatCmdNewChat},
		{"new chat", "new chat", chatCmdNewChat},
		{"new chat mixed case", "New Chat", chatCmdNewChat},
		{"change model", "change model", chatCmdChangeModel},
		{"change model padded", "  Change Model  ", chatCmdChangeModel},
		{"ordinary question", "what is go", chatCmdNone},
		{"question containing exit", "how do I exit vim", chatCmdNone},
		{"question containing quit", "quit smoking tips", chatCmdNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseChatCommand(tt.line); got != tt.want {
				t.Errorf("parseChatCommand(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}
