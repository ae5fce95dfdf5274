// hi - ask Perplexity from the command line.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/morganforge/hi/internal/cli"
	"github.com/morganforge/hi/internal/config"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches the invocation and returns the process exit code. All
// handlers return errors; this is the only place that maps them to codes.
func run(argv []string) int {
	cfg, err := config.Load()
	if err != nil {
		cli.PrintError(err)
		return cli.ExitConfigError
	}

	app := cli.NewApp(cfg)
	defer app.Close()

	cmd := ""
	if len(argv) > 0 {
		cmd = strings.ToLower(argv[0])
	}

	switch cmd {
	case "help", "about", "-h", "--help", "?", "h":
		return exit(cli.HandleHelp())

	case "version", "-v", "--version":
		fmt.Printf("hi %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return cli.ExitSuccess

	case "models":
		return exit(cli.HandleModels())

	case "setup":
		return exit(cli.HandleSetup(app))

	case "update":
		return exit(cli.HandleUpdate())

	case "sessions":
		return exit(cli.HandleSessions(app))

	case "usage":
		return exit(cli.HandleUsage(app))

	case "chat":
		args, err := cli.ParseChatArgs(argv)
		if err != nil {
			return exit(err)
		}
		if err := cli.EnsureConfigured(app); err != nil {
			return exit(err)
		}
		return exit(cli.HandleChat(app, args))

	default:
		args, err := cli.ParseTurnArgs(argv, 0)
		if err != nil {
			return exit(err)
		}
		if err := cli.EnsureConfigured(app); err != nil {
			return exit(err)
		}
		return exit(cli.HandleAsk(app, args))
	}
}

// exit prints the error, if any, and returns its exit code.
func exit(err error) int {
	if err != nil {
		cli.PrintError(err)
	}
	return cli.ExitCodeFor(err)
}
