// ragdesk - a terminal client for document question answering.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/cli"
	"github.com/jeranaias/ragdesk/internal/ui/components"
	"github.com/jeranaias/ragdesk/internal/ui/tui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse(os.Args[1:])
	if err != nil {
		cli.DisplayError(os.Stdout, os.Stderr, cmd.String(), err, args.JSON)
		if !args.JSON {
			cli.PrintUsage(os.Stderr)
		}
		os.Exit(cli.GetExitCode(err))
	}

	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args, os.Stdout, os.Stderr)
	case cli.CmdVersion:
		err = cli.PrintVersion(os.Stdout, args.JSON)
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
	default:
		err = cli.Run(cmd, args)
	}

	if err != nil {
		cli.DisplayError(os.Stdout, os.Stderr, cmd.String(), err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}

// runTUI starts the full-screen interface. Notices go to the toast stack,
// logs to the log file only.
func runTUI(args cli.Args) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}

	toasts := components.NewToastManager(cfg.ToastDuration())
	env, err := cli.NewEnv(cfg, args, toasts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Logger.Info("tui starting", zap.String("backend", cfg.Backend.URL))
	model := tui.New(tui.Options{App: env.App, Toasts: toasts, Logger: env.Logger})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		env.Logger.Error("tui failed", zap.Error(err))
		return err
	}
	return nil
}
