// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Configuration, logging and controllers for a CLI invocation.
package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/config"
	"github.com/jeranaias/ragdesk/internal/logging"
	"github.com/jeranaias/ragdesk/internal/notify"
)

// Env is everything a command handler needs.
type Env struct {
	Config *config.Config
	Logger *zap.Logger
	App    *app.App

	Out io.Writer // results
	Err io.Writer // notices and progress

	closeLog func() error
}

// LoadConfig reads the configuration named by args and applies the
// command-line overrides.
func LoadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &ConfigError{Path: args.ConfigPath, Err: err}
	}

	if args.Backend != "" {
		cfg.Backend.URL = args.Backend
		if err := cfg.Validate(); err != nil {
			return nil, &ConfigError{Err: err}
		}
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// NewEnv opens the log and builds the controllers. A nil notices prints
// notices on stderr, or only errors with --quiet.
func NewEnv(cfg *config.Config, args Args, notices notify.Sink) (*Env, error) {
	env := &Env{
		Config:   cfg,
		Out:      os.Stdout,
		Err:      os.Stderr,
		closeLog: func() error { return nil },
	}

	logger, closeLog, err := openLog(cfg)
	if err != nil {
		if !args.Quiet {
			fmt.Fprintf(env.Err, "%s %v (logging disabled)\n", WarningStyle.Render("[WARN]"), err)
		}
		logger = logging.Nop()
	} else {
		env.closeLog = closeLog
	}
	env.Logger = logger

	if notices == nil {
		notices = stderrNotices(env.Err, args.Quiet)
	}
	env.App = app.New(app.Options{Config: cfg, Notices: notices, Logger: logger})
	logger.Debug("environment ready", zap.String("backend", cfg.Backend.URL))
	return env, nil
}

func openLog(cfg *config.Config) (*zap.Logger, func() error, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	return logging.New(logging.Options{Path: path, Level: cfg.Log.Level})
}

// stderrNotices prints notices on w. Quiet keeps only errors.
func stderrNotices(w io.Writer, quiet bool) notify.Sink {
	out := notify.NewWriter(w)
	if !quiet {
		return out
	}
	return notify.SinkFunc(func(n notify.Notice) {
		if n.Kind == notify.KindError {
			out.Notify(n)
		}
	})
}

// Close cancels outstanding requests and flushes the log.
func (e *Env) Close() {
	if e.App != nil {
		e.App.Close()
	}
	if e.closeLog != nil {
		_ = e.closeLog()
	}
}

// runOnce runs cmd, applies its message and drives any follow-up work.
// The message is returned so the caller can inspect the outcome.
func (e *Env) runOnce(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	e.App.Drive(e.App.Update(msg))
	return msg
}
