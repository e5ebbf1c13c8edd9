// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive line-mode chat.
//
// Plain lines are questions; lines starting with "/" run the same slash
// commands as the TUI. Tab completes commands, collections, documents and
// prompt names. /prompt pre-fills the next input line with the template.

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/commands"
	"github.com/jeranaias/ragdesk/internal/util"
)

const chatPrompt = "ragdesk> "

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and input history for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI opens the terminal. historyFile may be empty.
func NewChatCLI(historyFile string, complete liner.Completer) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if complete != nil {
		line.SetCompleter(complete)
	}

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line. A non-empty suggestion is pre-filled for editing.
func (c *ChatCLI) ReadInput(prompt, suggestion string) (string, error) {
	var (
		input string
		err   error
	)
	if suggestion != "" {
		input, err = c.line.PromptWithSuggestion(prompt, suggestion, -1)
	} else {
		input, err = c.line.Prompt(prompt)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history, owner read/write only.
func (c *ChatCLI) SaveHistory() error {
	if c.historyFile == "" {
		return nil
	}
	var buf bytes.Buffer
	if _, err := c.line.WriteHistory(&buf); err != nil {
		return err
	}
	return util.AtomicWriteFile(c.historyFile, buf.Bytes(), 0600)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() error {
	err := c.SaveHistory()
	if cerr := c.line.Close(); err == nil {
		err = cerr
	}
	return err
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession executes input lines against the app.
type chatSession struct {
	env      *Env
	app      *app.App
	registry *commands.Registry
	ctx      *commands.Context
	renderer *glamour.TermRenderer
	out      io.Writer
	errw     io.Writer
}

func newChatSession(env *Env) *chatSession {
	return &chatSession{
		env:      env,
		app:      env.App,
		registry: commands.NewRegistry(),
		ctx:      &commands.Context{App: env.App},
		renderer: newMarkdownRenderer(env.Config),
		out:      env.Out,
		errw:     env.Err,
	}
}

// handleLine runs one input line and reports whether the user asked to quit.
func (s *chatSession) handleLine(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return true
	}
	if commands.IsCommand(input) {
		return s.runCommand(input)
	}
	s.ask(input)
	return false
}

func (s *chatSession) runCommand(input string) bool {
	res := s.registry.Execute(s.ctx, input)
	if res.Err != nil {
		fmt.Fprintf(s.errw, "%s %v\n", ErrorStyle.Render("[Error]"), res.Err)
		return false
	}
	if res.Output != "" {
		fmt.Fprintln(s.out, res.Output)
	}
	s.app.Drive(res.Cmd)
	return res.Quit
}

func (s *chatSession) ask(q string) {
	before := len(s.app.Chat.Messages())
	cmd, err := s.app.Ask(q)
	if err != nil {
		// already reported as a notice
		return
	}
	fmt.Fprintln(s.errw, DimStyle.Render("Thinking..."))
	s.app.Drive(cmd)

	msgs := s.app.Chat.Messages()
	if len(msgs) != before+2 {
		return
	}
	fmt.Fprintln(s.out)
	printAnswer(s.out, s.renderer, msgs[len(msgs)-1])
	fmt.Fprintln(s.out)
}

func (s *chatSession) printWelcome() {
	a := s.app
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, TitleStyle.Render("ragdesk interactive chat"))
	fmt.Fprintln(s.out, RenderSeparator(30))
	fmt.Fprintf(s.out, "%s %s\n", DimStyle.Render("Backend:   "), a.Config().Backend.URL)
	fmt.Fprintf(s.out, "%s %d\n", DimStyle.Render("Documents: "), len(a.Registry.Documents()))
	fmt.Fprintf(s.out, "%s %s\n", DimStyle.Render("Collection:"), a.Chat.Collection())
	fmt.Fprintf(s.out, "%s %s\n", DimStyle.Render("Session:   "), a.Chat.SessionID())
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, DimStyle.Render("Type a question and press Enter. Commands: /help, /quit"))
	fmt.Fprintln(s.out)
}

func (s *chatSession) printExitSummary() {
	n := len(s.app.Chat.Messages())
	fmt.Fprintf(s.out, "%s %s, %d message(s)\n",
		DimStyle.Render("Session"), s.app.Chat.SessionID(), n)
}

// HandleChat runs the interactive chat loop until /quit, Ctrl+C or Ctrl+D.
func HandleChat(env *Env, args Args) error {
	if args.Collection != "" {
		env.App.Chat.SetCollection(args.Collection)
	}
	s := newChatSession(env)
	env.App.Drive(env.App.Init())
	s.printWelcome()

	historyFile, err := env.Config.HistoryPath()
	if err != nil {
		env.Logger.Warn("no history file", zap.Error(err))
		historyFile = ""
	}
	completer := commands.NewAppCompleter(s.registry, env.App)
	input := NewChatCLI(historyFile, completer.Lines)
	defer func() {
		if err := input.Close(); err != nil {
			env.Logger.Warn("failed to save history", zap.Error(err))
		}
	}()

	for {
		line, err := input.ReadInput(chatPrompt, env.App.Chat.Query())
		env.App.Chat.SetQuery("")
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				env.Logger.Warn("input failed", zap.Error(err))
			}
			fmt.Fprintln(s.out)
			s.printExitSummary()
			return nil
		}
		if s.handleLine(line) {
			s.printExitSummary()
			return nil
		}
	}
}
