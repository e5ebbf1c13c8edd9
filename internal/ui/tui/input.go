// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/commands"
	"github.com/jeranaias/ragdesk/internal/notify"
)

// =============================================================================
// CHAT TAB KEYS
// =============================================================================

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.ClearChat):
		m.app.Chat.Clear()
		m.output = ""
		m.refreshTranscript(true)
		return m, nil

	case key.Matches(msg, m.keys.Prompts):
		m.pickerOpen = true
		m.pickerCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.CycleCollection):
		m.cycleCollection()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.completions = nil
	}
	return m, cmd
}

// submit sends the input as a question, or runs it as a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	m.completions = nil
	if commands.IsCommand(text) {
		return m.runCommand(text)
	}

	cmd, err := m.app.Ask(text)
	if err != nil {
		// App and the chat controller report their own refusals.
		if errors.Is(err, app.ErrBusy) {
			notify.Warning(m.toasts, MsgBusy)
		}
		return m, nil
	}
	m.input.Reset()
	m.output = ""
	m.refreshTranscript(true)
	return m, tea.Batch(cmd, m.syncSpinner())
}

// runCommand executes a slash command. On error the input is kept so it can
// be corrected.
func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	res := m.commands.Execute(&commands.Context{App: m.app}, text)
	if res.Err != nil {
		notify.Error(m.toasts, res.Err.Error())
		return m, nil
	}
	m.logger.Debug("command", zap.String("name", commands.ExtractCommandName(text)))

	m.input.Reset()
	m.takeQuery()
	m.output = res.Output
	m.refreshTranscript(true)
	if res.Quit {
		return m.quit()
	}
	return m, tea.Batch(res.Cmd, m.syncSpinner())
}

// takeQuery moves text a prompt template put into the chat controller into
// the input box.
func (m *Model) takeQuery() {
	q := m.app.Chat.Query()
	if q == "" {
		return
	}
	m.input.SetValue(q)
	m.input.CursorEnd()
	m.app.Chat.SetQuery("")
}

// complete fills in the next slash-command completion; repeated presses
// cycle through the candidates.
func (m *Model) complete() {
	if len(m.completions) == 0 {
		m.completions = m.completer.Lines(m.input.Value())
		m.completionIdx = 0
		if len(m.completions) == 0 {
			return
		}
	} else {
		m.completionIdx = (m.completionIdx + 1) % len(m.completions)
	}
	m.input.SetValue(m.completions[m.completionIdx])
	m.input.CursorEnd()
}

// cycleCollection steps the filter through "all" and each collection. It
// does nothing until at least one collection exists.
func (m *Model) cycleCollection() {
	names := m.app.Registry.Collections()
	if len(names) == 0 {
		return
	}
	options := append([]string{chat.AllCollections}, names...)
	current := m.app.Chat.Collection()
	next := 0
	for i, name := range options {
		if name == current {
			next = (i + 1) % len(options)
			break
		}
	}
	m.app.Chat.SetCollection(options[next])
}

// =============================================================================
// PROMPT PICKER
// =============================================================================

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.app.Prompts.Prompts()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.pickerOpen = false

	case key.Matches(msg, m.keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.pickerCursor < len(list)-1 {
			m.pickerCursor++
		}

	case key.Matches(msg, m.keys.Submit):
		m.pickerOpen = false
		if m.pickerCursor < len(list) {
			name := list[m.pickerCursor].Name
			if m.app.ApplyPrompt(name) {
				// An empty template clears the input.
				m.input.SetValue(m.app.Chat.Query())
				m.input.CursorEnd()
				m.app.Chat.SetQuery("")
			}
		}
	}
	return m, nil
}
