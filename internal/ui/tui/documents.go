// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// DOCUMENTS TAB KEYS
// =============================================================================

func (m Model) handleDocumentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusPath:
		return m.handlePathKey(msg)
	case focusCollection:
		return m.handleCollectionKey(msg)
	}

	docs := m.app.Registry.Documents()
	armed := m.confirmDelete
	m.confirmDelete = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(docs)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Delete):
		if len(docs) == 0 {
			return m, nil
		}
		id := docs[m.cursor].ID
		if m.app.Registry.Deleting(id) {
			return m, nil
		}
		if armed != id {
			m.confirmDelete = id
			return m, nil
		}
		return m, m.app.Registry.Delete(id)

	case key.Matches(msg, m.keys.Upload):
		m.focus = focusPath
		return m, tea.Batch(m.pathInput.Focus(), textinput.Blink)

	case key.Matches(msg, m.keys.Collection):
		m.focus = focusCollection
		return m, tea.Batch(m.collectionInput.Focus(), textinput.Blink)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.app.Registry.Refresh()
	}
	return m, nil
}

// handlePathKey edits the file path. Enter selects and uploads the file to
// the collection in the collection field.
func (m Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.leaveForm()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		// Rejections are reported by the registry.
		if err := m.app.Registry.SelectFile(expandHome(strings.TrimSpace(m.pathInput.Value()))); err != nil {
			return m, nil
		}
		m.app.Registry.SetCollectionInput(m.collectionInput.Value())
		cmd := m.app.Registry.Upload()
		m.pathInput.Reset()
		m.leaveForm()
		return m, tea.Batch(cmd, m.syncSpinner())
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) handleCollectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back, m.keys.Submit) {
		m.leaveForm()
		return m, nil
	}
	var cmd tea.Cmd
	m.collectionInput, cmd = m.collectionInput.Update(msg)
	m.app.Registry.SetCollectionInput(m.collectionInput.Value())
	return m, cmd
}

func (m *Model) leaveForm() {
	m.focus = focusTable
	m.pathInput.Blur()
	m.collectionInput.Blur()
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
