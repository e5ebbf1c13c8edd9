// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the TUI's key bindings.
type KeyMap struct {
	// Global
	Quit         key.Binding
	NextTab      key.Binding
	Help         key.Binding
	DismissToast key.Binding

	// Chat tab
	Submit          key.Binding
	Complete        key.Binding
	PageUp          key.Binding
	PageDown        key.Binding
	ClearChat       key.Binding
	Prompts         key.Binding
	CycleCollection key.Binding

	// Documents tab
	Up         key.Binding
	Down       key.Binding
	Delete     key.Binding
	Upload     key.Binding
	Collection key.Binding
	Refresh    key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "switch tab"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		DismissToast: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "dismiss notice"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "complete command"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		ClearChat: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear chat"),
		),
		Prompts: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "prompt templates"),
		),
		CycleCollection: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "cycle collection"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete (twice to confirm)"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload a file"),
		),
		Collection: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "upload collection"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help view, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.Help, k.DismissToast, k.Quit},
		{k.Submit, k.Complete, k.PageUp, k.PageDown},
		{k.ClearChat, k.Prompts, k.CycleCollection},
		{k.Up, k.Down, k.Delete, k.Upload, k.Collection, k.Refresh, k.Back},
	}
}
