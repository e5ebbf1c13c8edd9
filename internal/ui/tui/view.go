// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/ui/components"
	"github.com/jeranaias/ragdesk/internal/util"
)

// View renders the whole screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := components.Header{
		Title:  "ragdesk",
		Tabs:   tabNames,
		Active: int(m.tab),
		Info:   m.app.Config().Backend.URL,
		Width:  m.width,
	}.View(m.theme)

	var footer []string
	if toasts := m.toasts.View(m.width); toasts != "" {
		footer = append(footer, toasts)
	}
	if m.tab == TabChat {
		footer = append(footer, m.chatFooter())
	} else {
		footer = append(footer, m.documentsFooter())
	}
	footer = append(footer, components.StatusBar{
		SessionID:  m.app.Chat.SessionID(),
		Collection: m.app.Chat.Collection(),
		Documents:  len(m.app.Registry.Documents()),
		Pending:    m.app.Chat.Pending(),
		Hints:      hints(m.keys.ShortHelp()),
		Width:      m.width,
	}.View(m.theme))
	foot := lipgloss.JoinVertical(lipgloss.Left, footer...)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(foot)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case m.showHelp:
		body = m.help.FullHelpView(m.keys.FullHelp())
	case m.pickerOpen:
		body = m.pickerView()
	case m.tab == TabChat:
		vp := m.viewport
		atBottom := vp.AtBottom()
		vp.Height = bodyHeight
		if atBottom {
			vp.GotoBottom()
		}
		body = vp.View()
	default:
		body = m.documentsView(bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, foot)
}

// =============================================================================
// CHAT TAB
// =============================================================================

func (m Model) welcome() string {
	if !m.app.Registry.HasDocuments() {
		return "No documents yet. Press Ctrl+T, then u, to upload a PDF, DOCX or TXT file."
	}
	n := len(m.app.Registry.Documents())
	return fmt.Sprintf("Ask a question about your %d document(s). Type /help for commands.", n)
}

// placeholder explains why sending is disabled, if it is.
func (m Model) placeholder() string {
	err := m.app.CanSend()
	switch {
	case errors.Is(err, app.ErrNoDocuments):
		return app.MsgNoDocuments
	case errors.Is(err, app.ErrBusy):
		return "Waiting for the answer..."
	default:
		return "Ask a question, or / for commands"
	}
}

func (m Model) chatFooter() string {
	var lines []string
	if s := m.spinner.View(); s != "" {
		lines = append(lines, s)
	}
	if len(m.completions) > 1 {
		lines = append(lines, m.theme.Muted.Render(util.TruncateWidth(strings.Join(m.completions, "  "), m.theme.ContentWidth())))
	}

	in := m.input
	in.Placeholder = m.placeholder()
	box := m.theme.Input
	if m.app.CanSend() != nil {
		box = m.theme.InputBlurred
	}
	lines = append(lines, box.Width(m.theme.ContentWidth()-2).Render(in.View()))
	return strings.Join(lines, "\n")
}

func (m Model) pickerView() string {
	list := m.app.Prompts.Prompts()
	lines := []string{m.theme.HeaderTitle.Render("Prompt templates"), ""}
	if m.app.Prompts.UsingFallback() {
		lines = append(lines, m.theme.Muted.Render("Built-in templates (backend unavailable)"), "")
	}
	width := m.theme.ContentWidth()
	for i, p := range list {
		preview := util.FirstLine(p.Content)
		if preview == "" {
			preview = "(empty)"
		}
		row := "  " + util.PadRight(p.Name, 26) + "  " + util.TruncateWidth(preview, width-32)
		if i == m.pickerCursor {
			row = m.theme.TableSelected.Render(">" + row[1:])
		}
		lines = append(lines, row)
	}
	lines = append(lines, "", m.theme.Help.Render("Enter insert  Esc close"))
	return strings.Join(lines, "\n")
}

// =============================================================================
// DOCUMENTS TAB
// =============================================================================

func (m Model) documentsView(height int) string {
	reg := m.app.Registry
	docs := reg.Documents()

	var lines []string
	if names := reg.Collections(); len(names) > 0 {
		lines = append(lines, m.theme.InputLabel.Render("Collections: ")+strings.Join(names, ", "))
	} else {
		lines = append(lines, m.theme.Muted.Render("No collections yet"))
	}
	lines = append(lines, "")

	if reg.Loading() && len(docs) == 0 {
		lines = append(lines, m.theme.Muted.Render("Loading documents..."))
		return strings.Join(lines, "\n")
	}

	table := components.DocumentTable{
		Documents: docs,
		Cursor:    m.cursor,
		Deleting:  reg.Deleting,
		Width:     m.theme.ContentWidth(),
		Height:    height - 4,
	}
	lines = append(lines, table.View(m.theme))

	if m.confirmDelete != "" {
		name := m.confirmDelete.String()
		if d, ok := reg.Document(m.confirmDelete); ok {
			name = d.Filename
		}
		lines = append(lines, "", m.theme.Spinner.Render(fmt.Sprintf("Press d again to delete %s", name)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) documentsFooter() string {
	var lines []string
	if s := m.spinner.View(); s != "" {
		lines = append(lines, s)
	}
	if c := m.app.Registry.Candidate(); c != nil {
		lines = append(lines, m.theme.InputLabel.Render(fmt.Sprintf("Selected: %s (%.1f KB)", c.Name, float64(c.Size)/1024)))
	}

	pathBox, collBox := m.theme.InputBlurred, m.theme.InputBlurred
	switch m.focus {
	case focusPath:
		pathBox = m.theme.Input
	case focusCollection:
		collBox = m.theme.Input
	}
	form := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.InputLabel.Render("file "),
		pathBox.Render(m.pathInput.View()),
		m.theme.InputLabel.Render("  collection "),
		collBox.Render(m.collectionInput.View()),
	)
	lines = append(lines, form)
	return strings.Join(lines, "\n")
}

// hints renders bindings as "key desc" pairs for the status bar.
func hints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
