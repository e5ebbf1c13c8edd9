// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// StatusBar is the bottom line: session, collection filter, counts and
// the key hints.
type StatusBar struct {
	SessionID  string
	Collection string
	Documents  int
	Pending    int
	Hints      string
	Width      int
}

// View renders the bar to exactly Width columns.
func (s StatusBar) View(theme *styles.Theme) string {
	field := func(key, value string) string {
		return theme.StatusKey.Render(key+" ") + theme.StatusValue.Render(value)
	}
	sep := theme.StatusKey.Render("  ")

	parts := []string{
		field("collection", s.Collection),
		field("docs", strconv.Itoa(s.Documents)),
	}
	if s.Pending > 0 {
		parts = append(parts, field("pending", strconv.Itoa(s.Pending)))
	}
	if theme.Layout() != styles.LayoutNarrow {
		parts = append([]string{field("session", s.SessionID)}, parts...)
	}
	left := strings.Join(parts, sep)

	width := s.Width
	if width <= 0 {
		width = theme.Width
	}
	inner := width - 2
	if s.Hints != "" {
		hints := theme.StatusKey.Render(s.Hints)
		if gap := inner - lipgloss.Width(left) - lipgloss.Width(hints); gap >= 2 {
			left += theme.StatusKey.Render(strings.Repeat(" ", gap)) + hints
		}
	}
	return theme.StatusBar.Width(width).MaxHeight(1).Render(left)
}
