// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// Header is the title bar with the tab strip.
type Header struct {
	Title  string
	Tabs   []string
	Active int
	Info   string // right-aligned, e.g. the backend URL
	Width  int
}

// View renders the header. The info text is dropped on narrow terminals.
func (h Header) View(theme *styles.Theme) string {
	title := theme.HeaderTitle.Render(h.Title)

	tabs := make([]string, len(h.Tabs))
	for i, name := range h.Tabs {
		label := name
		if i < 9 {
			label = string(rune('1'+i)) + " " + name
		}
		if i == h.Active {
			tabs[i] = theme.ActiveTab.Render(label)
		} else {
			tabs[i] = theme.Tab.Render(label)
		}
	}
	left := title + "  " + strings.Join(tabs, " ")

	inner := h.Width - 2
	if inner <= 0 {
		inner = lipgloss.Width(left)
	}
	line := left
	if h.Info != "" && theme.Layout() != styles.LayoutNarrow {
		info := theme.HeaderInfo.Render(h.Info)
		gap := inner - lipgloss.Width(left) - lipgloss.Width(info)
		if gap >= 2 {
			line = left + strings.Repeat(" ", gap) + info
		}
	}
	return theme.Header.Render(line)
}
