// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ragdesk/internal/config"
	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// markdown renders answers with glamour, rebuilding the renderer only when
// the wrap width changes.
type markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// newMarkdown returns nil when markdown rendering is turned off.
func newMarkdown(cfg *config.Config, theme *styles.Theme) *markdown {
	if !cfg.UI.Markdown {
		return nil
	}
	style := styles.ModeLight
	if theme.IsDark {
		style = styles.ModeDark
	}
	return &markdown{style: style}
}

// Render implements components.MarkdownFunc.
func (md *markdown) Render(content string, width int) string {
	if md.renderer == nil || md.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(md.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		md.renderer, md.width = r, width
	}
	out, err := md.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
