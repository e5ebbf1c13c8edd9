// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ragdesk/internal/config"
	"github.com/jeranaias/ragdesk/internal/model"
)

// newMarkdownRenderer returns nil when answers should be printed verbatim:
// markdown is off in the config or stdout is not a terminal.
func newMarkdownRenderer(cfg *config.Config) *glamour.TermRenderer {
	if !cfg.UI.Markdown || !IsStdoutTTY() {
		return nil
	}
	style := glamour.WithAutoStyle()
	if cfg.UI.Theme == "dark" || cfg.UI.Theme == "light" {
		style = glamour.WithStandardStyle(cfg.UI.Theme)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(GetTerminalWidth()-4))
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown falls back to the raw content if r is nil or fails.
func renderMarkdown(r *glamour.TermRenderer, content string) string {
	if r == nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// formatSources renders the citation line, or "" when there are none.
func formatSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	return SourceStyle.Render("Sources: " + strings.Join(sources, ", "))
}

// printAnswer writes an assistant message and its sources.
func printAnswer(w io.Writer, r *glamour.TermRenderer, msg model.Message) {
	fmt.Fprintln(w, renderMarkdown(r, msg.Content))
	if src := formatSources(msg.Sources); src != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, src)
	}
}
