// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/ragdesk/internal/model"
	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// MarkdownFunc renders assistant content for display. It returns the input
// unchanged when it cannot render.
type MarkdownFunc func(content string, width int) string

// RenderMessage renders one transcript entry: a role label, the content in
// a bubble and, for answers, the sources line. md may be nil.
func RenderMessage(theme *styles.Theme, msg model.Message, width int, md MarkdownFunc) string {
	inner := width - 2 // bubble border and padding
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	if msg.IsUser() {
		b.WriteString(theme.UserLabel.Render(msg.Role.DisplayName()))
		b.WriteString("\n")
		b.WriteString(theme.UserBubble.Width(inner).Render(msg.Content))
		return b.String()
	}

	content := msg.Content
	if md != nil {
		content = md(content, inner)
	}
	b.WriteString(theme.AssistantLabel.Render(msg.Role.DisplayName()))
	b.WriteString("\n")
	if md != nil {
		b.WriteString(theme.AssistantBubble.Render(content))
	} else {
		b.WriteString(theme.AssistantBubble.Width(inner).Render(content))
	}
	if msg.HasSources() {
		b.WriteString("\n")
		b.WriteString(theme.Sources.Width(inner).Render("Sources: " + strings.Join(msg.Sources, ", ")))
	}
	return b.String()
}

// RenderTranscript renders msgs separated by blank lines.
func RenderTranscript(theme *styles.Theme, msgs []model.Message, width int, md MarkdownFunc) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = RenderMessage(theme, m, width, md)
	}
	return strings.Join(parts, "\n\n")
}
