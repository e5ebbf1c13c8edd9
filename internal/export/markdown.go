// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/ragdesk/internal/model"
)

// MarkdownExporter writes a readable transcript. Answer text is kept as-is
// since the backend already returns Markdown.
type MarkdownExporter struct{}

// Export renders conv as Markdown.
func (MarkdownExporter) Export(conv model.Conversation) ([]byte, error) {
	if conv.IsEmpty() {
		return nil, ErrEmpty
	}

	var sb strings.Builder
	sb.WriteString("# Document Q&A\n\n")
	fmt.Fprintf(&sb, "- **Session**: `%s`\n", conv.SessionID)
	fmt.Fprintf(&sb, "- **Messages**: %d\n\n", conv.Len())

	for i, msg := range conv.Messages {
		fmt.Fprintf(&sb, "## %s <sub>%s</sub>\n\n", msg.Role.DisplayName(), formatTimestamp(msg.Timestamp))
		sb.WriteString(strings.TrimRight(msg.Content, "\n"))
		sb.WriteString("\n\n")

		if msg.HasSources() {
			sb.WriteString("**Sources:**\n\n")
			for _, src := range msg.Sources {
				fmt.Fprintf(&sb, "- %s\n", src)
			}
			sb.WriteString("\n")
		}
		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}
	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (MarkdownExporter) FileExtension() string { return ".md" }
