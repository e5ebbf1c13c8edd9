// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/ragdesk/internal/model"
)

// TextExporter writes a plain transcript.
type TextExporter struct{}

// Export renders conv as plain text.
func (TextExporter) Export(conv model.Conversation) ([]byte, error) {
	if conv.IsEmpty() {
		return nil, ErrEmpty
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Session: %s\n\n", conv.SessionID)
	for _, msg := range conv.Messages {
		fmt.Fprintf(&sb, "[%s] %s:\n", formatTimestamp(msg.Timestamp), msg.Role.DisplayName())
		sb.WriteString(strings.TrimRight(msg.Content, "\n"))
		sb.WriteString("\n")
		if msg.HasSources() {
			fmt.Fprintf(&sb, "Sources: %s\n", strings.Join(msg.Sources, ", "))
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// FileExtension returns ".txt".
func (TextExporter) FileExtension() string { return ".txt" }
