// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/ragdesk/internal/model"
	"github.com/jeranaias/ragdesk/internal/util"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("conversation has no messages")

// Exporter renders a conversation in one format.
type Exporter interface {
	Export(conv model.Conversation) ([]byte, error)

	// FileExtension includes the leading dot.
	FileExtension() string
}

// Formats lists the names accepted by ForFormat.
var Formats = []string{"json", "md", "txt"}

// ForFormat returns the exporter for name ("markdown" and "text" are accepted too).
func ForFormat(name string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSONExporter{}, nil
	case "md", "markdown", "":
		return MarkdownExporter{}, nil
	case "txt", "text":
		return TextExporter{}, nil
	}
	return nil, fmt.Errorf("unknown export format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

// ToFile renders conv and writes it atomically. An empty path picks
// "chat_<session>_<time><ext>" in the working directory. Returns the path written.
func ToFile(conv model.Conversation, exporter Exporter, path string) (string, error) {
	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	if path == "" {
		path = DefaultFilename(conv, exporter, time.Now())
	}
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// DefaultFilename names an export of conv taken at t.
func DefaultFilename(conv model.Conversation, exporter Exporter, t time.Time) string {
	return fmt.Sprintf("chat_%s_%s%s", sanitizeFilename(conv.SessionID), t.Format("20060102_150405"), exporter.FileExtension())
}

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	s = util.TruncateWidth(s, 50)
	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), r < 32, r == 127:
			b.WriteRune('-')
		case r == ' ' || r == '\t':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
