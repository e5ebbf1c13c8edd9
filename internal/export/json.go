// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/ragdesk/internal/model"
)

// JSONExporter writes the full transcript, including message ids.
type JSONExporter struct{}

type jsonTranscript struct {
	SessionID  string          `json:"session_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// Export renders conv as indented JSON.
func (JSONExporter) Export(conv model.Conversation) ([]byte, error) {
	if conv.IsEmpty() {
		return nil, ErrEmpty
	}
	return json.MarshalIndent(jsonTranscript{
		SessionID:  conv.SessionID,
		ExportedAt: time.Now().UTC(),
		Messages:   conv.History(),
	}, "", "  ")
}

// FileExtension returns ".json".
func (JSONExporter) FileExtension() string { return ".json" }
