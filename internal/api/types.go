// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// DocumentID is the backend's opaque document identifier.
// Backends emit it either as a JSON string or a JSON number; both decode to
// the same textual form and it is always sent back as a path segment.
type DocumentID string

// UnmarshalJSON accepts string and numeric ids.
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = DocumentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("document id: %w", err)
	}
	*id = DocumentID(n.String())
	return nil
}

// String returns the id as sent on the wire.
func (id DocumentID) String() string {
	return string(id)
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Document is one indexed file as reported by GET /documents.
type Document struct {
	ID         DocumentID `json:"id"`
	Filename   string     `json:"filename"`
	Collection string     `json:"collection"`
	FileSize   int64      `json:"file_size"` // bytes
}

// SizeKB returns the file size in kilobytes with one decimal, as shown in listings.
func (d Document) SizeKB() string {
	return strconv.FormatFloat(float64(d.FileSize)/1024, 'f', 1, 64) + " KB"
}

type documentsResponse struct {
	Documents []Document `json:"documents"`
}

type collectionsResponse struct {
	Collections []string `json:"collections"`
}

// UploadResponse is returned by POST /documents/upload.
type UploadResponse struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"` // number of indexed chunks
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// PromptTemplate is a reusable query template.
type PromptTemplate struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type promptsResponse struct {
	Prompts []PromptTemplate `json:"prompts"`
}

// errorResponse is the error envelope. Detail is kept raw because some
// backends send a validation list instead of a string.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
// A nil Collection is serialized as null, meaning "search every collection".
type ChatRequest struct {
	Query      string  `json:"query"`
	Collection *string `json:"collection"`
	SessionID  string  `json:"session_id"`
}
