// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package registry keeps the client's view of uploaded documents and
// collections in step with the backend.
//
// The backend is the source of truth. The controller never edits its cached
// lists after a mutation; it refetches them instead. Upload and Delete emit
// the Changed signal on success, and Changed is subscribed to both
// LoadDocuments and LoadCollections, so each list is fetched exactly once per
// mutation.
//
// Files are validated before any request is made: only .pdf, .docx and .txt
// (matched case-insensitively on the text after the last dot) are accepted.
package registry
