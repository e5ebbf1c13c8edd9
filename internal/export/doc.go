// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the in-memory chat transcript to disk.
//
// # Supported Formats
//
//   - json: session id, export time and every message with its sources
//   - md: Markdown with one section per message and a sources list
//   - txt: plain text, one block per message
//
// # Usage
//
//	exporter, err := export.ForFormat("md")
//	path, err := export.ToFile(conv, exporter, "")
package export
