// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// ragdesk.
//
// Every non-interactive command drives the same controllers as the TUI
// through an app.App, so uploads refresh the registry, answers carry the
// session id, and failures surface as the same notices. Notices go to stderr;
// results go to stdout, as JSON when --json is given.
//
// # Commands
//
//   - ask: one question, answer on stdout
//   - chat: interactive line-mode chat with slash commands
//   - docs, collections, prompts: listings
//   - upload, delete: document management
//   - watch: upload files as they land in a directory
//   - config: show, get, set, path, reset
//
// Exit codes are listed in errors.go.
package cli
