// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system shared by the TUI and
// the line-mode chat REPL.
//
// # Commands
//
//   - /upload <file> [collection], /delete <id|filename>
//   - /docs, /collections, /use [collection], /refresh
//   - /prompts, /prompt <name>
//   - /clear, /export [json|md|txt] [path]
//   - /help [command], /quit
//
// Handlers never block: anything that reaches the backend is returned as a
// tea.Cmd in Result.Cmd for the caller to run.
package commands
