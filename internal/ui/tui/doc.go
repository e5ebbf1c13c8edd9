// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tui is the full-screen Bubble Tea front end.
//
// It has two tabs. Chat shows the transcript and the query input, which also
// accepts slash commands. Documents lists the indexed files and holds the
// upload form. The model owns no domain state: every intent is forwarded to
// the controllers in app.App, and every completion message is routed back
// through app.App.Update before the view is refreshed.
package tui
