// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components holds the pieces the TUI is drawn from: the header and
// tab strip, the status bar, transcript messages, the spinner and the toast
// stack. ToastManager doubles as the notify.Sink the controllers report to
// while the TUI is running.
package components
