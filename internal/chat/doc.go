// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversational query loop.
//
// A successful send grows the history by exactly two messages, the user's
// question then the assistant's answer. A failed send leaves the history as
// it was. Every request carries the session id that was active when it was
// sent; Clear swaps in a new session id and an empty history together.
package chat
