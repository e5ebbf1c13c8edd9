// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation pairs a session id with its message history. The chat
// controller replaces the whole value when the conversation is cleared, so
// the id and the history always change together.
package model
