// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session generates conversation session identifiers.
//
// A session id has the form "session_<millis-since-epoch>". One id is active
// at a time; the chat controller asks for a fresh one at startup and each time
// the conversation is cleared.
//
// # Usage
//
//	mgr := session.NewManager(session.DefaultConfig())
//	id := mgr.SessionID()
//	next := mgr.Reset() // never equal to id
package session
