// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the front ends.
//
// String helpers measure display columns with go-runewidth, so filenames and
// collection names containing wide characters line up in tables and tabs.
// AtomicWriteFile is used for transcripts and config files.
package util
