// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "deep", "chat.md")

	if err := AtomicWriteFile(path, []byte("# Chat"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "# Chat" {
		t.Errorf("Content mismatch: got %q", content)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := AtomicWriteFile(path, []byte("initial"), 0o600); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0o600); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("Content not updated: got %q", content)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	path := filepath.Join(t.TempDir(), "secret.toml")
	if err := AtomicWriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"fits", "manual.pdf", 20, "manual.pdf"},
		{"exact", "manual.pdf", 10, "manual.pdf"},
		{"cut with ellipsis", "evacuation_procedures.pdf", 12, "evacuatio..."},
		{"tiny width", "manual.pdf", 3, "man"},
		{"zero", "manual.pdf", 0, ""},
		{"wide chars", "安全手册.pdf", 7, "安全..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWidth(tt.input, tt.width)
			if got != tt.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
			if StringWidth(got) > tt.width {
				t.Errorf("result %q is %d columns wide", got, StringWidth(got))
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	if w := StringWidth("abc"); w != 3 {
		t.Errorf("StringWidth(abc) = %d", w)
	}
	if w := StringWidth("手册"); w != 4 {
		t.Errorf("StringWidth(手册) = %d", w)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ops", 6); got != "ops   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("operations", 6); StringWidth(got) != 6 {
		t.Errorf("PadRight width = %d", StringWidth(got))
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("  Summary \nmore"); got != "Summary" {
		t.Errorf("FirstLine = %q", got)
	}
	if got := FirstLine("single"); got != "single" {
		t.Errorf("FirstLine = %q", got)
	}
}
