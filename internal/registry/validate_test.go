// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"errors"
	"testing"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"report.PDF", true},
		{"manual.pdf", true},
		{"contract.Docx", true},
		{"readme.txt", true},
		{"backup.tar.txt", true},
		{"/tmp/upload/plan.pdf", true},
		{"notes.md", false},
		{"legacy.doc", false},
		{"report.pdf.zip", false},
		{"Makefile", false},
		{"dir.pdf/readme", false},
		{"trailing.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.name)
			if tt.ok && err != nil {
				t.Errorf("ValidateFile(%q) = %v, want nil", tt.name, err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("ValidateFile(%q) accepted an unsupported file", tt.name)
				}
				if !IsInvalidFileType(err) {
					t.Errorf("ValidateFile(%q) = %T, want *InvalidFileTypeError", tt.name, err)
				}
			}
		})
	}
}

func TestValidateFile_Empty(t *testing.T) {
	if err := ValidateFile("  "); !errors.Is(err, ErrNoFile) {
		t.Errorf("ValidateFile(blank) = %v, want ErrNoFile", err)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.PDF":      "pdf",
		"a.b.DocX":   "docx",
		"noext":      "",
		"x/y.z/file": "",
		".txt":       "txt",
	}
	for in, want := range tests {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}
