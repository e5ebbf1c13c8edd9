// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	Success(&r, "Chat cleared")
	Error(&r, "Failed to get response")
	Info(&r, "loading")

	if got := r.Messages(KindError); len(got) != 1 || got[0] != "Failed to get response" {
		t.Errorf("error messages = %v", got)
	}
	last, ok := r.Last()
	if !ok || last.Kind != KindInfo || last.Message != "loading" {
		t.Errorf("Last = %+v, %v", last, ok)
	}
	if last.At.IsZero() {
		t.Error("notice time not set")
	}

	r.Reset()
	if _, ok := r.Last(); ok {
		t.Error("Last after Reset should be empty")
	}
}

func TestNilSinkIsIgnored(t *testing.T) {
	Error(nil, "nobody listening")
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	Success(w, "Document deleted successfully")
	Error(w, "Failed to delete document")

	out := buf.String()
	if !strings.Contains(out, "Document deleted successfully") {
		t.Errorf("missing success line in %q", out)
	}
	if !strings.Contains(out, "[X]") {
		t.Errorf("error line should carry the error indicator: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected two lines, got %q", out)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindInfo:    "info",
		KindSuccess: "success",
		KindWarning: "warning",
		KindError:   "error",
	}
	for k, want := range tests {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
