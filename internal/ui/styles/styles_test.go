// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderStatusLines(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		want   string
	}{
		{"success", RenderSuccess, "[OK] saved"},
		{"error", RenderError, "[X] saved"},
		{"warning", RenderWarning, "[!] saved"},
		{"info", RenderInfo, "[i] saved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.render("saved"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTheme_ExplicitModes(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("dark theme should be dark")
	}
	if NewTheme("LIGHT").IsDark {
		t.Error("light theme should not be dark")
	}
}

func TestTheme_Layout(t *testing.T) {
	th := NewTheme(ModeDark)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		th.SetSize(tt.width, 30)
		if got := th.Layout(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestTheme_ContentWidthFloor(t *testing.T) {
	th := NewTheme(ModeLight)
	th.SetSize(10, 5)
	if got := th.ContentWidth(); got != 20 {
		t.Errorf("ContentWidth() = %d, want 20", got)
	}
	th.SetSize(120, 40)
	if got := th.ContentWidth(); got != 118 {
		t.Errorf("ContentWidth() = %d, want 118", got)
	}
}

func TestTheme_ActiveTabRendersLabel(t *testing.T) {
	th := NewTheme(ModeDark)
	if got := th.ActiveTab.Render("Chat"); !strings.Contains(got, "Chat") {
		t.Errorf("active tab lost its label: %q", got)
	}
}
