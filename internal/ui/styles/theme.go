// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeDark  = "dark"
	ModeLight = "light"
	ModeAuto  = "auto"
)

// LayoutMode buckets the terminal width.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-99 columns
	LayoutWide                     // >= 100 columns
)

// Theme holds the styles the TUI draws with.
type Theme struct {
	IsDark bool

	Width  int
	Height int

	// Header and tabs
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderInfo  lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style

	// Transcript
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Sources         lipgloss.Style

	// Input
	Input        lipgloss.Style
	InputBlurred lipgloss.Style
	InputLabel   lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style

	// Documents table
	TableHeader   lipgloss.Style
	TableRow      lipgloss.Style
	TableSelected lipgloss.Style
	TableDeleting lipgloss.Style

	Muted   lipgloss.Style
	Help    lipgloss.Style
	Spinner lipgloss.Style
}

// NewTheme builds a theme for mode. "auto" (or anything unrecognised) asks
// the terminal for its background.
func NewTheme(mode string) *Theme {
	var dark bool
	switch strings.ToLower(mode) {
	case ModeDark:
		dark = true
	case ModeLight:
		dark = false
	default:
		dark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(dark)

	t := &Theme{IsDark: dark, Width: 80, Height: 24}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border)
	t.HeaderTitle = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.HeaderInfo = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Tab = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.ActiveTab = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true).
		Padding(0, 1)

	t.UserLabel = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.AssistantLabel = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Cyan).
		PaddingLeft(1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Purple).
		PaddingLeft(1)
	t.Sources = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.InputBlurred = t.Input.BorderForeground(Border)
	t.InputLabel = lipgloss.NewStyle().Foreground(TextSecondary)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceRaised).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().Foreground(TextMuted).Background(SurfaceRaised)
	t.StatusValue = lipgloss.NewStyle().Foreground(TextPrimary).Background(SurfaceRaised).Bold(true)

	t.TableHeader = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.TableRow = lipgloss.NewStyle().Foreground(TextPrimary)
	t.TableSelected = lipgloss.NewStyle().Foreground(TextInverse).Background(Purple)
	t.TableDeleting = lipgloss.NewStyle().Foreground(Rose).Strikethrough(true)

	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.Help = lipgloss.NewStyle().Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(Amber)
}

// SetSize records the terminal size.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// Layout returns the layout bucket for the current width.
func (t *Theme) Layout() LayoutMode {
	switch {
	case t.Width < 60:
		return LayoutNarrow
	case t.Width < 100:
		return LayoutMedium
	default:
		return LayoutWide
	}
}

// ContentWidth is the usable width inside the app padding, never below 20.
func (t *Theme) ContentWidth() int {
	if t.Width-2 < 20 {
		return 20
	}
	return t.Width - 2
}
