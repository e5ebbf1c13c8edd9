// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTE
// =============================================================================

var (
	Cyan    = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	Purple  = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	Rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
)

// Surfaces and text.
var (
	Surface       = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#1E1E2E"}
	SurfaceRaised = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#313244"}
	Border        = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#45475A"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#6C7086"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#11111B"}
)

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicators are the text markers prefixed to status lines.
var StatusIndicators = struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
}

var (
	successStyle = lipgloss.NewStyle().Foreground(Emerald)
	errorStyle   = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(Amber)
	infoStyle    = lipgloss.NewStyle().Foreground(Cyan)
)

// RenderSuccess renders msg as a success line.
func RenderSuccess(msg string) string {
	return successStyle.Render(StatusIndicators.Success + " " + msg)
}

// RenderError renders msg as an error line.
func RenderError(msg string) string {
	return errorStyle.Render(StatusIndicators.Error + " " + msg)
}

// RenderWarning renders msg as a warning line.
func RenderWarning(msg string) string {
	return warningStyle.Render(StatusIndicators.Warning + " " + msg)
}

// RenderInfo renders msg as an informational line.
func RenderInfo(msg string) string {
	return infoStyle.Render(StatusIndicators.Info + " " + msg)
}
