// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// Spinner is an ASCII spinner with a label, shown while a request is out.
type Spinner struct {
	spinner spinner.Model
	message string
	active  bool
	started time.Time
}

// NewSpinner creates an idle spinner labelled message.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Spinner{spinner: s, message: message}
}

// SetMessage changes the label.
func (s *Spinner) SetMessage(msg string) { s.message = msg }

// Start activates the spinner. The returned command starts the ticks; it is
// nil if the spinner was already running.
func (s *Spinner) Start() tea.Cmd {
	if s.active {
		return nil
	}
	s.active = true
	s.started = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner; pending ticks are dropped by Update.
func (s *Spinner) Stop() { s.active = false }

// Active reports whether the spinner is running.
func (s Spinner) Active() bool { return s.active }

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders "<frame> <message>... (3s)", or nothing when idle.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	frame := lipgloss.NewStyle().Foreground(styles.Amber).Render(s.spinner.View())
	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(s.message + "...")
	out := frame + " " + label
	if secs := int(time.Since(s.started).Seconds()); secs > 0 {
		out += lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" (" + strconv.Itoa(secs) + "s)")
	}
	return out
}
