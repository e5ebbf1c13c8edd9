// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragdesk/internal/notify"
	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind is the severity a toast is drawn with.
type ToastKind int

const (
	ToastKindStatus ToastKind = iota
	ToastKindError
	ToastKindWarning
	ToastKindSuccess
)

// DefaultToastDuration is used when the manager is given no base duration.
const DefaultToastDuration = 4 * time.Second

const maxToasts = 5

// Toast is one transient notice in the corner of the screen.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// expired reports whether the toast has outlived its duration at now.
func (t Toast) expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// remaining returns the time left before t is dismissed.
func (t Toast) remaining(now time.Time) time.Duration {
	left := t.Duration - now.Sub(t.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// kindFor maps a notice severity onto a toast kind.
func kindFor(k notify.Kind) ToastKind {
	switch k {
	case notify.KindSuccess:
		return ToastKindSuccess
	case notify.KindWarning:
		return ToastKindWarning
	case notify.KindError:
		return ToastKindError
	default:
		return ToastKindStatus
	}
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts and implements notify.Sink, so the
// controllers can report straight into it. Notify may be called from any
// goroutine; the watcher reports from its own.
//
// Success and status toasts last the base duration, warnings one and a half
// times it and errors twice it.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
	base   time.Duration
	now    func() time.Time
}

// NewToastManager creates a manager with the given base duration.
func NewToastManager(base time.Duration) *ToastManager {
	if base <= 0 {
		base = DefaultToastDuration
	}
	return &ToastManager{nextID: 1, base: base, now: time.Now}
}

// durationFor returns how long a toast of kind stays up.
func (m *ToastManager) durationFor(kind ToastKind) time.Duration {
	switch kind {
	case ToastKindError:
		return 2 * m.base
	case ToastKindWarning:
		return m.base * 3 / 2
	default:
		return m.base
	}
}

// Notify shows n as a toast.
func (m *ToastManager) Notify(n notify.Notice) {
	m.Add(kindFor(n.Kind), n.Message)
}

// Add shows message and returns the toast id. Only the newest five are kept.
func (m *ToastManager) Add(kind ToastKind, message string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: m.now(),
		Duration:  m.durationFor(kind),
	}
	m.nextID++

	// Newest first.
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return t.ID
}

// Dismiss removes a toast by id.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recent toast, if any.
func (m *ToastManager) DismissNewest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Tick drops expired toasts.
func (m *ToastManager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
}

// Toasts returns a copy of the visible toasts, newest first.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Toast(nil), m.toasts...)
}

// HasToasts reports whether any toast is visible.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// Clear removes every toast.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// =============================================================================
// TICKING
// =============================================================================

// ToastTickMsg drives expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd ticks every 100ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the visible toasts as a right-aligned stack, oldest on top.
func (m *ToastManager) View(width int) string {
	toasts := m.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	now := m.now()
	rendered := make([]string, 0, len(toasts))
	for i := len(toasts) - 1; i >= 0; i-- {
		rendered = append(rendered, RenderToast(toasts[i], width, now))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return stack
}

// RenderToast renders a single toast box.
func RenderToast(t Toast, width int, now time.Time) string {
	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 24 {
		maxWidth = 24
	}

	color, icon := styles.Cyan, styles.StatusIndicators.Info
	switch t.Kind {
	case ToastKindError:
		color, icon = styles.Rose, styles.StatusIndicators.Error
	case ToastKindWarning:
		color, icon = styles.Amber, styles.StatusIndicators.Warning
	case ToastKindSuccess:
		color, icon = styles.Emerald, styles.StatusIndicators.Success
	}

	iconStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	body := iconStyle.Render(icon) + " " + wrapToastText(t.Message, maxWidth-len(icon)-6)
	if secs := int(t.remaining(now).Seconds()); secs > 0 {
		body += "\n" + hintStyle.Render("[x] dismiss  "+strconv.Itoa(secs)+"s")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(body)
}

// wrapToastText word-wraps text to maxWidth columns.
func wrapToastText(text string, maxWidth int) string {
	words := strings.Fields(text)
	if maxWidth <= 0 || len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range words {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case line.Len()+1+len(word) <= maxWidth:
			line.WriteString(" ")
			line.WriteString(word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
