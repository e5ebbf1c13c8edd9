// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify carries transient user-visible notices from controllers to
// whatever displays them: toasts in the TUI, stderr lines in line mode, a
// recorder in tests.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// Kind is the severity of a notice.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Notice is one transient message.
type Notice struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Sink receives notices. Implementations must not block.
type Sink interface {
	Notify(n Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notice)

// Notify calls f(n).
func (f SinkFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Sink = SinkFunc(func(Notice) {})

func send(s Sink, kind Kind, msg string) {
	if s == nil {
		return
	}
	s.Notify(Notice{Kind: kind, Message: msg, At: time.Now()})
}

// Info sends an informational notice.
func Info(s Sink, msg string) { send(s, KindInfo, msg) }

// Success sends a success notice.
func Success(s Sink, msg string) { send(s, KindSuccess, msg) }

// Warning sends a warning notice.
func Warning(s Sink, msg string) { send(s, KindWarning, msg) }

// Error sends an error notice.
func Error(s Sink, msg string) { send(s, KindError, msg) }

// =============================================================================
// RECORDER
// =============================================================================

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify appends n.
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of everything recorded.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Messages returns the recorded messages of the given kind.
func (r *Recorder) Messages(kind Kind) []string {
	var out []string
	for _, n := range r.Notices() {
		if n.Kind == kind {
			out = append(out, n.Message)
		}
	}
	return out
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Reset forgets everything.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}

// =============================================================================
// WRITER
// =============================================================================

// Writer prints notices as styled lines, for line-mode commands.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify prints n on its own line.
func (w *Writer) Notify(n Notice) {
	var line string
	switch n.Kind {
	case KindSuccess:
		line = styles.RenderSuccess(n.Message)
	case KindWarning:
		line = styles.RenderWarning(n.Message)
	case KindError:
		line = styles.RenderError(n.Message)
	default:
		line = styles.RenderInfo(n.Message)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.w, line)
}
