// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/ragdesk/internal/notify"
)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(base time.Duration) (*ToastManager, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	m := NewToastManager(base)
	m.now = clock.now
	return m, clock
}

func TestToastManager_NotifyMapsKinds(t *testing.T) {
	m, _ := newTestManager(time.Second)

	notify.Info(m, "info")
	notify.Success(m, "ok")
	notify.Warning(m, "careful")
	notify.Error(m, "broken")

	toasts := m.Toasts()
	if len(toasts) != 4 {
		t.Fatalf("got %d toasts, want 4", len(toasts))
	}
	want := []struct {
		msg  string
		kind ToastKind
		dur  time.Duration
	}{
		{"broken", ToastKindError, 2 * time.Second},
		{"careful", ToastKindWarning, 1500 * time.Millisecond},
		{"ok", ToastKindSuccess, time.Second},
		{"info", ToastKindStatus, time.Second},
	}
	for i, w := range want {
		if toasts[i].Message != w.msg || toasts[i].Kind != w.kind || toasts[i].Duration != w.dur {
			t.Errorf("toast %d = %+v, want %s/%v/%v", i, toasts[i], w.msg, w.kind, w.dur)
		}
	}
}

func TestToastManager_DefaultDuration(t *testing.T) {
	m := NewToastManager(0)
	m.Add(ToastKindSuccess, "x")
	if got := m.Toasts()[0].Duration; got != DefaultToastDuration {
		t.Errorf("duration = %v, want %v", got, DefaultToastDuration)
	}
}

func TestToastManager_TickExpires(t *testing.T) {
	m, clock := newTestManager(time.Second)
	m.Add(ToastKindSuccess, "short")
	m.Add(ToastKindError, "long")

	clock.advance(1500 * time.Millisecond)
	m.Tick()

	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0].Message != "long" {
		t.Fatalf("after 1.5s got %+v, want only the error", toasts)
	}

	clock.advance(time.Second)
	m.Tick()
	if m.HasToasts() {
		t.Error("error toast should expire after twice the base duration")
	}
}

func TestToastManager_KeepsNewestFive(t *testing.T) {
	m, _ := newTestManager(time.Second)
	for _, s := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		m.Add(ToastKindStatus, s)
	}
	toasts := m.Toasts()
	if len(toasts) != maxToasts {
		t.Fatalf("got %d toasts, want %d", len(toasts), maxToasts)
	}
	if toasts[0].Message != "7" || toasts[4].Message != "3" {
		t.Errorf("unexpected order: first %q last %q", toasts[0].Message, toasts[4].Message)
	}
}

func TestToastManager_Dismiss(t *testing.T) {
	m, _ := newTestManager(time.Second)
	first := m.Add(ToastKindStatus, "first")
	m.Add(ToastKindStatus, "second")
	m.Add(ToastKindStatus, "third")

	m.Dismiss(first)
	m.DismissNewest()

	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0].Message != "second" {
		t.Errorf("got %+v, want only second", toasts)
	}

	m.Clear()
	if m.HasToasts() {
		t.Error("Clear left toasts behind")
	}
	m.DismissNewest() // no-op on empty
}

func TestToastManager_ConcurrentNotify(t *testing.T) {
	m := NewToastManager(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notify.Info(m, "watch")
		}()
	}
	wg.Wait()
	if got := len(m.Toasts()); got != maxToasts {
		t.Errorf("got %d toasts, want %d", got, maxToasts)
	}
}

func TestToastManager_ViewOldestFirst(t *testing.T) {
	m, _ := newTestManager(5 * time.Second)
	m.Add(ToastKindSuccess, "uploaded")
	m.Add(ToastKindError, "failed")

	view := m.View(80)
	up, fail := strings.Index(view, "uploaded"), strings.Index(view, "failed")
	if up < 0 || fail < 0 {
		t.Fatalf("view missing messages:\n%s", view)
	}
	if up > fail {
		t.Error("older toast should be drawn above the newer one")
	}
	if !strings.Contains(view, "[X]") || !strings.Contains(view, "[OK]") {
		t.Errorf("view missing indicators:\n%s", view)
	}
	if !strings.Contains(view, "10s") {
		t.Errorf("error toast should show its countdown:\n%s", view)
	}
}

func TestToastManager_EmptyView(t *testing.T) {
	if got := NewToastManager(time.Second).View(80); got != "" {
		t.Errorf("View() = %q, want empty", got)
	}
}

func TestWrapToastText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 20, "short"},
		{"one two three four", 9, "one two\nthree\nfour"},
		{"unbreakableword", 5, "unbreakableword"},
		{"", 10, ""},
		{"keep as is", 0, "keep as is"},
	}
	for _, tt := range tests {
		if got := wrapToastText(tt.text, tt.width); got != tt.want {
			t.Errorf("wrapToastText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
