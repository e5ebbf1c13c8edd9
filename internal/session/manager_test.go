// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// =============================================================================
// ID FORMAT TESTS
// =============================================================================

func TestNewID(t *testing.T) {
	ts := time.UnixMilli(1718000000123)
	if got := NewID(ts); got != "session_1718000000123" {
		t.Errorf("NewID = %q, want session_1718000000123", got)
	}
}

func TestParseID(t *testing.T) {
	ts, ok := ParseID("session_1718000000123")
	if !ok {
		t.Fatal("ParseID rejected a valid id")
	}
	if ts.UnixMilli() != 1718000000123 {
		t.Errorf("ParseID millis = %d", ts.UnixMilli())
	}

	for _, bad := range []string{"", "session_", "sess_1", "session_abc"} {
		if _, ok := ParseID(bad); ok {
			t.Errorf("ParseID(%q) should fail", bad)
		}
	}
}

// =============================================================================
// MANAGER TESTS
// =============================================================================

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if !strings.HasPrefix(m.SessionID(), Prefix) {
		t.Errorf("SessionID should start with %q, got %q", Prefix, m.SessionID())
	}
	if m.StartTime().IsZero() {
		t.Error("StartTime should not be zero")
	}
}

func TestReset_SameMillisecondStillDiffers(t *testing.T) {
	m := NewManager(Config{Clock: fixedClock(time.UnixMilli(5000))})
	first := m.SessionID()
	if first != "session_5000" {
		t.Fatalf("first id = %q", first)
	}

	second := m.Reset()
	if second == first {
		t.Fatalf("Reset returned the previous id %q", first)
	}
	if second != "session_5001" {
		t.Errorf("second id = %q, want session_5001", second)
	}
	if m.SessionID() != second {
		t.Errorf("SessionID = %q, want %q", m.SessionID(), second)
	}
}

func TestReset_UsesClock(t *testing.T) {
	now := time.UnixMilli(1000)
	m := NewManager(Config{Clock: func() time.Time { return now }})

	now = time.UnixMilli(9000)
	if got := m.Reset(); got != "session_9000" {
		t.Errorf("Reset = %q, want session_9000", got)
	}
}

func TestReset_ClockGoingBackwards(t *testing.T) {
	now := time.UnixMilli(9000)
	m := NewManager(Config{Clock: func() time.Time { return now }})

	now = time.UnixMilli(1000)
	if got := m.Reset(); got != "session_9001" {
		t.Errorf("Reset = %q, want session_9001", got)
	}
}

func TestReset_Concurrent(t *testing.T) {
	m := NewManager(Config{Clock: fixedClock(time.UnixMilli(1))})

	var mu sync.Mutex
	seen := map[string]bool{m.SessionID(): true}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := m.Reset()
			mu.Lock()
			defer mu.Unlock()
			if seen[id] {
				t.Errorf("duplicate id %q", id)
			}
			seen[id] = true
		}()
	}
	wg.Wait()
}
