// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Prefix starts every session id.
const Prefix = "session_"

// NewID formats the id for t.
func NewID(t time.Time) string {
	return Prefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// ParseID returns the creation time encoded in id.
func ParseID(id string) (time.Time, bool) {
	if !strings.HasPrefix(id, Prefix) {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimPrefix(id, Prefix), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager owns the active session id.
//
// Ids are strictly increasing: when two ids would fall in the same
// millisecond the later one is bumped forward, so Reset never returns the id
// it replaces.
type Manager struct {
	mu sync.Mutex

	sessionID  string
	lastMillis int64
	startTime  time.Time

	clock  func() time.Time
	logger *zap.Logger
}

// Config holds configuration for the session manager.
type Config struct {
	// Clock supplies the current time (default: time.Now)
	Clock func() time.Time

	// Logger records session changes (default: no-op)
	Logger *zap.Logger
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{Clock: time.Now}
}

// NewManager creates a manager with a freshly generated session id.
func NewManager(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	m := &Manager{clock: cfg.Clock, logger: cfg.Logger.Named("session")}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotateLocked()
	return m
}

// SessionID returns the active session id.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// StartTime returns when the active session began.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Reset replaces the active session id and returns the new one.
func (m *Manager) Reset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.sessionID
	m.rotateLocked()
	m.logger.Info("session reset", zap.String("previous", prev), zap.String("session_id", m.sessionID))
	return m.sessionID
}

func (m *Manager) rotateLocked() {
	now := m.clock()
	ms := now.UnixMilli()
	if ms <= m.lastMillis {
		ms = m.lastMillis + 1
	}
	m.lastMillis = ms
	m.startTime = now
	m.sessionID = NewID(time.UnixMilli(ms))
	m.logger.Info("session started", zap.String("session_id", m.sessionID))
}
