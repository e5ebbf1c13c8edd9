// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch uploads documents dropped into an inbox directory.
//
// The watcher only finds files; it never talks to the backend itself. Each
// settled file is handed to a callback on the goroutine that called Run, so
// the callback may drive the registry controller directly.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/ragdesk/internal/registry"
)

// Defaults for Config.
const (
	DefaultDebounce         = 500 * time.Millisecond
	DefaultUploadsPerMinute = 30
)

// Handler receives a settled file. A returned error is logged and the
// watcher carries on.
type Handler func(path string) error

// Config configures a Watcher.
type Config struct {
	Dir string

	// Debounce is how long a file must stay unchanged before it is handled.
	Debounce time.Duration

	// UploadsPerMinute paces the handler (burst of one).
	UploadsPerMinute int

	// IncludeExisting handles supported files already present at start.
	IncludeExisting bool

	Logger *zap.Logger
}

// =============================================================================
// WATCHER
// =============================================================================

// Watcher reports supported files created or rewritten in one directory.
// Subdirectories are not watched.
type Watcher struct {
	dir      string
	debounce time.Duration
	existing bool
	limiter  *rate.Limiter
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time // path -> last change
	handled map[string]stamp
}

// stamp identifies one version of a file.
type stamp struct {
	size    int64
	modTime time.Time
}

// New checks that cfg.Dir is a directory and fills in defaults.
func New(cfg Config) (*Watcher, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", cfg.Dir)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.UploadsPerMinute <= 0 {
		cfg.UploadsPerMinute = DefaultUploadsPerMinute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Watcher{
		dir:      cfg.Dir,
		debounce: cfg.Debounce,
		existing: cfg.IncludeExisting,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.UploadsPerMinute)), 1),
		logger:   cfg.Logger.Named("watch"),
		pending:  make(map[string]time.Time),
		handled:  make(map[string]stamp),
	}, nil
}

// Run watches until ctx is done, calling handle for every settled file.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))

	if w.existing {
		w.markExisting(time.Now().Add(-w.debounce))
	}

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.touch(event.Name, time.Now())
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				if err := w.limiter.Wait(ctx); err != nil {
					return nil
				}
				w.process(path, handle)
			}
		}
	}
}

func (w *Watcher) tick() time.Duration {
	if t := w.debounce / 4; t > 10*time.Millisecond {
		return t
	}
	return 10 * time.Millisecond
}

// touch records a change to path if it is an uploadable document.
func (w *Watcher) touch(path string, at time.Time) {
	if registry.ValidateFile(path) != nil {
		return
	}
	w.mu.Lock()
	w.pending[path] = at
	w.mu.Unlock()
}

func (w *Watcher) markExisting(at time.Time) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("scan failed", zap.Error(err))
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			w.touch(filepath.Join(w.dir, entry.Name()), at)
		}
	}
}

// due removes and returns the paths unchanged for at least the debounce
// interval, in name order.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// process hands path to handle unless this exact version was already handled.
func (w *Watcher) process(path string, handle Handler) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	st := stamp{size: info.Size(), modTime: info.ModTime()}
	if w.handled[path] == st {
		return
	}
	w.handled[path] = st

	log := w.logger.With(zap.String("file", filepath.Base(path)))
	if err := handle(path); err != nil {
		log.Warn("upload not started", zap.Error(err))
		return
	}
	log.Info("file picked up")
}
