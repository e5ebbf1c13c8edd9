// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragdesk/internal/apitest"
	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/config"
	"github.com/jeranaias/ragdesk/internal/notify"
)

type collector struct {
	mu    sync.Mutex
	paths []string
}

func (c *collector) handle(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, filepath.Base(path))
	return nil
}

func (c *collector) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func start(t *testing.T, cfg Config, handle Handler) {
	t.Helper()
	w, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, handle) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	// Give fsnotify a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
}

func TestNew_RejectsMissingDir(t *testing.T) {
	_, err := New(Config{Dir: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(Config{Dir: file})
	assert.Error(t, err)
}

func TestDue_Debounces(t *testing.T) {
	w, err := New(Config{Dir: t.TempDir(), Debounce: time.Second})
	require.NoError(t, err)
	base := time.Unix(1000, 0)

	w.touch("/inbox/b.pdf", base)
	w.touch("/inbox/a.txt", base)
	w.touch("/inbox/photo.png", base)
	w.touch("/inbox/b.pdf", base.Add(800*time.Millisecond))

	assert.Equal(t, []string{"/inbox/a.txt"}, w.due(base.Add(time.Second)))
	assert.Empty(t, w.due(base.Add(1500*time.Millisecond)))
	assert.Equal(t, []string{"/inbox/b.pdf"}, w.due(base.Add(2*time.Second)))
}

func TestRun_PicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	start(t, Config{Dir: dir, Debounce: 50 * time.Millisecond, UploadsPerMinute: 6000}, c.handle)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644))

	require.Eventually(t, func() bool { return len(c.names()) == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{"notes.txt"}, c.names())
}

func TestRun_BurstOfWritesHandledOnce(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	start(t, Config{Dir: dir, Debounce: 150 * time.Millisecond, UploadsPerMinute: 6000}, c.handle)

	path := filepath.Join(dir, "report.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("chunk ")
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool { return len(c.names()) == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []string{"report.docx"}, c.names())
}

func TestRun_IncludeExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.pdf"), []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("#"), 0o644))

	c := &collector{}
	start(t, Config{Dir: dir, Debounce: 50 * time.Millisecond, IncludeExisting: true, UploadsPerMinute: 6000}, c.handle)

	require.Eventually(t, func() bool { return len(c.names()) == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"old.pdf"}, c.names())
}

func TestUploader_RefreshesRegistry(t *testing.T) {
	srv := apitest.NewServer(t)
	cfg := config.Default()
	cfg.Backend.URL = srv.URL
	rec := &notify.Recorder{}
	a := app.New(app.Options{Config: cfg, Notices: rec})
	t.Cleanup(a.Close)

	path := filepath.Join(t.TempDir(), "policy.txt")
	require.NoError(t, os.WriteFile(path, []byte("policy"), 0o644))

	require.NoError(t, Uploader(a, "inbox")(path))

	docs := a.Registry.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "inbox", docs[0].Collection)
	assert.Equal(t, []string{"inbox"}, a.Registry.Collections())
	assert.Equal(t, 1, srv.Count(apitest.RouteDocuments))
	assert.Equal(t, 1, srv.Count(apitest.RouteCollections))

	assert.Error(t, Uploader(a, "inbox")(filepath.Join(t.TempDir(), "gone.txt")))
}
