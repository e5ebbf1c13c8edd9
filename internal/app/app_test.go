// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/apitest"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/config"
	"github.com/jeranaias/ragdesk/internal/notify"
)

func newTestApp(t *testing.T) (*App, *apitest.Server, *notify.Recorder) {
	t.Helper()
	srv := apitest.NewServer(t)
	cfg := config.Default()
	cfg.Backend.URL = srv.URL
	rec := &notify.Recorder{}
	a := New(Options{Config: cfg, Notices: rec})
	t.Cleanup(a.Close)
	return a, srv, rec
}

func TestInit_LoadsEverything(t *testing.T) {
	a, srv, _ := newTestApp(t)
	srv.Seed(
		api.Document{Filename: "manual.pdf", Collection: "ops", FileSize: 2048},
		api.Document{Filename: "notes.txt", Collection: "hr", FileSize: 10},
	)

	a.Drive(a.Init())

	assert.Len(t, a.Registry.Documents(), 2)
	assert.Equal(t, []string{"hr", "ops"}, a.Registry.Collections())
	assert.False(t, a.Registry.Loading())
	assert.Equal(t, apitest.DefaultPrompts, a.Prompts.Prompts())
	assert.False(t, a.Prompts.UsingFallback())
}

func TestAsk_RefusedWithoutDocuments(t *testing.T) {
	a, srv, rec := newTestApp(t)
	a.Drive(a.Init())

	cmd, err := a.Ask("anything")
	assert.Nil(t, cmd)
	assert.True(t, errors.Is(err, ErrNoDocuments))
	assert.Equal(t, []string{MsgNoDocuments}, rec.Messages(notify.KindWarning))
	assert.Zero(t, srv.Count(apitest.RouteChat))
}

func TestAsk_RefusedWhilePending(t *testing.T) {
	a, srv, _ := newTestApp(t)
	srv.Seed(api.Document{Filename: "a.txt", Collection: "default"})
	a.Drive(a.Init())

	first, err := a.Ask("one")
	require.NoError(t, err)

	_, err = a.Ask("two")
	assert.True(t, errors.Is(err, ErrBusy))

	a.Drive(first)
	assert.Len(t, a.Chat.Messages(), 2)
	assert.NoError(t, a.CanSend())
}

func TestUploadThenAsk(t *testing.T) {
	a, srv, rec := newTestApp(t)
	srv.SetChunks(3)
	a.Drive(a.Init())

	path := filepath.Join(t.TempDir(), "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("stairs are to the north"), 0o644))
	require.NoError(t, a.Registry.SelectFile(path))
	a.Registry.SetCollectionInput("ops")
	a.Drive(a.Registry.Upload())

	require.Len(t, a.Registry.Documents(), 1)
	assert.Equal(t, []string{"ops"}, a.Registry.Collections())
	assert.Equal(t, []string{"guide.txt uploaded successfully! (3 chunks indexed)"}, rec.Messages(notify.KindSuccess))

	a.Chat.SetCollection("ops")
	cmd, err := a.Ask("where are the stairs?")
	require.NoError(t, err)
	a.Drive(cmd)

	msgs := a.Chat.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Answer to: where are the stairs?", msgs[1].Content)
	assert.Equal(t, "ops", srv.RequestsFor(apitest.RouteChat)[0].JSON["collection"])
}

func TestCollectionVanishes_FilterFallsBackToAll(t *testing.T) {
	a, srv, _ := newTestApp(t)
	srv.Seed(api.Document{ID: "1", Filename: "a.txt", Collection: "ops"},
		api.Document{ID: "2", Filename: "b.txt", Collection: "hr"})
	a.Drive(a.Init())

	a.Chat.SetCollection("ops")
	a.Drive(a.Registry.Delete("1"))

	assert.Equal(t, []string{"hr"}, a.Registry.Collections())
	assert.Equal(t, chat.AllCollections, a.Chat.Collection())
}

func TestCollectionStillPresent_FilterKept(t *testing.T) {
	a, srv, _ := newTestApp(t)
	srv.Seed(api.Document{ID: "1", Filename: "a.txt", Collection: "ops"},
		api.Document{ID: "2", Filename: "b.txt", Collection: "ops"})
	a.Drive(a.Init())

	a.Chat.SetCollection("ops")
	a.Drive(a.Registry.Delete("1"))

	assert.Equal(t, "ops", a.Chat.Collection())
}

func TestApplyPrompt(t *testing.T) {
	a, srv, _ := newTestApp(t)
	srv.SetPrompts(api.PromptTemplate{Name: "Summarize", Content: "Summarize the key points."})
	a.Drive(a.Init())

	assert.True(t, a.ApplyPrompt("summarize"))
	assert.Equal(t, "Summarize the key points.", a.Chat.Query())

	assert.False(t, a.ApplyPrompt("missing"))
	assert.Equal(t, "Summarize the key points.", a.Chat.Query())
}

func TestClose_CancelsQuietly(t *testing.T) {
	a, srv, rec := newTestApp(t)
	srv.Fail(apitest.RouteDocuments, apitest.Failure{Hang: true})

	cmd := a.Registry.LoadDocuments()
	a.Close()
	a.Drive(cmd)

	assert.False(t, a.Registry.Loading())
	assert.Empty(t, rec.Messages(notify.KindError))
}

func TestDrive_Nil(t *testing.T) {
	a, _, _ := newTestApp(t)
	assert.NotPanics(t, func() { a.Drive(nil) })
}
