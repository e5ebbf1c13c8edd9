// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app composes the registry, chat and prompt controllers into one
// state machine that a front end drives.
//
// The Bubble Tea program calls Update from its event loop; line-mode commands
// call Drive, which runs commands synchronously and feeds their results back
// in. Either way only one goroutine mutates controller state.
package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/config"
	"github.com/jeranaias/ragdesk/internal/notify"
	"github.com/jeranaias/ragdesk/internal/prompts"
	"github.com/jeranaias/ragdesk/internal/registry"
	"github.com/jeranaias/ragdesk/internal/session"
)

// MsgNoDocuments is shown when sending with an empty registry.
const MsgNoDocuments = "Upload a document first"

var (
	// ErrNoDocuments refuses a send while no document exists.
	ErrNoDocuments = errors.New("no documents uploaded")

	// ErrBusy refuses a send while another is pending.
	ErrBusy = errors.New("a question is already pending")
)

// Backend is everything the controllers need from the API client.
type Backend interface {
	registry.Backend
	chat.Backend
	prompts.Backend
}

// Options configures New.
type Options struct {
	Config  *config.Config
	Backend Backend // default: api client built from Config
	Notices notify.Sink
	Logger  *zap.Logger
	Session session.Config
}

// App owns the controllers.
type App struct {
	Registry *registry.Controller
	Chat     *chat.Controller
	Prompts  *prompts.Provider
	Sessions *session.Manager

	cfg     *config.Config
	notices notify.Sink
	logger  *zap.Logger
	cancel  context.CancelFunc
}

// NewClient builds the API client described by cfg.
func NewClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.Backend.URL,
		Timeout:           cfg.Timeout(),
		UploadTimeout:     cfg.UploadTimeout(),
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             int(cfg.Backend.RequestsPerSecond),
		Logger:            logger,
	})
}

// New wires the controllers. Close cancels every request still in flight.
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notices := opts.Notices
	if notices == nil {
		notices = notify.Discard
	}
	backend := opts.Backend
	if backend == nil {
		backend = NewClient(cfg, logger)
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	sessions := session.NewManager(opts.Session)

	reg := registry.NewController(registry.Config{
		Backend:      backend,
		Notices:      notices,
		Logger:       logger,
		Context:      ctx,
		MaxFileBytes: cfg.MaxFileBytes(),
	})
	reg.SetCollectionInput(cfg.Upload.DefaultCollection)

	return &App{
		Registry: reg,
		Chat: chat.NewController(chat.Config{
			Backend:    backend,
			Sessions:   sessions,
			Notices:    notices,
			Logger:     logger,
			Context:    ctx,
			Collection: cfg.Chat.DefaultCollection,
		}),
		Prompts: prompts.NewProvider(prompts.Config{
			Backend: backend,
			Logger:  logger,
			Context: ctx,
			TTL:     cfg.PromptCacheTTL(),
		}),
		Sessions: sessions,
		cfg:      cfg,
		notices:  notices,
		logger:   logger,
		cancel:   cancel,
	}
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Close abandons in-flight requests.
func (a *App) Close() { a.cancel() }

// Init loads documents, collections and prompt templates.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.Registry.Refresh(), a.Prompts.Load())
}

// Update routes a completion message to its controller.
func (a *App) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case registry.CollectionsLoadedMsg:
		cmd := a.Registry.Update(msg)
		a.syncCollectionFilter()
		return cmd
	case registry.DocumentsLoadedMsg, registry.UploadFinishedMsg, registry.DeleteFinishedMsg:
		return a.Registry.Update(msg)
	case chat.ChatAnsweredMsg:
		return a.Chat.Update(msg)
	case prompts.PromptsLoadedMsg:
		return a.Prompts.Update(msg)
	}
	return nil
}

// syncCollectionFilter falls back to every collection when the selected one
// no longer exists.
func (a *App) syncCollectionFilter() {
	selected := a.Chat.Collection()
	if selected == chat.AllCollections {
		return
	}
	for _, name := range a.Registry.Collections() {
		if name == selected {
			return
		}
	}
	a.logger.Debug("selected collection vanished", zap.String("collection", selected))
	a.Chat.SetCollection(chat.AllCollections)
}

// CanSend reports why sending is currently disallowed, if it is.
func (a *App) CanSend() error {
	if !a.Registry.HasDocuments() {
		return ErrNoDocuments
	}
	if a.Chat.Pending() > 0 {
		return ErrBusy
	}
	return nil
}

// Ask sends q when sending is allowed. A refusal is reported as a notice.
func (a *App) Ask(q string) (tea.Cmd, error) {
	if err := a.CanSend(); err != nil {
		if errors.Is(err, ErrNoDocuments) {
			notify.Warning(a.notices, MsgNoDocuments)
		}
		return nil, err
	}
	return a.Chat.SendQuery(q)
}

// ApplyPrompt replaces the chat input with the named template's content.
func (a *App) ApplyPrompt(name string) bool {
	tmpl, ok := a.Prompts.Find(name)
	if !ok {
		return false
	}
	a.Chat.SetQuery(tmpl.Content)
	return true
}

// Drive runs cmd and every follow-up synchronously. Batches run in order.
func (a *App) Drive(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, sub := range msg {
			a.Drive(sub)
		}
	default:
		a.Drive(a.Update(msg))
	}
}
