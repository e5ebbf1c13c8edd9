// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts supplies reusable query templates.
//
// Templates come from the backend. When the fetch fails for any reason the
// provider answers with a fixed set of five built-in templates instead of an
// error; templates are a convenience and must never block the user.
package prompts

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/api"
)

const cacheKey = "prompts"

// DefaultTTL is how long a successful fetch is reused.
const DefaultTTL = 10 * time.Minute

var fallback = []api.PromptTemplate{
	{Name: "Chat (Default)", Content: ""},
	{Name: "Smart Summary", Content: "Summarize the following text..."},
	{Name: "MoM", Content: "Generate Minutes of Meeting..."},
	{Name: "Action Table", Content: "Create an action items table..."},
	{Name: "Decision Support Matrix", Content: "Create a decision matrix..."},
}

// Fallback returns the built-in templates used when the backend is unavailable.
func Fallback() []api.PromptTemplate {
	return append([]api.PromptTemplate(nil), fallback...)
}

// Backend is the subset of the API client the provider needs.
type Backend interface {
	ListPrompts(ctx context.Context) ([]api.PromptTemplate, error)
}

// PromptsLoadedMsg completes Load.
type PromptsLoadedMsg struct {
	Prompts  []api.PromptTemplate
	Fallback bool // true when the built-in set was substituted
}

// Config holds the provider's collaborators.
type Config struct {
	Backend Backend
	Logger  *zap.Logger
	Context context.Context

	// TTL of a successful fetch (default DefaultTTL).
	TTL time.Duration
}

// Provider fetches and caches prompt templates.
type Provider struct {
	backend Backend
	logger  *zap.Logger
	ctx     context.Context
	cache   *cache.Cache

	prompts  []api.PromptTemplate
	fallback bool
}

// NewProvider creates a provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Provider{
		backend: cfg.Backend,
		logger:  cfg.Logger.Named("prompts"),
		ctx:     cfg.Context,
		cache:   cache.New(cfg.TTL, 2*cfg.TTL),
		prompts: []api.PromptTemplate{},
	}
}

// List returns the templates. It never fails: on any fetch error it returns
// Fallback(), which is not cached so the next call retries the backend.
func (p *Provider) List(ctx context.Context) []api.PromptTemplate {
	list, _ := p.list(ctx)
	return list
}

func (p *Provider) list(ctx context.Context) ([]api.PromptTemplate, bool) {
	if x, found := p.cache.Get(cacheKey); found {
		return append([]api.PromptTemplate(nil), x.([]api.PromptTemplate)...), false
	}
	list, err := p.backend.ListPrompts(ctx)
	if err != nil {
		p.logger.Warn("failed to fetch prompts, using defaults", zap.Error(err))
		return Fallback(), true
	}
	p.cache.Set(cacheKey, list, cache.DefaultExpiration)
	return append([]api.PromptTemplate(nil), list...), false
}

// Invalidate forgets the cached list.
func (p *Provider) Invalidate() {
	p.cache.Delete(cacheKey)
}

// Load fetches the templates for the UI.
func (p *Provider) Load() tea.Cmd {
	ctx := p.ctx
	return func() tea.Msg {
		list, usedFallback := p.list(ctx)
		return PromptsLoadedMsg{Prompts: list, Fallback: usedFallback}
	}
}

// Update applies a PromptsLoadedMsg.
func (p *Provider) Update(msg tea.Msg) tea.Cmd {
	if loaded, ok := msg.(PromptsLoadedMsg); ok {
		p.prompts = loaded.Prompts
		p.fallback = loaded.Fallback
	}
	return nil
}

// Prompts returns the templates last applied by Update.
func (p *Provider) Prompts() []api.PromptTemplate {
	return append([]api.PromptTemplate(nil), p.prompts...)
}

// UsingFallback reports whether Prompts is the built-in set.
func (p *Provider) UsingFallback() bool { return p.fallback }

// Find looks a loaded template up by name, ignoring case.
func (p *Provider) Find(name string) (api.PromptTemplate, bool) {
	for _, t := range p.prompts {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return api.PromptTemplate{}, false
}
