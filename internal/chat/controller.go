// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/model"
	"github.com/jeranaias/ragdesk/internal/notify"
	"github.com/jeranaias/ragdesk/internal/session"
)

// AllCollections is the filter value meaning "search every collection".
const AllCollections = "all"

// User-visible notices.
const (
	MsgSendFailed  = "Failed to get response"
	MsgChatCleared = "Chat cleared"
	MsgEmptyQuery  = "Type a question first"
)

// ErrEmptyQuery rejects a blank or whitespace-only query.
var ErrEmptyQuery = errors.New("query is empty")

// Backend is the subset of the API client the chat controller needs.
type Backend interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// CollectionFilter maps the selected collection onto the request field.
// AllCollections becomes nil (no filter); anything else passes through.
func CollectionFilter(selected string) *string {
	if selected == AllCollections {
		return nil
	}
	return &selected
}

// ChatAnsweredMsg completes one send.
type ChatAnsweredMsg struct {
	TurnID    string // id of the optimistic user message
	SessionID string
	Response  *api.ChatResponse
	Err       error
}

// Config holds the chat controller's collaborators.
type Config struct {
	Backend  Backend
	Sessions *session.Manager
	Notices  notify.Sink
	Logger   *zap.Logger

	// Context bounds every request; cancel it to abandon in-flight calls.
	Context context.Context

	// Collection is the initial filter (default AllCollections).
	Collection string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the message history of the active session.
//
// Send appends the user message immediately and clears the input; the
// returned command performs the request. If it fails, the undo recorded for
// that turn removes exactly the message it added. Overlapping sends are not
// queued: each resolves independently and the last to resolve is the last
// appended.
type Controller struct {
	backend  Backend
	sessions *session.Manager
	notices  notify.Sink
	logger   *zap.Logger
	ctx      context.Context

	conv       model.Conversation
	query      string
	collection string

	// inflight maps a turn id to the undo for its optimistic append.
	inflight map[string]func()
}

// NewController creates a chat controller bound to the manager's current session.
func NewController(cfg Config) *Controller {
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewManager(session.DefaultConfig())
	}
	if cfg.Notices == nil {
		cfg.Notices = notify.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Collection == "" {
		cfg.Collection = AllCollections
	}
	return &Controller{
		backend:    cfg.Backend,
		sessions:   cfg.Sessions,
		notices:    cfg.Notices,
		logger:     cfg.Logger.Named("chat"),
		ctx:        cfg.Context,
		conv:       model.NewConversation(cfg.Sessions.SessionID()),
		collection: cfg.Collection,
		inflight:   make(map[string]func()),
	}
}

// Messages returns a copy of the history.
func (c *Controller) Messages() []model.Message { return c.conv.History() }

// Conversation returns the session id and history as one value.
func (c *Controller) Conversation() model.Conversation {
	conv := c.conv
	conv.Messages = conv.History()
	return conv
}

// SessionID returns the active session id.
func (c *Controller) SessionID() string { return c.conv.SessionID }

// Query returns the pending input text.
func (c *Controller) Query() string { return c.query }

// SetQuery replaces the pending input text.
func (c *Controller) SetQuery(q string) { c.query = q }

// Collection returns the selected collection filter.
func (c *Controller) Collection() string { return c.collection }

// SetCollection selects the collection filter; "" selects AllCollections.
func (c *Controller) SetCollection(name string) {
	if name == "" {
		name = AllCollections
	}
	c.collection = name
}

// Pending returns the number of sends awaiting an answer.
func (c *Controller) Pending() int { return len(c.inflight) }

// Send sends the pending input text.
func (c *Controller) Send() tea.Cmd {
	cmd, _ := c.SendQuery(c.query)
	return cmd
}

// SendQuery appends q as a user message, clears the input and returns the
// command that asks the backend.
func (c *Controller) SendQuery(q string) (tea.Cmd, error) {
	if strings.TrimSpace(q) == "" {
		notify.Warning(c.notices, MsgEmptyQuery)
		return nil, ErrEmptyQuery
	}

	msg := model.NewUserMessage(q)
	c.conv = c.conv.Append(msg)
	c.query = ""

	turnID := msg.ID
	c.inflight[turnID] = func() {
		c.conv, _ = c.conv.Remove(turnID)
	}

	req := api.ChatRequest{
		Query:      q,
		Collection: CollectionFilter(c.collection),
		SessionID:  c.conv.SessionID,
	}
	ctx := c.ctx
	c.logger.Debug("sending query", zap.String("session_id", req.SessionID), zap.String("collection", c.collection))

	return func() tea.Msg {
		resp, err := c.backend.Chat(ctx, req)
		return ChatAnsweredMsg{TurnID: turnID, SessionID: req.SessionID, Response: resp, Err: err}
	}, nil
}

// Clear empties the history and starts a new session in one step.
func (c *Controller) Clear() {
	prev := c.conv.SessionID
	c.conv = model.NewConversation(c.sessions.Reset())
	c.logger.Info("chat cleared", zap.String("previous", prev), zap.String("session_id", c.conv.SessionID))
	notify.Success(c.notices, MsgChatCleared)
}

// Update applies a ChatAnsweredMsg. Other messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	answered, ok := msg.(ChatAnsweredMsg)
	if !ok {
		return nil
	}
	undo, tracked := c.inflight[answered.TurnID]
	delete(c.inflight, answered.TurnID)

	if answered.Err != nil {
		if tracked {
			undo()
		}
		c.logger.Warn("chat failed", zap.String("session_id", answered.SessionID), zap.Error(answered.Err))
		if !api.IsCanceled(answered.Err) {
			notify.Error(c.notices, api.UserMessage(answered.Err, MsgSendFailed))
		}
		return nil
	}

	c.conv = c.conv.Append(model.NewAssistantMessage(answered.Response.Answer, answered.Response.Sources))
	c.logger.Debug("answer received", zap.Int("sources", len(answered.Response.Sources)))
	return nil
}
