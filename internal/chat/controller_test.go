// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/apitest"
	"github.com/jeranaias/ragdesk/internal/model"
	"github.com/jeranaias/ragdesk/internal/notify"
	"github.com/jeranaias/ragdesk/internal/session"
)

type backendFunc func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)

func (f backendFunc) Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	return f(ctx, req)
}

func newServerController(t *testing.T) (*Controller, *apitest.Server, *notify.Recorder) {
	t.Helper()
	srv := apitest.NewServer(t)
	rec := &notify.Recorder{}
	ctrl := NewController(Config{Backend: api.NewClient(srv.URL), Notices: rec})
	return ctrl, srv, rec
}

// deliver runs cmd and hands its message to the controller.
func deliver(c *Controller, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	c.Update(cmd())
}

func roles(msgs []model.Message) []model.Role {
	out := make([]model.Role, len(msgs))
	for i, m := range msgs {
		out[i] = m.Role
	}
	return out
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_SuccessAddsTwoMessages(t *testing.T) {
	ctrl, srv, _ := newServerController(t)
	srv.SetAnswer("Use the north stairwell.", "manual.pdf#p4", "manual.pdf#p5")

	ctrl.SetCollection("ops")
	ctrl.SetQuery("What is the evacuation procedure?")
	before := len(ctrl.Messages())

	cmd := ctrl.Send()
	require.NotNil(t, cmd)
	deliver(ctrl, cmd)

	msgs := ctrl.Messages()
	require.Len(t, msgs, before+2)
	assert.Equal(t, []model.Role{model.RoleUser, model.RoleAssistant}, roles(msgs))
	assert.Equal(t, "What is the evacuation procedure?", msgs[0].Content)
	assert.Equal(t, "Use the north stairwell.", msgs[1].Content)
	assert.Equal(t, []string{"manual.pdf#p4", "manual.pdf#p5"}, msgs[1].Sources)
	assert.Zero(t, ctrl.Pending())

	reqs := srv.RequestsFor(apitest.RouteChat)
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]interface{}{
		"query":      "What is the evacuation procedure?",
		"collection": "ops",
		"session_id": ctrl.SessionID(),
	}, reqs[0].JSON)
}

func TestSend_OptimisticAppendBeforeResponse(t *testing.T) {
	ctrl, srv, _ := newServerController(t)
	ctrl.SetQuery("hello")

	cmd := ctrl.Send()

	msgs := ctrl.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "", ctrl.Query(), "input is cleared before the request resolves")
	assert.Equal(t, 1, ctrl.Pending())
	assert.Zero(t, srv.Count(apitest.RouteChat), "nothing is sent until the command runs")

	deliver(ctrl, cmd)
	assert.Len(t, ctrl.Messages(), 2)
}

func TestSend_FailureRollsBack(t *testing.T) {
	ctrl, srv, rec := newServerController(t)
	deliver(ctrl, mustSend(t, ctrl, "first question"))
	require.Len(t, ctrl.Messages(), 2)

	srv.Fail(apitest.RouteChat, apitest.Failure{Status: 503, Detail: "Model is loading"})
	deliver(ctrl, mustSend(t, ctrl, "second question"))

	msgs := ctrl.Messages()
	require.Len(t, msgs, 2, "failed send is net zero")
	assert.Equal(t, "first question", msgs[0].Content)
	assert.Equal(t, []string{"Model is loading"}, rec.Messages(notify.KindError))
	assert.Zero(t, ctrl.Pending())
}

func TestSend_FailureGenericMessage(t *testing.T) {
	ctrl, srv, rec := newServerController(t)
	srv.Fail(apitest.RouteChat, apitest.Failure{Status: 500})

	deliver(ctrl, mustSend(t, ctrl, "q"))

	assert.Empty(t, ctrl.Messages())
	assert.Equal(t, []string{MsgSendFailed}, rec.Messages(notify.KindError))
}

func TestSend_TimeoutRollsBack(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Fail(apitest.RouteChat, apitest.Failure{Hang: true})
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	rec := &notify.Recorder{}
	ctrl := NewController(Config{Backend: client, Notices: rec})

	deliver(ctrl, mustSend(t, ctrl, "q"))

	assert.Empty(t, ctrl.Messages())
	assert.Zero(t, ctrl.Pending())
	assert.Equal(t, []string{MsgSendFailed}, rec.Messages(notify.KindError))
}

func TestSend_EmptyQueryRejected(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		ctrl, srv, rec := newServerController(t)
		ctrl.SetQuery(q)

		cmd, err := ctrl.SendQuery(q)
		assert.Nil(t, cmd)
		assert.True(t, errors.Is(err, ErrEmptyQuery))
		assert.Empty(t, ctrl.Messages())
		assert.Equal(t, q, ctrl.Query(), "rejected input is left alone")
		assert.Zero(t, srv.Count(apitest.RouteChat))
		assert.Equal(t, []string{MsgEmptyQuery}, rec.Messages(notify.KindWarning))
	}
}

// =============================================================================
// COLLECTION FILTER TESTS
// =============================================================================

func TestCollectionFilter(t *testing.T) {
	assert.Nil(t, CollectionFilter("all"))

	for _, name := range []string{"safety_manual", "All", "default", ""} {
		got := CollectionFilter(name)
		require.NotNil(t, got, name)
		assert.Equal(t, name, *got)
	}
}

func TestSend_AllCollectionsSendsNull(t *testing.T) {
	ctrl, srv, _ := newServerController(t)
	assert.Equal(t, AllCollections, ctrl.Collection())

	deliver(ctrl, mustSend(t, ctrl, "q"))

	body := srv.RequestsFor(apitest.RouteChat)[0].JSON
	v, present := body["collection"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestSetCollection_EmptyMeansAll(t *testing.T) {
	ctrl, _, _ := newServerController(t)
	ctrl.SetCollection("ops")
	ctrl.SetCollection("")
	assert.Equal(t, AllCollections, ctrl.Collection())
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestClear_NewSessionAndEmptyHistory(t *testing.T) {
	ctrl, srv, rec := newServerController(t)
	deliver(ctrl, mustSend(t, ctrl, "q1"))
	before := ctrl.SessionID()

	ctrl.Clear()

	conv := ctrl.Conversation()
	assert.True(t, conv.IsEmpty())
	assert.NotEqual(t, before, conv.SessionID)
	assert.True(t, strings.HasPrefix(conv.SessionID, session.Prefix))
	assert.Equal(t, []string{MsgChatCleared}, rec.Messages(notify.KindSuccess))

	deliver(ctrl, mustSend(t, ctrl, "q2"))
	reqs := srv.RequestsFor(apitest.RouteChat)
	assert.Equal(t, before, reqs[0].JSON["session_id"])
	assert.Equal(t, conv.SessionID, reqs[1].JSON["session_id"])
}

func TestClear_RepeatedInSameMillisecond(t *testing.T) {
	mgr := session.NewManager(session.Config{Clock: func() time.Time { return time.UnixMilli(42) }})
	ctrl := NewController(Config{Sessions: mgr})

	seen := map[string]bool{ctrl.SessionID(): true}
	for i := 0; i < 5; i++ {
		ctrl.Clear()
		assert.False(t, seen[ctrl.SessionID()], "session id reused")
		seen[ctrl.SessionID()] = true
	}
}

func TestSend_CarriesSessionAtSendTime(t *testing.T) {
	ctrl, srv, _ := newServerController(t)
	original := ctrl.SessionID()

	cmd := mustSend(t, ctrl, "q")
	ctrl.Clear()
	deliver(ctrl, cmd)

	assert.Equal(t, original, srv.RequestsFor(apitest.RouteChat)[0].JSON["session_id"])
}

func TestClear_WhilePendingFailure(t *testing.T) {
	ctrl, srv, _ := newServerController(t)
	srv.Fail(apitest.RouteChat, apitest.Failure{Status: 500})

	cmd := mustSend(t, ctrl, "q")
	ctrl.Clear()
	deliver(ctrl, cmd)

	assert.Empty(t, ctrl.Messages())
	assert.Zero(t, ctrl.Pending())
}

// =============================================================================
// OVERLAP TESTS
// =============================================================================

func TestOverlappingSends_LastResolvedWins(t *testing.T) {
	ctrl, _, _ := newServerController(t)

	a := mustSend(t, ctrl, "A")
	b := mustSend(t, ctrl, "B")
	assert.Equal(t, 2, ctrl.Pending())

	deliver(ctrl, b)
	deliver(ctrl, a)

	var contents []string
	for _, m := range ctrl.Messages() {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"A", "B", "Answer to: B", "Answer to: A"}, contents)
}

func TestOverlappingSends_FailureRemovesOnlyItsTurn(t *testing.T) {
	backend := backendFunc(func(_ context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
		if req.Query == "A" {
			return nil, &api.ClientError{Type: api.ErrTypeBackend, Status: 500, Message: "chat rejected"}
		}
		return &api.ChatResponse{Answer: "ok " + req.Query, Sources: []string{}}, nil
	})
	ctrl := NewController(Config{Backend: backend})

	a := mustSend(t, ctrl, "A")
	b := mustSend(t, ctrl, "B")
	deliver(ctrl, b)
	deliver(ctrl, a)

	msgs := ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "B", msgs[0].Content)
	assert.Equal(t, "ok B", msgs[1].Content)
}

func TestCanceledSendIsQuiet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &notify.Recorder{}
	backend := backendFunc(func(ctx context.Context, _ api.ChatRequest) (*api.ChatResponse, error) {
		return nil, ctx.Err()
	})
	ctrl := NewController(Config{Backend: backend, Notices: rec, Context: ctx})

	cmd := mustSend(t, ctrl, "q")
	cancel()
	deliver(ctrl, cmd)

	assert.Empty(t, ctrl.Messages())
	assert.Empty(t, rec.Messages(notify.KindError))
}

func mustSend(t *testing.T, c *Controller, q string) tea.Cmd {
	t.Helper()
	cmd, err := c.SendQuery(q)
	require.NoError(t, err)
	return cmd
}
