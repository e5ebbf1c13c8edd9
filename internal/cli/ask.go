// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - The "ask" command: one question, one answer.
package cli

import (
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/model"
)

// AskResult is the JSON shape of an answer.
type AskResult struct {
	Query      string   `json:"query"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	SessionID  string   `json:"session_id"`
	Collection string   `json:"collection"`
}

// HandleAsk sends args.Query and prints the answer.
// Unlike the TUI it does not list documents before sending.
func HandleAsk(env *Env, args Args) error {
	c := env.App.Chat
	if args.Collection != "" {
		c.SetCollection(args.Collection)
	}

	cmd, err := c.SendQuery(args.Query)
	if err != nil {
		return Reported(NewValidationError("query", "", err.Error()))
	}
	answered, _ := env.runOnce(cmd).(chat.ChatAnsweredMsg)
	if answered.Err != nil {
		return Reported(answered.Err)
	}

	if args.JSON {
		sources := answered.Response.Sources
		if sources == nil {
			sources = []string{}
		}
		return NewJSONResponse("ask", AskResult{
			Query:      args.Query,
			Answer:     answered.Response.Answer,
			Sources:    sources,
			SessionID:  answered.SessionID,
			Collection: c.Collection(),
		}).Write(env.Out)
	}

	printAnswer(env.Out, newMarkdownRenderer(env.Config), model.Message{
		Role:    model.RoleAssistant,
		Content: answered.Response.Answer,
		Sources: answered.Response.Sources,
	})
	return nil
}
