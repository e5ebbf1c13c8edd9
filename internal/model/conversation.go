// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Conversation is a session id together with its ordered history.
// It is a value type; Append and Remove return updated copies that never
// share a backing array with the receiver.
type Conversation struct {
	SessionID string
	Messages  []Message
}

// NewConversation starts an empty conversation for sessionID.
func NewConversation(sessionID string) Conversation {
	return Conversation{SessionID: sessionID, Messages: []Message{}}
}

// Append returns c with msg added at the end.
func (c Conversation) Append(msg Message) Conversation {
	msgs := make([]Message, len(c.Messages), len(c.Messages)+1)
	copy(msgs, c.Messages)
	c.Messages = append(msgs, msg)
	return c
}

// Remove returns c without the message with the given id, and whether it was found.
func (c Conversation) Remove(id string) (Conversation, bool) {
	for i, m := range c.Messages {
		if m.ID != id {
			continue
		}
		msgs := make([]Message, 0, len(c.Messages)-1)
		msgs = append(msgs, c.Messages[:i]...)
		msgs = append(msgs, c.Messages[i+1:]...)
		c.Messages = msgs
		return c, true
	}
	return c, false
}

// Len returns the number of messages.
func (c Conversation) Len() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Last returns the newest message.
func (c Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// History returns a copy of the messages.
func (c Conversation) History() []Message {
	return append([]Message{}, c.Messages...)
}
