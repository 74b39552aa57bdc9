// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Sender identifies who wrote a message.
type Sender string

const (
	FromUser Sender = "user"
	FromBot  Sender = "bot"
)

// Message is one entry in a conversation transcript.
type Message struct {
	From Sender    `json:"from"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Transport delivers a message to the support assistant and returns
// its reply. *apiclient.Client satisfies it.
type Transport interface {
	Chat(ctx context.Context, userID int64, message string) (string, error)
}

// Conversation is the transcript between one user and the assistant.
// It is not safe for concurrent use; the chat widget mutates it only
// from its update loop.
type Conversation struct {
	UserID   int64
	Messages []Message

	transport Transport
	history   *HistoryStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewConversation opens the conversation for userID, restoring any
// saved transcript from history (which may be nil).
func NewConversation(userID int64, transport Transport, history *HistoryStore, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	conversation := &Conversation{
		UserID:    userID,
		transport: transport,
		history:   history,
		logger:    logger,
		now:       time.Now,
	}
	if history != nil {
		conversation.Messages = history.Load(userID)
	}
	return conversation
}

// AddUserMessage appends the user's text. Blank text is ignored and
// reports false.
func (c *Conversation) AddUserMessage(text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}
	message := Message{From: FromUser, Text: text, Time: c.now()}
	c.append(message)
	return message, true
}

// Exchange sends text to the assistant and returns the bot message to
// show. A transport failure becomes a bot message "Error: <reason>",
// returned together with the error so the conversation can continue.
// Exchange does not modify the transcript, so it may run off the
// update loop.
func (c *Conversation) Exchange(ctx context.Context, text string) (Message, error) {
	reply, err := c.transport.Chat(ctx, c.UserID, text)
	if err != nil {
		c.logger.Debug("chat exchange failed", "user_id", c.UserID, "error", err)
		return Message{From: FromBot, Text: "Error: " + err.Error(), Time: c.now()}, err
	}
	return Message{From: FromBot, Text: reply, Time: c.now()}, nil
}

// AddBotMessage appends a reply produced by [Conversation.Exchange].
func (c *Conversation) AddBotMessage(message Message) {
	c.append(message)
}

// Send is the synchronous form: append the user's text, exchange it,
// append the reply. It returns the reply, or false when text was blank.
func (c *Conversation) Send(ctx context.Context, text string) (Message, bool) {
	sent, ok := c.AddUserMessage(text)
	if !ok {
		return Message{}, false
	}
	reply, _ := c.Exchange(ctx, sent.Text)
	c.AddBotMessage(reply)
	return reply, true
}

// LatestBotMessage returns the most recent bot message.
func (c *Conversation) LatestBotMessage() (Message, bool) {
	for index := len(c.Messages) - 1; index >= 0; index-- {
		if c.Messages[index].From == FromBot {
			return c.Messages[index], true
		}
	}
	return Message{}, false
}

// QuickReplies returns the options offered by the latest bot message.
func (c *Conversation) QuickReplies() []QuickReply {
	latest, ok := c.LatestBotMessage()
	if !ok {
		return nil
	}
	return ExtractQuickReplies(latest.Text)
}

// Clear empties the transcript and its saved copy.
func (c *Conversation) Clear() {
	c.Messages = nil
	if c.history != nil {
		if err := c.history.Clear(c.UserID); err != nil {
			c.logger.Debug("clearing chat history failed", "user_id", c.UserID, "error", err)
		}
	}
}

// append adds message and saves the transcript. Save failures are
// logged and otherwise ignored.
func (c *Conversation) append(message Message) {
	c.Messages = append(c.Messages, message)
	if c.history == nil {
		return
	}
	if err := c.history.Save(c.UserID, c.Messages); err != nil {
		c.logger.Debug("saving chat history failed", "user_id", c.UserID, "error", err)
	}
}
