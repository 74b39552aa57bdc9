// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/chat"
	"github.com/segmento/resolve/lib/chatui"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/session"
	"github.com/segmento/resolve/lib/tui"
)

type chatParams struct {
	cli.Connection
	cli.JSONOutput
	UserID  int64 `json:"user_id" flag:"user-id" desc:"chat as this user ID (default: the logged-in user, or chat.default_user_id)"`
	History bool  `json:"history" flag:"history" desc:"print the saved conversation and exit"`
	Clear   bool  `json:"clear"   flag:"clear"   desc:"forget the saved conversation before starting"`
}

// sendResult is the --json output of a one-shot send.
type sendResult struct {
	UserID       int64             `json:"user_id"`
	Reply        string            `json:"reply"`
	QuickReplies []chat.QuickReply `json:"quick_replies"`
}

// Command returns the "chat" command.
func Command() *cli.Command {
	var params chatParams

	return &cli.Command{
		Name:    "chat",
		Summary: "Talk to the support assistant",
		Description: `Send messages to the ticketing service's support assistant.

With a message, send it, print the reply, and list any quick replies
the reply offers; answer one by sending its key ("resolve chat 2").
Without a message, open the interactive chat, where quick replies are
picked with the number keys or Tab and Enter.

Chat works without logging in; the conversation is then held under
the configured default user. Conversations are saved per user and
resumed on the next run.`,
		Usage: "resolve chat [message] [flags]",
		Examples: []cli.Example{
			{
				Description: "Open the interactive chat",
				Command:     "resolve chat",
			},
			{
				Description: "Ask a question from a script",
				Command:     "resolve chat 'How do I request dataset access?' --json",
			},
			{
				Description: "Start over",
				Command:     "resolve chat --clear",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Create(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			service, err := openChat(&params.Connection, logger)
			if err != nil {
				return err
			}

			userID := service.Config.Chat.DefaultUserID
			if service.Session != nil {
				userID = service.User().ID
			}
			if params.UserID != 0 {
				userID = params.UserID
			}

			history := chat.NewHistoryStore(service.Config.ChatHistoryDir())
			conversation := chat.NewConversation(userID, service.ChatClient(), history, logger)
			if params.Clear {
				conversation.Clear()
				logger.Debug("conversation cleared", "user_id", userID)
			}

			if params.History {
				if done, err := params.EmitJSON(conversation.Messages); done {
					return err
				}
				writeTranscript(conversation.Messages)
				return nil
			}

			if len(args) > 0 {
				return sendOnce(ctx, &params, conversation, strings.Join(args, " "))
			}
			if params.Clear {
				return nil
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return cli.Validation("the interactive chat needs a terminal; pass a message to send it directly")
			}
			return runInteractive(ctx, conversation, service.Theme())
		},
	}
}

// openChat opens the session when there is one. Chat does not require
// a login, so a missing or expired session falls back to an anonymous
// connection.
func openChat(connection *cli.Connection, logger *slog.Logger) (*cli.Service, error) {
	service, err := connection.Open(logger, ticket.ActionChat)
	if err == nil {
		return service, nil
	}
	if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrExpired) {
		logger.Debug("chatting without a session", "reason", err)
		return connection.OpenAnonymous(logger)
	}
	return nil, err
}

// sendOnce sends text and prints the reply. A failed exchange is kept
// in the transcript like the widget does, and also fails the command.
func sendOnce(ctx context.Context, params *chatParams, conversation *chat.Conversation, text string) error {
	sent, ok := conversation.AddUserMessage(text)
	if !ok {
		return cli.Validation("message is empty")
	}
	reply, err := conversation.Exchange(ctx, sent.Text)
	conversation.AddBotMessage(reply)
	if err != nil {
		return cli.FromAPIError(err)
	}

	quickReplies := chat.ExtractQuickReplies(reply.Text)
	if quickReplies == nil {
		quickReplies = []chat.QuickReply{}
	}
	if done, err := params.EmitJSON(sendResult{
		UserID:       conversation.UserID,
		Reply:        reply.Text,
		QuickReplies: quickReplies,
	}); done {
		return err
	}

	fmt.Println(reply.Text)
	if len(quickReplies) > 0 {
		fmt.Println()
		fmt.Println("Quick replies:")
		for _, quickReply := range quickReplies {
			fmt.Printf("  [%s] %s\n", quickReply.Key, quickReply.Label)
		}
	}
	return nil
}

func runInteractive(ctx context.Context, conversation *chat.Conversation, theme tui.Theme) error {
	model := chatui.NewModel(conversation, chatui.Options{Theme: theme, Context: ctx})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func writeTranscript(messages []chat.Message) {
	if len(messages) == 0 {
		fmt.Println("No saved conversation.")
		return
	}
	for _, message := range messages {
		speaker := "you"
		if message.From == chat.FromBot {
			speaker = "assistant"
		}
		fmt.Printf("[%s] %s:\n", tui.FormatTimestamp(message.Time), speaker)
		for _, line := range strings.Split(message.Text, "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
}
