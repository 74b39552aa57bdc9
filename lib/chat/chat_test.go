// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestExtractQuickReplies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []QuickReply
	}{
		{
			name: "numbered lines",
			text: "1. Create Ticket\n2. Check Status",
			want: []QuickReply{{"1", "Create Ticket"}, {"2", "Check Status"}},
		},
		{
			name: "no enumerators",
			text: "Hello! How can I help you today?",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "letters with parentheses and CRLF",
			text: "Pick one:\r\na) Yes\r\nb) No",
			want: []QuickReply{{"a", "Yes"}, {"b", "No"}},
		},
		{
			name: "bulleted with hyphen enumerator",
			text: "  - 1- Escalate  \n * 2) Close",
			want: []QuickReply{{"1", "Escalate"}, {"2", "Close"}},
		},
		{
			name: "mixed prose keeps only enumerated lines",
			text: "Here is what I can do:\n1. Create a ticket\nOr ask me anything.\n2. Check a ticket",
			want: []QuickReply{{"1", "Create a ticket"}, {"2", "Check a ticket"}},
		},
		{
			name: "bare carriage return ends the label",
			text: "1. A\r2. B",
			want: []QuickReply{{"1", "A"}},
		},
		{
			name: "capped at five",
			text: "1. a\n2. b\n3. c\n4. d\n5. e\n6. f\n7. g",
			want: []QuickReply{{"1", "a"}, {"2", "b"}, {"3", "c"}, {"4", "d"}, {"5", "e"}},
		},
		{
			name: "multi-digit keys",
			text: "10. Ten\n11. Eleven",
			want: []QuickReply{{"10", "Ten"}, {"11", "Eleven"}},
		},
		{
			name: "inline fallback",
			text: "You can: 1. Create ticket 2. Check status 3. Talk to agent",
			want: []QuickReply{{"1", "You can:"}, {"2", "Create ticket"}, {"3", "Check status"}, {"4", "Talk to agent"}},
		},
		{
			name: "inline marker with nothing after it",
			text: "Welcome to release 1.",
			want: nil,
		},
		{
			name: "inline fallback leaving no pieces",
			text: "1. ",
			want: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ExtractQuickReplies(test.text)
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("ExtractQuickReplies(%q)\n got: %v\nwant: %v", test.text, got, test.want)
			}
		})
	}
}

// fakeTransport answers every message with reply, or fails with err.
type fakeTransport struct {
	reply string
	err   error
	sent  []string
	users []int64
}

func (f *fakeTransport) Chat(_ context.Context, userID int64, message string) (string, error) {
	f.sent = append(f.sent, message)
	f.users = append(f.users, userID)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestConversation_Send(t *testing.T) {
	transport := &fakeTransport{reply: "1. Create Ticket\n2. Check Status"}
	conversation := NewConversation(7, transport, nil, nil)

	reply, ok := conversation.Send(context.Background(), "  hi  ")
	if !ok {
		t.Fatal("Send() returned false for non-blank text")
	}
	if reply.From != FromBot || reply.Text != transport.reply {
		t.Errorf("reply = %+v", reply)
	}
	if len(conversation.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(conversation.Messages))
	}
	if conversation.Messages[0].Text != "hi" || conversation.Messages[0].From != FromUser {
		t.Errorf("user message = %+v, want trimmed text", conversation.Messages[0])
	}
	if transport.users[0] != 7 {
		t.Errorf("sent as user %d, want 7", transport.users[0])
	}

	options := conversation.QuickReplies()
	if len(options) != 2 || options[0].Key != "1" {
		t.Errorf("QuickReplies() = %v", options)
	}
}

func TestConversation_BlankIgnored(t *testing.T) {
	transport := &fakeTransport{reply: "x"}
	conversation := NewConversation(1, transport, nil, nil)

	if _, ok := conversation.Send(context.Background(), "   "); ok {
		t.Error("blank text should be ignored")
	}
	if len(transport.sent) != 0 || len(conversation.Messages) != 0 {
		t.Error("blank text should not reach the transport or transcript")
	}
}

func TestConversation_TransportErrorBecomesBotMessage(t *testing.T) {
	transport := &fakeTransport{err: errors.New("Request failed: 502")}
	conversation := NewConversation(1, transport, nil, nil)

	reply, ok := conversation.Send(context.Background(), "status?")
	if !ok {
		t.Fatal("Send() returned false")
	}
	if reply.From != FromBot || reply.Text != "Error: Request failed: 502" {
		t.Errorf("reply = %+v", reply)
	}
	if conversation.QuickReplies() != nil {
		t.Error("an error reply offers no quick replies")
	}
}

func TestConversation_Exchange(t *testing.T) {
	transport := &fakeTransport{reply: "Error: that dataset does not exist."}
	conversation := NewConversation(1, transport, nil, nil)

	reply, err := conversation.Exchange(context.Background(), "access to foo")
	if err != nil || reply.Text != transport.reply {
		t.Errorf("Exchange() = %+v, %v; a reply that reads like an error is still a reply", reply, err)
	}

	transport.err = errors.New("Request failed: 502")
	reply, err = conversation.Exchange(context.Background(), "again")
	if err == nil || reply.Text != "Error: Request failed: 502" {
		t.Errorf("Exchange() = %+v, %v", reply, err)
	}
	if len(conversation.Messages) != 0 {
		t.Error("Exchange should leave the transcript alone")
	}
}

func TestConversation_LatestBotMessageDrivesQuickReplies(t *testing.T) {
	conversation := NewConversation(1, &fakeTransport{}, nil, nil)
	conversation.AddBotMessage(Message{From: FromBot, Text: "1. Old\n2. Options"})
	conversation.AddUserMessage("2")
	conversation.AddBotMessage(Message{From: FromBot, Text: "Thanks, done."})

	if options := conversation.QuickReplies(); options != nil {
		t.Errorf("QuickReplies() = %v, want none from the latest reply", options)
	}
	if _, ok := NewConversation(1, &fakeTransport{}, nil, nil).LatestBotMessage(); ok {
		t.Error("empty conversation has no bot message")
	}
}

func TestHistoryStore_RoundTripPerUser(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "chat"))
	transport := &fakeTransport{reply: "hello"}

	first := NewConversation(3, transport, store, nil)
	first.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	first.Send(context.Background(), "hi")

	restored := NewConversation(3, transport, store, nil)
	if len(restored.Messages) != 2 {
		t.Fatalf("restored %d messages, want 2", len(restored.Messages))
	}
	if restored.Messages[1].Text != "hello" {
		t.Errorf("restored reply = %q", restored.Messages[1].Text)
	}

	other := NewConversation(4, transport, store, nil)
	if len(other.Messages) != 0 {
		t.Errorf("user 4 sees %d messages from user 3", len(other.Messages))
	}

	restored.Clear()
	if _, err := os.Stat(store.Path(3)); !os.IsNotExist(err) {
		t.Errorf("history file should be removed, stat err = %v", err)
	}
}

func TestHistoryStore_MalformedIsEmpty(t *testing.T) {
	directory := t.TempDir()
	store := NewHistoryStore(directory)
	if err := os.WriteFile(store.Path(5), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if messages := store.Load(5); messages != nil {
		t.Errorf("Load() = %v, want nil for malformed file", messages)
	}
	if err := store.Clear(99); err != nil {
		t.Errorf("Clear() of missing file: %v", err)
	}
}
