// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/tui"
)

func detailTicket() ticket.Ticket {
	requester := testRequester
	return ticket.Ticket{
		ID:               204,
		Title:            "Dashboard bug",
		Description:      "Numbers on the *revenue* tile are stale.",
		RequestType:      ticket.RequestBug,
		Priority:         ticket.PriorityHigh,
		Status:           ticket.StatusOnHold,
		RequestedDataset: "sales.orders",
		Requester:        &requester,
		CreatedAt:        at(3),
		UpdatedAt:        at(1),
	}
}

func TestRenderHeader(t *testing.T) {
	renderer := NewDetailRenderer(tui.PlainTheme, 80, testNow)
	header := ansi.Strip(renderer.RenderHeader(detailTicket()))

	lines := strings.Split(header, "\n")
	if len(lines) != detailHeaderLines {
		t.Fatalf("header has %d lines, want %d", len(lines), detailHeaderLines)
	}
	if !strings.Contains(lines[0], "[On hold] [High]") || !strings.Contains(lines[0], "#204") {
		t.Errorf("meta line = %q", lines[0])
	}
	if lines[1] != "Dashboard bug" {
		t.Errorf("title line = %q", lines[1])
	}
	for _, want := range []string{"by Rita Requester", "Unassigned", "created 3h ago", "updated 1h ago"} {
		if !strings.Contains(lines[2], want) {
			t.Errorf("people line %q missing %q", lines[2], want)
		}
	}
}

func TestRenderBody(t *testing.T) {
	renderer := NewDetailRenderer(tui.PlainTheme, 80, testNow)

	tests := []struct {
		name    string
		content DetailContent
		want    []string
		absent  []string
	}{
		{
			name:    "still loading",
			content: DetailContent{Ticket: detailTicket()},
			want:    []string{"Description", "revenue", "Dataset  sales.orders", "Comments (0)", "Loading…", "History"},
		},
		{
			name: "loaded and empty",
			content: DetailContent{
				Ticket:         ticket.Ticket{ID: 1, Title: "Empty"},
				CommentsLoaded: true,
				AuditLoaded:    true,
			},
			want:   []string{"No description.", "No comments yet.", "No changes recorded."},
			absent: []string{"Loading…", "Dataset"},
		},
		{
			name: "load errors",
			content: DetailContent{
				Ticket:        detailTicket(),
				CommentsError: errors.New("GET /api/tickets/204/comments: 403 Forbidden"),
				AuditLoaded:   true,
			},
			want: []string{"403 Forbidden", "No changes recorded."},
		},
		{
			name: "comments and history",
			content: DetailContent{
				Ticket: detailTicket(),
				Comments: []ticket.Comment{
					{Text: "Checking the ETL job", Visibility: ticket.VisibilityInternal, Author: "Dana Member", CreatedAt: at(2)},
					{Text: "Thanks!", Visibility: ticket.VisibilityRequester, CreatedBy: &testRequester},
				},
				CommentsLoaded: true,
				Audit: []ticket.AuditEntry{
					{Action: "STATUS_CHANGE", OldValue: "OPEN", NewValue: "ON_HOLD", UpdatedBy: "4", Timestamp: at(1)},
					{Action: "CREATED", UpdatedBy: "Rita Requester"},
				},
				AuditLoaded: true,
				Users:       map[int64]ticket.User{4: testAdmin},
			},
			want: []string{
				"Comments (2)",
				"Dana Member [Internal] · 2h ago",
				"  Checking the ETL job",
				"Rita Requester",
				"STATUS_CHANGE: OPEN → ON_HOLD · Ada Admin",
				"CREATED · Rita Requester",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body := ansi.Strip(renderer.RenderBody(test.content))
			for _, want := range test.want {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
			for _, absent := range test.absent {
				if strings.Contains(body, absent) {
					t.Errorf("body should not contain %q:\n%s", absent, body)
				}
			}
		})
	}
}

func TestDetailPane(t *testing.T) {
	pane := NewDetailPane(tui.PlainTheme)
	pane.SetSize(60, 12)

	if view := ansi.Strip(pane.View(false)); !strings.Contains(view, "Select a ticket to view details") {
		t.Errorf("empty pane = %q", view)
	}

	long := detailTicket()
	long.Description = strings.Repeat("A line of description.\n\n", 30)
	pane.SetContent(DetailContent{Ticket: long}, testNow)
	pane.PageDown()
	offset := pane.viewport.YOffset
	if offset == 0 {
		t.Fatal("page down should scroll a long body")
	}

	// Refreshing the same ticket keeps the scroll position.
	pane.SetContent(DetailContent{Ticket: long, CommentsLoaded: true}, testNow)
	if pane.viewport.YOffset != offset {
		t.Errorf("offset after refresh = %d, want %d", pane.viewport.YOffset, offset)
	}

	// Another ticket starts at the top.
	other := detailTicket()
	other.ID = 205
	pane.SetContent(DetailContent{Ticket: other}, testNow)
	if pane.viewport.YOffset != 0 {
		t.Errorf("offset for a new ticket = %d", pane.viewport.YOffset)
	}

	lines := strings.Split(pane.View(true), "\n")
	if len(lines) != 12 {
		t.Errorf("pane has %d lines, want its height", len(lines))
	}

	pane.Clear()
	if _, ok := pane.Content(); ok {
		t.Error("Clear() should empty the pane")
	}
}
