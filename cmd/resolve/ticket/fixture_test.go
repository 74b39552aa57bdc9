// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/apiclient/apitest"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/session"
	"github.com/segmento/resolve/lib/testutil"
)

// fixture is a fake service seeded with one user per role and a few
// tickets:
//
//	#100 Access to sales_2025   Rae   OPEN         HIGH      unassigned
//	#101 Nightly load failing   Rae   IN_PROGRESS  CRITICAL  Dana
//	#102 Finance report         Ray   OPEN         LOW       unassigned
type fixture struct {
	directory string
	service   *apitest.Service
	url       string

	requester, otherRequester, dana, devon, admin ticket.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		directory: testutil.IsolateConfig(t),
		service:   apitest.New(),
	}
	f.requester = f.service.AddUser(ticket.User{Name: "Rae", Email: "rae@example.com", Role: ticket.RoleRequester}, "pw")
	f.otherRequester = f.service.AddUser(ticket.User{Name: "Ray", Email: "ray@example.com", Role: ticket.RoleRequester}, "pw")
	f.dana = f.service.AddUser(ticket.User{Name: "Dana", Email: "dana@example.com", Role: ticket.RoleDataMember}, "pw")
	f.devon = f.service.AddUser(ticket.User{Name: "Devon", Email: "devon@example.com", Role: ticket.RoleDataMember}, "pw")
	f.admin = f.service.AddUser(ticket.User{Name: "Ada", Email: "ada@example.com", Role: ticket.RoleAdmin}, "pw")

	base := time.Now().Add(-48 * time.Hour)
	f.service.AddTicket(ticket.Ticket{
		Title: "Access to sales_2025", Description: "Need **read** access.",
		RequestType: ticket.RequestAccess, Priority: ticket.PriorityHigh,
		Requester: &f.requester, CreatedAt: ticket.Timestamp{Time: base},
	})
	f.service.AddTicket(ticket.Ticket{
		Title: "Nightly load failing", RequestType: ticket.RequestPipeline,
		Priority: ticket.PriorityCritical, Status: ticket.StatusInProgress,
		Requester: &f.requester, AssignedTo: &f.dana, CreatedAt: ticket.Timestamp{Time: base.Add(time.Hour)},
	})
	f.service.AddTicket(ticket.Ticket{
		Title: "Finance report", RequestType: ticket.RequestReport, Priority: ticket.PriorityLow,
		Requester: &f.otherRequester, CreatedAt: ticket.Timestamp{Time: base.Add(2 * time.Hour)},
	})

	f.url = f.service.Start(t)
	return f
}

// loginAs writes a session for user against the fake service.
func (f *fixture) loginAs(t *testing.T, user ticket.User) {
	t.Helper()
	store := session.NewStore(filepath.Join(f.directory, "session.json"))
	err := store.Save(&session.Session{
		Token:   apitest.IssueToken(user.ID, time.Now().Add(time.Hour)),
		User:    user,
		BaseURL: f.url,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
}

// run executes the ticket command group with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var err error
	output := testutil.CaptureStdout(t, func() {
		err = Command().ExecuteContext(context.Background(), args, slog.New(slog.DiscardHandler))
	})
	return output, err
}

func category(err error) cli.ErrorCategory {
	var toolError *cli.ToolError
	if errors.As(err, &toolError) {
		return toolError.Category
	}
	return ""
}
