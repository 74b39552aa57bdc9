// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"

	"github.com/segmento/resolve/lib/apiclient"
	"github.com/segmento/resolve/lib/schema/ticket"
)

// Source supplies the data the browser displays. Every call goes to
// the service; the browser keeps no copy beyond the current screen.
type Source interface {
	// Tickets returns every ticket visible to the caller.
	Tickets(ctx context.Context) ([]ticket.Ticket, error)

	// AssignedTickets returns the tickets assigned to a data member.
	AssignedTickets(ctx context.Context, userID int64) ([]ticket.Ticket, error)

	// Comments returns a ticket's comments, oldest first.
	Comments(ctx context.Context, ticketID int64) ([]ticket.Comment, error)

	// Audit returns a ticket's change history.
	Audit(ctx context.Context, ticketID int64) ([]ticket.AuditEntry, error)
}

// Mutator is implemented by sources that can change tickets. The model
// checks for it with a type assertion; without it the mutation keys
// are disabled whatever the viewer's role.
//
// UpdateStatus and Assign may return a nil ticket when the service
// acknowledges with plain text. The model then applies the change to
// its own copy.
type Mutator interface {
	UpdateStatus(ctx context.Context, ticketID int64, status ticket.Status, actorID int64) (*ticket.Ticket, error)
	Assign(ctx context.Context, ticketID, userID int64) (*ticket.Ticket, error)
	AddComment(ctx context.Context, ticketID, authorID int64, form ticket.CommentForm) (*ticket.Comment, error)
}

// UserLister is implemented by sources that can list users. The
// assignee dropdown needs it, and audit entries use it to turn actor
// ids into names.
type UserLister interface {
	Users(ctx context.Context) ([]ticket.User, error)
}

var (
	_ Source     = (*apiclient.Client)(nil)
	_ Mutator    = (*apiclient.Client)(nil)
	_ UserLister = (*apiclient.Client)(nil)
)
