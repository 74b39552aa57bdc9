// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// UserIDHeader names the comment author on add-comment requests.
const UserIDHeader = "user-id"

// Comments lists a ticket's discussion thread.
func (c *Client) Comments(ctx context.Context, ticketID int64) ([]ticket.Comment, error) {
	var comments []ticket.Comment
	if err := c.Get(ctx, ticketPath(ticketID)+"/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment as authorID. The returned comment is nil
// when the service answers with an empty body.
func (c *Client) AddComment(ctx context.Context, ticketID, authorID int64, form ticket.CommentForm) (*ticket.Comment, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var created *ticket.Comment
	request := c.newRequest(ctx).
		SetHeader(UserIDHeader, strconv.FormatInt(authorID, 10)).
		SetBody(form)
	if err := c.do(request, http.MethodPost, ticketPath(ticketID)+"/comments", &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Audit returns a ticket's change history, oldest first as the
// service orders it.
func (c *Client) Audit(ctx context.Context, ticketID int64) ([]ticket.AuditEntry, error) {
	var entries []ticket.AuditEntry
	path := "/api/tickets/audit/" + strconv.FormatInt(ticketID, 10)
	if err := c.Get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
