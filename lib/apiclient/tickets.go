// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// Tickets lists every ticket visible to the caller.
func (c *Client) Tickets(ctx context.Context) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	if err := c.Get(ctx, "/api/tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Ticket fetches a single ticket.
func (c *Client) Ticket(ctx context.Context, ticketID int64) (*ticket.Ticket, error) {
	var result ticket.Ticket
	if err := c.Get(ctx, ticketPath(ticketID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AssignedTickets lists the tickets assigned to a data member.
func (c *Client) AssignedTickets(ctx context.Context, userID int64) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	path := "/api/tickets/assigned-to/" + strconv.FormatInt(userID, 10)
	if err := c.Get(ctx, path, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// CreateTicket validates form and submits it. A form that fails
// validation is never sent.
func (c *Client) CreateTicket(ctx context.Context, form ticket.CreateTicketForm) (*ticket.Ticket, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var created ticket.Ticket
	request := c.newRequest(ctx).SetBody(form)
	if err := c.do(request, http.MethodPost, "/api/tickets", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStatus moves a ticket to status on behalf of actorID. The
// returned ticket is nil when the service answers with an empty body.
func (c *Client) UpdateStatus(ctx context.Context, ticketID int64, status ticket.Status, actorID int64) (*ticket.Ticket, error) {
	request := c.newRequest(ctx).
		SetQueryParam("status", string(status.Canonical())).
		SetQueryParam("userId", strconv.FormatInt(actorID, 10))
	return c.putTicket(request, ticketPath(ticketID)+"/status")
}

// Assign assigns a ticket to a data member. The returned ticket is nil
// when the service answers with an empty body.
func (c *Client) Assign(ctx context.Context, ticketID, userID int64) (*ticket.Ticket, error) {
	path := fmt.Sprintf("%s/assign/%d", ticketPath(ticketID), userID)
	return c.putTicket(c.newRequest(ctx), path)
}

// putTicket issues a PUT whose response is the updated ticket, a
// plain-text acknowledgement, or nothing. Only a JSON object is decoded.
func (c *Client) putTicket(request *resty.Request, path string) (*ticket.Ticket, error) {
	response, err := c.execute(request, http.MethodPut, path)
	if err != nil {
		return nil, err
	}
	body := bytes.TrimSpace(response.Body())
	if len(body) == 0 || body[0] != '{' {
		return nil, nil
	}
	var updated ticket.Ticket
	if err := decodeBody(http.MethodPut, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func ticketPath(ticketID int64) string {
	return "/api/tickets/" + strconv.FormatInt(ticketID, 10)
}
