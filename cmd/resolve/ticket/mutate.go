// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
)

// --- status ---

type statusParams struct {
	cli.Connection
	cli.JSONOutput
	To string `json:"to" flag:"to" desc:"new status (open, in_progress, on_hold, completed, rejected)" required:"true"`
}

func statusCommand() *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Move a ticket to a new status",
		Description: `Change a ticket's status. The change is recorded in the ticket's audit
history under your account.

Data members change the status of tickets assigned to them; admins may
change any ticket.`,
		Usage: "resolve ticket status <ticket-id> --to STATUS [flags]",
		Examples: []cli.Example{
			{
				Description: "Start work on a ticket",
				Command:     "resolve ticket status 42 --to in_progress",
			},
			{
				Description: "Park a ticket waiting on the requester",
				Command:     "resolve ticket status 42 --to on_hold",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Idempotent(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketID, err := parseTicketID(args, "resolve ticket status <ticket-id> --to STATUS")
			if err != nil {
				return err
			}
			status, err := ticket.ParseStatus(params.To)
			if err != nil {
				return cli.Validation("--to: %w", err)
			}

			service, err := params.Open(logger, ticket.ActionUpdateStatus)
			if err != nil {
				return err
			}
			updated, err := service.Client.UpdateStatus(ctx, ticketID, status, service.User().ID)
			if err != nil {
				return cli.FromAPIError(err)
			}
			if updated == nil {
				updated = &ticket.Ticket{ID: ticketID, Status: status}
			}
			logger.Debug("status updated", "ticket", ticketID, "status", updated.Status)

			if done, err := params.EmitJSON(updated); done {
				return err
			}
			fmt.Printf("Ticket #%d is now %s.\n", ticketID, updated.Status.Label())
			return nil
		},
	}
}

// --- assign ---

type assignParams struct {
	cli.Connection
	cli.JSONOutput
	To string `json:"to" flag:"to" desc:"data member to assign: user ID, name, or email" required:"true"`
}

func assignCommand() *cli.Command {
	var params assignParams

	return &cli.Command{
		Name:    "assign",
		Summary: "Assign a ticket to a data member",
		Description: `Assign a ticket to a data member. --to takes a user ID, or a name or
email fragment that matches exactly one data member. Data members and
admins may assign.`,
		Usage: "resolve ticket assign <ticket-id> --to USER [flags]",
		Examples: []cli.Example{
			{
				Description: "Assign by name",
				Command:     "resolve ticket assign 42 --to dana",
			},
			{
				Description: "Assign by user ID",
				Command:     "resolve ticket assign 42 --to 7",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Idempotent(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketID, err := parseTicketID(args, "resolve ticket assign <ticket-id> --to USER")
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionAssign)
			if err != nil {
				return err
			}
			users, err := service.Client.Users(ctx)
			if err != nil {
				return cli.FromAPIError(err)
			}
			assignee, err := resolveDataMember(users, params.To)
			if err != nil {
				return err
			}

			updated, err := service.Client.Assign(ctx, ticketID, assignee.ID)
			if err != nil {
				return cli.FromAPIError(err)
			}
			if updated == nil {
				updated = &ticket.Ticket{ID: ticketID, AssignedTo: &assignee}
			}
			logger.Debug("ticket assigned", "ticket", ticketID, "assignee", assignee.ID)

			if done, err := params.EmitJSON(updated); done {
				return err
			}
			fmt.Printf("Assigned ticket #%d to %s.\n", ticketID, assignee.DisplayName())
			return nil
		},
	}
}

// resolveDataMember finds the data member named by query: an exact user
// ID, or a name or email fragment matching exactly one data member.
func resolveDataMember(users []ticket.User, query string) (ticket.User, error) {
	query = strings.TrimSpace(query)
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		for _, user := range users {
			if user.ID != id {
				continue
			}
			if !user.Role.Is(ticket.RoleDataMember) {
				return ticket.User{}, cli.Validation("user %d (%s) is %s, not a data member",
					id, user.DisplayName(), strings.ToLower(user.Role.Label()))
			}
			return user, nil
		}
		return ticket.User{}, cli.NotFound("user %d not found", id)
	}

	matches := ticketfilter.DataMembers(users, query)
	switch len(matches) {
	case 0:
		return ticket.User{}, cli.NotFound("no data member matches %q", query)
	case 1:
		return matches[0], nil
	}
	for _, match := range matches {
		if strings.EqualFold(match.DisplayName(), query) || strings.EqualFold(match.Email, query) {
			return match, nil
		}
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, fmt.Sprintf("%s (%d)", match.DisplayName(), match.ID))
	}
	return ticket.User{}, cli.Validation("%q matches %d data members: %s", query, len(matches), strings.Join(names, ", "))
}
