// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
)

// filterFlags are the local filters shared by the list commands.
type filterFlags struct {
	Search   string `json:"search"   flag:"search,q"   desc:"match a title substring or ticket ID"`
	Status   string `json:"status"   flag:"status,s"   desc:"filter by status (open, in_progress, on_hold, completed, rejected)"`
	Priority string `json:"priority" flag:"priority,p" desc:"filter by priority (low, medium, high, critical)"`
	Type     string `json:"type"     flag:"type,t"     desc:"filter by request type (access, report, bug, pipeline, feature, other)"`
	Assignee string `json:"assignee" flag:"assignee,a" desc:"filter by assignee name, or Unassigned"`
	Sort     string `json:"sort"     flag:"sort"       desc:"order: newest, oldest, priority, id" default:"newest"`
	Limit    int    `json:"limit"    flag:"limit,n"    desc:"show at most this many tickets (0 for all)"`
}

// build validates the flags and returns the filter they describe.
// Enumerated values are checked here so a typo fails loudly instead of
// matching nothing.
func (flags *filterFlags) build() (ticketfilter.Filter, ticketfilter.SortOrder, error) {
	filter := ticketfilter.Filter{
		Search:   flags.Search,
		Assignee: flags.Assignee,
	}
	if !unset(flags.Status) {
		status := ticket.Status(flags.Status).Canonical()
		if _, err := ticket.ParseStatus(flags.Status); err != nil && status != ticket.StatusResolved && status != ticket.StatusClosed {
			return filter, "", cli.Validation("--status: %w", err)
		}
		filter.Status = string(status)
	}
	if !unset(flags.Priority) {
		priority, err := ticket.ParsePriority(flags.Priority)
		if err != nil {
			return filter, "", cli.Validation("--priority: %w", err)
		}
		filter.Priority = string(priority)
	}
	if !unset(flags.Type) {
		requestType, err := ticket.ParseRequestType(flags.Type)
		if err != nil {
			return filter, "", cli.Validation("--type: %w", err)
		}
		filter.RequestType = string(requestType)
	}

	order := ticketfilter.SortOrder(strings.ToLower(flags.Sort))
	switch order {
	case ticketfilter.SortNewest, ticketfilter.SortOldest, ticketfilter.SortPriority, ticketfilter.SortID:
	default:
		return filter, "", cli.Validation("--sort: unknown order %q (valid: newest, oldest, priority, id)", flags.Sort)
	}
	return filter, order, nil
}

// apply filters, sorts, and limits tickets.
func (flags *filterFlags) apply(tickets []ticket.Ticket, filter ticketfilter.Filter, order ticketfilter.SortOrder) []ticket.Ticket {
	result := append([]ticket.Ticket(nil), filter.Apply(tickets)...)
	ticketfilter.Sort(result, order)
	if flags.Limit > 0 && len(result) > flags.Limit {
		result = result[:flags.Limit]
	}
	return result
}

func unset(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, ticketfilter.All)
}

// printTickets is the common tail of the list commands.
func printTickets(output *cli.JSONOutput, tickets []ticket.Ticket, logger *slog.Logger) error {
	if done, err := output.EmitJSON(tickets); done {
		return err
	}
	if len(tickets) == 0 {
		logger.Info("no tickets found")
		return nil
	}
	return writeTicketTable(tickets, time.Now())
}

// --- list ---

type listParams struct {
	cli.Connection
	cli.JSONOutput
	filterFlags
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List tickets with optional filters",
		Description: `List the tickets visible to you. Requesters see the tickets they
created; data members and admins see every ticket.

All filter flags use AND semantics: only tickets matching every
specified filter are shown. Filtering happens locally after a single
fetch.`,
		Usage: "resolve ticket list [flags]",
		Examples: []cli.Example{
			{
				Description: "List everything, most urgent first",
				Command:     "resolve ticket list --sort priority",
			},
			{
				Description: "List open high-priority tickets",
				Command:     "resolve ticket list --status open --priority high",
			},
			{
				Description: "Find a ticket by title",
				Command:     "resolve ticket list --search 'sales dashboard'",
			},
			{
				Description: "List unassigned tickets as JSON",
				Command:     "resolve ticket list --assignee Unassigned --json",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			filter, order, err := params.build()
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionList)
			if err != nil {
				return err
			}
			tickets, err := service.Client.Tickets(ctx)
			if err != nil {
				return cli.FromAPIError(err)
			}

			viewer := service.User()
			if viewer.Role.Is(ticket.RoleRequester) {
				filter.RequesterID = viewer.ID
			}
			return printTickets(&params.JSONOutput, params.apply(tickets, filter, order), logger)
		},
	}
}

// --- open ---

type openParams struct {
	cli.Connection
	cli.JSONOutput
	filterFlags
}

func openCommand() *cli.Command {
	var params openParams

	return &cli.Command{
		Name:    "open",
		Summary: "List tickets waiting to be picked up",
		Description: `List tickets with status OPEN. Requesters see only their own; staff
see all of them. Use "resolve ticket assign" and "resolve ticket
status" to work the queue.`,
		Usage: "resolve ticket open [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the open queue, most urgent first",
				Command:     "resolve ticket open --sort priority",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			filter, order, err := params.build()
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionListOpen)
			if err != nil {
				return err
			}
			tickets, err := service.Client.Tickets(ctx)
			if err != nil {
				return cli.FromAPIError(err)
			}

			open := ticketfilter.OpenTickets(tickets, service.User())
			return printTickets(&params.JSONOutput, params.apply(open, filter, order), logger)
		},
	}
}

// --- assigned ---

type assignedParams struct {
	cli.Connection
	cli.JSONOutput
	filterFlags
}

func assignedCommand() *cli.Command {
	var params assignedParams

	return &cli.Command{
		Name:    "assigned",
		Summary: "List tickets assigned to you",
		Description: `List the tickets assigned to the logged-in data member, with the same
local filters as "resolve ticket list".`,
		Usage: "resolve ticket assigned [flags]",
		Examples: []cli.Example{
			{
				Description: "Show assigned work still in progress",
				Command:     "resolve ticket assigned --status in_progress",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			filter, order, err := params.build()
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionListAssigned)
			if err != nil {
				return err
			}
			tickets, err := service.Client.AssignedTickets(ctx, service.User().ID)
			if err != nil {
				return cli.FromAPIError(err)
			}
			return printTickets(&params.JSONOutput, params.apply(tickets, filter, order), logger)
		},
	}
}
