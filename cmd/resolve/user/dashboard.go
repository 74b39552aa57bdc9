// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package user

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
)

type dashboardParams struct {
	cli.Connection
	cli.JSONOutput
}

// dashboard is the admin overview: who is on the service, what is
// waiting for an assignee, and how the work is spread.
type dashboard struct {
	Users      roleCounts           `json:"users"`
	Tickets    int                  `json:"tickets"`
	Open       int                  `json:"open"`
	Unassigned []ticket.Ticket      `json:"unassigned"`
	Workload   []workload           `json:"workload"`
	Filters    ticketfilter.Options `json:"filters"`
}

type roleCounts struct {
	Requesters  int `json:"requesters"`
	DataMembers int `json:"dataMembers"`
	Admins      int `json:"admins"`
}

// workload is one data member's count of assigned tickets that are
// still being worked.
type workload struct {
	User   ticket.User `json:"user"`
	Active int         `json:"active"`
}

// AdminCommand returns the "admin" command.
func AdminCommand() *cli.Command {
	var params dashboardParams

	return &cli.Command{
		Name:    "admin",
		Summary: "Show the admin dashboard",
		Description: `Summarize the service for an admin: account counts by role, open
tickets that still need an assignee, each data member's active
workload, and the status, priority, type, and assignee values in use.

Assign from here with "resolve ticket assign"; change roles with
"resolve user role".`,
		Usage:       "resolve admin [flags]",
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			service, err := params.Open(logger, ticket.ActionAdminDashboard)
			if err != nil {
				return err
			}
			users, err := service.Client.Users(ctx)
			if err != nil {
				return cli.FromAPIError(err)
			}
			tickets, err := service.Client.Tickets(ctx)
			if err != nil {
				return cli.FromAPIError(err)
			}

			summary := summarize(users, tickets)
			if done, err := params.EmitJSON(summary); done {
				return err
			}
			return writeDashboard(summary)
		},
	}
}

func summarize(users []ticket.User, tickets []ticket.Ticket) dashboard {
	summary := dashboard{
		Tickets:    len(tickets),
		Unassigned: []ticket.Ticket{},
		Workload:   []workload{},
		Filters:    ticketfilter.OptionsFor(tickets),
	}
	summary.Users.Requesters = len(ticketfilter.UsersWithRole(users, ticket.RoleRequester))
	summary.Users.DataMembers = len(ticketfilter.UsersWithRole(users, ticket.RoleDataMember))
	summary.Users.Admins = len(ticketfilter.UsersWithRole(users, ticket.RoleAdmin))

	for _, item := range ticketfilter.OpenTickets(tickets, ticket.User{}) {
		summary.Open++
		if !item.IsAssigned() {
			summary.Unassigned = append(summary.Unassigned, item)
		}
	}
	ticketfilter.Sort(summary.Unassigned, ticketfilter.SortPriority)

	for _, member := range ticketfilter.DataMembers(users, "") {
		load := workload{User: member}
		for index := range tickets {
			if tickets[index].AssignedToUser(member.ID) && active(tickets[index].Status) {
				load.Active++
			}
		}
		summary.Workload = append(summary.Workload, load)
	}
	return summary
}

// active reports whether a ticket in status still needs work.
func active(status ticket.Status) bool {
	for _, done := range []ticket.Status{ticket.StatusCompleted, ticket.StatusRejected, ticket.StatusResolved, ticket.StatusClosed} {
		if status.Is(done) {
			return false
		}
	}
	return true
}

func writeDashboard(summary dashboard) error {
	fmt.Printf("Users:   %d requesters, %d data members, %d admins\n",
		summary.Users.Requesters, summary.Users.DataMembers, summary.Users.Admins)
	fmt.Printf("Tickets: %d total, %d open, %d awaiting assignment\n",
		summary.Tickets, summary.Open, len(summary.Unassigned))

	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	if len(summary.Unassigned) > 0 {
		fmt.Fprintf(writer, "\nAWAITING ASSIGNMENT\n")
		fmt.Fprintf(writer, "ID\tPRIORITY\tTYPE\tREQUESTER\tTITLE\n")
		for index := range summary.Unassigned {
			item := &summary.Unassigned[index]
			fmt.Fprintf(writer, "#%d\t%s\t%s\t%s\t%s\n",
				item.ID, item.Priority.Label(), item.RequestType.Label(), item.RequesterDisplay(), item.Title)
		}
	}
	if len(summary.Workload) > 0 {
		fmt.Fprintf(writer, "\nDATA MEMBERS\n")
		fmt.Fprintf(writer, "ID\tNAME\tEMAIL\tACTIVE\n")
		for _, load := range summary.Workload {
			fmt.Fprintf(writer, "%d\t%s\t%s\t%d\n", load.User.ID, load.User.DisplayName(), load.User.Email, load.Active)
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	filters := summary.Filters
	if summary.Tickets > 0 {
		fmt.Println()
		fmt.Println("In use:")
		fmt.Printf("  status:   %s\n", strings.Join(filters.Statuses, ", "))
		fmt.Printf("  priority: %s\n", strings.Join(filters.Priorities, ", "))
		fmt.Printf("  type:     %s\n", strings.Join(filters.RequestTypes, ", "))
		fmt.Printf("  assignee: %s\n", strings.Join(filters.Assignees, ", "))
	}
	return nil
}
