// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package user

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
)

// Command returns the "user" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Summary: "Manage accounts and roles (admin)",
		Description: `List the service's accounts and change their roles. Admin only.

Roles decide what each account can do: requesters file tickets, data
members work the tickets assigned to them, admins manage both.`,
		Subcommands: []*cli.Command{
			listCommand(),
			roleCommand(),
		},
	}
}

// --- list ---

type listParams struct {
	cli.Connection
	cli.JSONOutput
	Role   string `json:"role"   flag:"role,r"   desc:"only users with this role (requester, datamember, admin)"`
	Search string `json:"search" flag:"search,q" desc:"match a name or email substring"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List accounts",
		Usage:   "resolve user list [flags]",
		Examples: []cli.Example{
			{
				Description: "List every account",
				Command:     "resolve user list",
			},
			{
				Description: "List the data members tickets can be assigned to",
				Command:     "resolve user list --role datamember",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			var role ticket.Role
			if params.Role != "" {
				parsed, err := ticket.ParseRole(params.Role)
				if err != nil {
					return cli.Validation("--role: %w", err)
				}
				role = parsed
			}

			service, err := params.Open(logger, ticket.ActionUserList)
			if err != nil {
				return err
			}
			users, err := service.Client.Users(ctx)
			if err != nil {
				return cli.FromAPIError(err)
			}

			if role != "" {
				users = ticketfilter.UsersWithRole(users, role)
			}
			users = matching(users, params.Search)

			if done, err := params.EmitJSON(users); done {
				return err
			}
			if len(users) == 0 {
				logger.Info("no users found")
				return nil
			}
			return writeUserTable(users)
		},
	}
}

// matching keeps the users whose name or email contains query,
// case-insensitively. An empty query keeps everyone.
func matching(users []ticket.User, query string) []ticket.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users
	}
	var result []ticket.User
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.DisplayName()), query) ||
			strings.Contains(strings.ToLower(user.Email), query) {
			result = append(result, user)
		}
	}
	return result
}

func writeUserTable(users []ticket.User) error {
	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintf(writer, "ID\tNAME\tEMAIL\tROLE\n")
	for index := range users {
		user := &users[index]
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", user.ID, user.DisplayName(), user.Email, user.Role.Label())
	}
	return writer.Flush()
}

// --- role ---

type roleParams struct {
	cli.Connection
	cli.JSONOutput
	To string `json:"to" flag:"to" desc:"new role (requester, datamember, admin)" required:"true"`
}

func roleCommand() *cli.Command {
	var params roleParams

	return &cli.Command{
		Name:    "role",
		Summary: "Change a user's role",
		Description: `Give an account a new role. Changing your own role is refused: an
admin who demotes themselves can no longer undo it.`,
		Usage: "resolve user role <user-id> --to ROLE [flags]",
		Examples: []cli.Example{
			{
				Description: "Promote a requester to data member",
				Command:     "resolve user role 7 --to datamember",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Idempotent(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 positional argument (user ID), got %d\n\nUsage: resolve user role <user-id> --to ROLE", len(args))
			}
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return cli.Validation("invalid user ID %q", args[0])
			}
			role, err := ticket.ParseRole(params.To)
			if err != nil {
				return cli.Validation("--to: %w", err)
			}

			service, err := params.Open(logger, ticket.ActionUserRole)
			if err != nil {
				return err
			}
			if userID == service.User().ID {
				return cli.Validation("refusing to change your own role")
			}

			updated, err := service.Client.UpdateRole(ctx, userID, role)
			if err != nil {
				return cli.FromAPIError(err)
			}
			if updated == nil {
				updated = &ticket.User{ID: userID, Role: role}
			}
			logger.Debug("role updated", "user", userID, "role", role)

			if done, err := params.EmitJSON(updated); done {
				return err
			}
			fmt.Printf("Role updated successfully: %s is now %s.\n", updated.DisplayName(), strings.ToLower(role.Label()))
			return nil
		},
	}
}
