// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
)

func commentCommand() *cli.Command {
	return &cli.Command{
		Name:    "comment",
		Summary: "Read and add ticket comments",
		Description: `Work with a ticket's comment thread.

Comments are either internal (staff only) or requester-facing. Staff
comments default to internal; requesters always post requester-facing
comments.`,
		Subcommands: []*cli.Command{
			commentListCommand(),
			commentAddCommand(),
		},
	}
}

// --- comment list ---

type commentListParams struct {
	cli.Connection
	cli.JSONOutput
}

func commentListCommand() *cli.Command {
	var params commentListParams

	return &cli.Command{
		Name:    "list",
		Summary: "Show a ticket's comments",
		Usage:   "resolve ticket comment list <ticket-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Read the thread on ticket 42",
				Command:     "resolve ticket comment list 42",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketID, err := parseTicketID(args, "resolve ticket comment list <ticket-id>")
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionComment)
			if err != nil {
				return err
			}
			comments, err := service.Client.Comments(ctx, ticketID)
			if err != nil {
				return cli.FromAPIError(err)
			}

			if done, err := params.EmitJSON(comments); done {
				return err
			}
			writeComments(comments)
			return nil
		},
	}
}

// --- comment add ---

type commentAddParams struct {
	cli.Connection
	cli.JSONOutput
	Message    string `json:"message"    flag:"message,m"  desc:"comment text; - reads standard input" required:"true"`
	Visibility string `json:"visibility" flag:"visibility" desc:"internal or requester (staff only; default internal for staff)"`
}

func commentAddCommand() *cli.Command {
	var params commentAddParams

	return &cli.Command{
		Name:    "add",
		Summary: "Add a comment to a ticket",
		Usage:   "resolve ticket comment add <ticket-id> --message TEXT [flags]",
		Examples: []cli.Example{
			{
				Description: "Leave an internal note",
				Command:     "resolve ticket comment add 42 -m 'Waiting on the warehouse team'",
			},
			{
				Description: "Reply to the requester",
				Command:     "resolve ticket comment add 42 -m 'Access granted' --visibility requester",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Create(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketID, err := parseTicketID(args, "resolve ticket comment add <ticket-id> --message TEXT")
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionComment)
			if err != nil {
				return err
			}
			viewer := service.User()

			form := ticket.CommentForm{
				Comment:    params.Message,
				Visibility: ticket.DefaultVisibility(viewer.Role),
			}
			if params.Message == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return cli.Internal("reading comment from stdin: %w", err)
				}
				form.Comment = string(data)
			}
			if params.Visibility != "" {
				visibility, err := ticket.ParseVisibility(params.Visibility)
				if err != nil {
					return cli.Validation("--visibility: %w", err)
				}
				if viewer.Role.Is(ticket.RoleRequester) && visibility != ticket.VisibilityRequester {
					return cli.Forbidden("requesters can only post requester-facing comments")
				}
				form.Visibility = visibility
			}
			if err := form.Validate(); err != nil {
				return cli.FromAPIError(err)
			}

			added, err := service.Client.AddComment(ctx, ticketID, viewer.ID, form)
			if err != nil {
				return cli.FromAPIError(err)
			}

			if done, err := params.EmitJSON(added); done {
				return err
			}
			fmt.Printf("Added %s comment to ticket #%d.\n", form.Visibility, ticketID)
			return nil
		},
	}
}
