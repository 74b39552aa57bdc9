// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/markdown"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/tui"
)

// --- show ---

type showParams struct {
	cli.Connection
	cli.JSONOutput
	NoComments bool `json:"no_comments" flag:"no-comments" desc:"skip the comment thread"`
	Raw        bool `json:"raw"         flag:"raw"         desc:"print the description as written instead of rendering markdown"`
}

// showResult is the --json output of show.
type showResult struct {
	Ticket   *ticket.Ticket   `json:"ticket"`
	Comments []ticket.Comment `json:"comments,omitempty"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show ticket details and comments",
		Description: `Display one ticket: its fields, the description, and the comment
thread. On a terminal the description is rendered as markdown.

Available to requesters and admins. Data members see their tickets
through "resolve ticket assigned" and "resolve ticket comment list".`,
		Usage: "resolve ticket show <ticket-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show a ticket",
				Command:     "resolve ticket show 42",
			},
			{
				Description: "Show as JSON",
				Command:     "resolve ticket show 42 --json",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketID, err := parseTicketID(args, "resolve ticket show <ticket-id>")
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionShow)
			if err != nil {
				return err
			}
			item, err := service.Client.Ticket(ctx, ticketID)
			if err != nil {
				return cli.FromAPIError(err)
			}

			result := showResult{Ticket: item}
			if !params.NoComments {
				result.Comments, err = service.Client.Comments(ctx, ticketID)
				if err != nil {
					return cli.FromAPIError(err)
				}
			}

			if done, err := params.EmitJSON(result); done {
				return err
			}

			detail := *item
			detail.Description = ""
			if err := writeTicketDetail(&detail); err != nil {
				return err
			}
			if item.Description != "" {
				fmt.Println()
				fmt.Println(renderDescription(item.Description, service.Theme(), params.Raw))
			}
			if !params.NoComments {
				fmt.Printf("\nComments (%d):\n", len(result.Comments))
				writeComments(result.Comments)
			}
			return nil
		},
	}
}

// renderDescription renders markdown for a terminal and leaves the text
// alone when stdout is not one.
func renderDescription(description string, theme tui.Theme, raw bool) string {
	stdout := int(os.Stdout.Fd())
	if raw || !term.IsTerminal(stdout) {
		return description
	}
	width, _, err := term.GetSize(stdout)
	if err != nil || width <= 0 {
		width = 80
	}
	return markdown.Render(description, theme, min(width, 100))
}
