// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"log/slog"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
)

// --- audit ---

type auditParams struct {
	cli.Connection
	cli.JSONOutput
}

func auditCommand() *cli.Command {
	var params auditParams

	return &cli.Command{
		Name:    "audit",
		Summary: "Show a ticket's change history",
		Description: `List every recorded change to a ticket: status changes and
assignments, with the old and new values, who made the change, and
when. Actor IDs are shown as names when the user list is available.`,
		Usage: "resolve ticket audit <ticket-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the history of ticket 42",
				Command:     "resolve ticket audit 42",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			ticketID, err := parseTicketID(args, "resolve ticket audit <ticket-id>")
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionAudit)
			if err != nil {
				return err
			}
			entries, err := service.Client.Audit(ctx, ticketID)
			if err != nil {
				return cli.FromAPIError(err)
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}
			if len(entries) == 0 {
				logger.Info("no history recorded", "ticket", ticketID)
				return nil
			}

			// Names are a nicety; the ids are printed without them.
			var users map[int64]ticket.User
			if list, err := service.Client.Users(ctx); err == nil {
				users = ticketfilter.UserIndex(list)
			} else {
				logger.Debug("could not load users for names", "error", err)
			}
			return writeAuditTable(entries, users)
		},
	}
}
