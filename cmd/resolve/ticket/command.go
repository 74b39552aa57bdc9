// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import "github.com/segmento/resolve/cmd/resolve/cli"

// Command returns the "ticket" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "ticket",
		Summary: "Create, browse, and work support tickets",
		Description: `View and manage tickets on the ticketing service.

Which subcommands are available depends on the logged-in role.
Requesters create tickets and follow their own; data members work the
tickets assigned to them; admins see everything and assign tickets to
data members. "resolve ticket viewer" opens an interactive browser
covering all of it.`,
		Subcommands: []*cli.Command{
			listCommand(),
			openCommand(),
			assignedCommand(),
			showCommand(),
			createCommand(),
			statusCommand(),
			assignCommand(),
			commentCommand(),
			auditCommand(),
			ViewerCommand(),
		},
	}
}
