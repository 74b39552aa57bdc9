// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete resolve command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	authcmd "github.com/segmento/resolve/cmd/resolve/auth"
	chatcmd "github.com/segmento/resolve/cmd/resolve/chat"
	"github.com/segmento/resolve/cmd/resolve/cli"
	ticketcmd "github.com/segmento/resolve/cmd/resolve/ticket"
	usercmd "github.com/segmento/resolve/cmd/resolve/user"
	"github.com/segmento/resolve/lib/version"
)

// Root builds and returns the complete resolve command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "resolve",
		Description: `resolve: terminal client for the Segmento ticketing service.

Requesters file tickets and follow their progress, data members work
the tickets assigned to them, and admins triage the queue and manage
user roles. The support assistant is available to everyone, logged
in or not.`,
		Subcommands: []*cli.Command{
			authcmd.LoginCommand(),
			authcmd.LogoutCommand(),
			authcmd.RegisterCommand(),
			authcmd.WhoAmICommand(),
			ticketcmd.Command(),
			usercmd.Command(),
			usercmd.AdminCommand(),
			chatcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("resolve %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Log in (prompts for the password)",
				Command:     "resolve login --email rae@example.com",
			},
			{
				Description: "File a ticket",
				Command:     "resolve ticket create --title 'Access to sales dataset' --type ACCESS_REQUEST --priority HIGH",
			},
			{
				Description: "See the tickets assigned to you",
				Command:     "resolve ticket assigned",
			},
			{
				Description: "Browse and triage tickets interactively",
				Command:     "resolve ticket viewer",
			},
			{
				Description: "Ask the support assistant",
				Command:     "resolve chat",
			},
		},
	}
}
