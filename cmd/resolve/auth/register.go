// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
)

type registerParams struct {
	cli.Connection
	cli.JSONOutput
	Name         string `json:"name"  flag:"name,n"        desc:"full name" required:"true"`
	Email        string `json:"email" flag:"email,e"       desc:"account email" required:"true"`
	Role         string `json:"role"  flag:"role,r"        desc:"account role (REQUESTER, DATAMEMBER, ADMIN)" default:"REQUESTER"`
	PasswordFile string `json:"-"     flag:"password-file" desc:"file containing the password, or - to prompt (default: prompt)"`
}

// RegisterCommand returns the "register" command.
func RegisterCommand() *cli.Command {
	var params registerParams

	return &cli.Command{
		Name:    "register",
		Summary: "Create an account",
		Description: `Create a user account on the ticketing service. Registration does not
log in; run "resolve login" afterwards.`,
		Usage: "resolve register --name NAME --email EMAIL [flags]",
		Examples: []cli.Example{
			{
				Description: "Register a requester",
				Command:     "resolve register --name 'Rae Requester' --email rae@example.com",
			},
			{
				Description: "Register a data member",
				Command:     "resolve register --name 'Dana Member' --email dana@example.com --role DATAMEMBER",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Create(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			role, err := ticket.ParseRole(params.Role)
			if err != nil {
				return cli.Validation("--role: %w", err)
			}

			service, err := params.OpenAnonymous(logger)
			if err != nil {
				return err
			}
			password, err := cli.ReadPassword(params.PasswordFile)
			if err != nil {
				return err
			}

			created, err := service.Client.Register(ctx, ticket.RegisterForm{
				Name:     params.Name,
				Email:    params.Email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return cli.FromAPIError(err)
			}

			if done, err := params.EmitJSON(created); done {
				return err
			}
			fmt.Println("Registration successful!")
			if created.ID != 0 {
				fmt.Printf("  %s <%s>, %s, id %d\n", created.DisplayName(), created.Email, created.Role.Label(), created.ID)
			}
			return nil
		},
	}
}
