// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/apiclient"
	"github.com/segmento/resolve/lib/chat"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/session"
)

type loginParams struct {
	cli.Connection
	cli.JSONOutput
	Email        string `json:"email"         flag:"email,e"       desc:"account email" required:"true"`
	PasswordFile string `json:"-"             flag:"password-file" desc:"file containing the password, or - to prompt (default: prompt)"`
}

// loginResult is the --json output of login and whoami. The token is
// never printed.
type loginResult struct {
	User      ticket.User `json:"user"`
	BaseURL   string      `json:"base_url"`
	ExpiresAt string      `json:"expires_at,omitempty"`
}

// LoginCommand returns the "login" command.
func LoginCommand() *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and save the session",
		Description: `Exchange an email and password for a bearer token and save it, with
the account's profile, to the session file. Every other command reads
the session from there; the account's role decides which of them are
available.

The password is read from --password-file, or prompted for on the
terminal with echo disabled.`,
		Usage: "resolve login --email EMAIL [flags]",
		Examples: []cli.Example{
			{
				Description: "Sign in interactively",
				Command:     "resolve login --email ada@example.com",
			},
			{
				Description: "Sign in from a script",
				Command:     "resolve login --email ci@example.com --password-file ~/.resolve-password",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Idempotent(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}

			service, err := params.OpenAnonymous(logger)
			if err != nil {
				return err
			}
			password, err := cli.ReadPassword(params.PasswordFile)
			if err != nil {
				return err
			}

			result, err := service.Client.Login(ctx, ticket.LoginForm{Email: params.Email, Password: password})
			if err != nil {
				if apiclient.IsStatus(err, http.StatusUnauthorized) {
					return &cli.ToolError{Category: cli.CategoryForbidden, Err: err}
				}
				return cli.FromAPIError(err)
			}
			if result.Token == "" || result.User.ID == 0 {
				return cli.Internal("login response carried no token or user")
			}

			saved := &session.Session{
				Token:   result.Token,
				User:    result.User,
				BaseURL: service.Config.API.BaseURL,
			}
			if err := service.Store.Save(saved); err != nil {
				return cli.Internal("%w", err)
			}
			logger.Debug("session saved", "path", service.Store.Path(), "user", saved.User.ID)

			if done, err := params.EmitJSON(describe(saved)); done {
				return err
			}
			fmt.Printf("Logged in as %s (%s).\n", saved.User.DisplayName(), saved.User.Role.Label())
			fmt.Printf("Start with: %s\n", landingCommand(saved.User.Role))
			return nil
		},
	}
}

type logoutParams struct {
	cli.Connection
	KeepChat bool `json:"keep_chat" flag:"keep-chat" desc:"keep the saved chat conversation"`
}

// LogoutCommand returns the "logout" command.
func LogoutCommand() *cli.Command {
	var params logoutParams

	return &cli.Command{
		Name:    "logout",
		Summary: "Forget the saved session",
		Description: `Remove the session file and the logged-in user's saved chat
conversation. Logging out when nobody is logged in is not an error.`,
		Usage:       "resolve logout [flags]",
		Params:      func() any { return &params },
		Annotations: cli.Destructive(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			service, err := params.OpenAnonymous(logger)
			if err != nil {
				return err
			}

			saved, err := service.Store.Load()
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				return cli.Internal("%w", err)
			}
			if err := service.Store.Clear(); err != nil {
				return cli.Internal("%w", err)
			}
			if saved != nil && !params.KeepChat {
				history := chat.NewHistoryStore(service.Config.ChatHistoryDir())
				if err := history.Clear(saved.User.ID); err != nil {
					logger.Warn("clearing chat history failed", "error", err)
				}
			}

			if saved == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("Logged out %s.\n", saved.User.DisplayName())
			return nil
		},
	}
}

type whoamiParams struct {
	cli.Connection
	cli.JSONOutput
}

// WhoAmICommand returns the "whoami" command.
func WhoAmICommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the logged-in account",
		Description: `Print the saved session's user, role, service, and token expiry.
Reads only the session file; nothing is sent to the service.`,
		Usage:       "resolve whoami [flags]",
		Params:      func() any { return &params },
		Annotations: cli.ReadOnly(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			service, err := params.Open(logger, ticket.ActionList)
			if err != nil {
				return err
			}

			result := describe(service.Session)
			if done, err := params.EmitJSON(result); done {
				return err
			}

			user := service.User()
			fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
			fmt.Printf("  id:      %d\n", user.ID)
			fmt.Printf("  role:    %s\n", user.Role.Label())
			fmt.Printf("  service: %s\n", result.BaseURL)
			if result.ExpiresAt != "" {
				fmt.Printf("  expires: %s\n", result.ExpiresAt)
			}
			return nil
		},
	}
}

func describe(saved *session.Session) loginResult {
	result := loginResult{User: saved.User, BaseURL: saved.BaseURL}
	if expiresAt, ok := saved.ExpiresAt(); ok {
		result.ExpiresAt = expiresAt.UTC().Format("2006-01-02 15:04 MST")
	}
	return result
}

// landingCommand is where each role starts: requesters file tickets,
// data members work their assignments, admins triage everything.
func landingCommand(role ticket.Role) string {
	switch role.Canonical() {
	case ticket.RoleRequester:
		return "resolve ticket create"
	case ticket.RoleDataMember:
		return "resolve ticket assigned"
	}
	return "resolve ticket viewer"
}
