// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketui"
	"github.com/segmento/resolve/lib/tui"
)

// ViewerCommand returns the "viewer" subcommand that launches the
// interactive ticket browser.
func ViewerCommand() *cli.Command {
	var connection cli.Connection
	var themeName string

	return &cli.Command{
		Name:    "viewer",
		Summary: "Interactive ticket browser",
		Description: `Launch an interactive terminal UI for browsing and working tickets.

The tabs, keys, and menus follow your role. Everyone can search,
filter, and read comments and history; requesters comment on their own
tickets; data members get an "Assigned to me" tab and change status;
admins also assign tickets to data members.

The bottom line lists the keys that apply to the focused pane. Warnings
from the API client appear there too instead of on stderr.`,
		Usage: "resolve ticket viewer [flags]",
		Examples: []cli.Example{
			{
				Description: "Open the browser",
				Command:     "resolve ticket viewer",
			},
			{
				Description: "Open without colors",
				Command:     "resolve ticket viewer --theme plain",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("viewer", pflag.ContinueOnError)
			connection.AddFlags(flagSet)
			flagSet.StringVar(&themeName, "theme", "", "color theme: dark or plain (default from config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			// The browser owns the terminal from here on, so records go to
			// the status bar.
			handler := ticketui.NewLogHandler(slog.LevelWarn)
			service, err := connection.Open(slog.New(handler), ticket.ActionList)
			if err != nil {
				return err
			}

			theme := service.Theme()
			if themeName != "" {
				theme = tui.ThemeNamed(themeName)
			}

			model := ticketui.NewModel(service.Client, ticketui.Options{
				Viewer:  service.User(),
				Theme:   theme,
				Context: ctx,
			})
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			handler.SetProgram(program)

			_, err = program.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}
