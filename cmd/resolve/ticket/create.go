// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
)

// --- create ---

type createParams struct {
	cli.Connection
	cli.JSONOutput
	Title       string `json:"title"       flag:"title"         desc:"ticket title"`
	Description string `json:"description" flag:"description,d" desc:"what you need (markdown); - reads standard input"`
	Type        string `json:"type"        flag:"type,t"        desc:"request type (access, report, bug, pipeline, feature, other) (default access)"`
	Priority    string `json:"priority"    flag:"priority,p"    desc:"priority (low, medium, high, critical) (default low)"`
	Dataset     string `json:"dataset"     flag:"dataset"       desc:"dataset the request concerns"`
	File        string `json:"file"        flag:"file,f"        desc:"read the ticket from a JSON file (comments and trailing commas allowed)"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Submit a new ticket",
		Description: `Create a ticket as the logged-in requester. The ticket starts OPEN and
unassigned; an admin assigns it to a data member.

Title and description are required. The request type defaults to
ACCESS and the priority to LOW. With --file the fields are read from a
JSON document using the service's field names (title, description,
requestType, priority, requestedDataset); flags given alongside
--file override the file.`,
		Usage: "resolve ticket create --title TITLE --description TEXT [flags]",
		Examples: []cli.Example{
			{
				Description: "Request access to a dataset",
				Command:     "resolve ticket create --title 'Access to sales_2025' --description 'Need read access for Q3 report' --dataset sales_2025",
			},
			{
				Description: "Report a broken pipeline",
				Command:     "resolve ticket create --title 'Nightly load failing' --type pipeline --priority high --description - < notes.md",
			},
			{
				Description: "Create from a file",
				Command:     "resolve ticket create --file ticket.jsonc",
			},
		},
		Params:      func() any { return &params },
		Annotations: cli.Create(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}

			form, err := params.form()
			if err != nil {
				return err
			}

			service, err := params.Open(logger, ticket.ActionCreate)
			if err != nil {
				return err
			}
			form.Requester = &ticket.UserRef{ID: service.User().ID}

			created, err := service.Client.CreateTicket(ctx, form)
			if err != nil {
				return cli.FromAPIError(err)
			}
			logger.Debug("ticket created", "ticket", created.ID)

			if done, err := params.EmitJSON(created); done {
				return err
			}
			fmt.Printf("Created ticket #%d: %s\n", created.ID, created.Title)
			return nil
		},
	}
}

// form assembles the creation form from --file and the flags.
func (params *createParams) form() (ticket.CreateTicketForm, error) {
	form := ticket.NewCreateTicketForm()
	if params.File != "" {
		if err := readTicketFile(params.File, &form); err != nil {
			return form, err
		}
	}

	if params.Title != "" {
		form.Title = params.Title
	}
	if params.Description == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return form, cli.Internal("reading description from stdin: %w", err)
		}
		form.Description = string(data)
	} else if params.Description != "" {
		form.Description = params.Description
	}
	if params.Type != "" {
		requestType, err := ticket.ParseRequestType(params.Type)
		if err != nil {
			return form, cli.Validation("--type: %w", err)
		}
		form.RequestType = requestType
	}
	if params.Priority != "" {
		priority, err := ticket.ParsePriority(params.Priority)
		if err != nil {
			return form, cli.Validation("--priority: %w", err)
		}
		form.Priority = priority
	}
	if params.Dataset != "" {
		form.RequestedDataset = params.Dataset
	}
	return form, nil
}

// readTicketFile decodes a JSONC ticket document into form. Fields the
// file omits keep their current values.
func readTicketFile(path string, form *ticket.CreateTicketForm) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return cli.Validation("reading %s: %w", path, err)
	}
	var file struct {
		Title            *string `json:"title"`
		Description      *string `json:"description"`
		RequestType      *string `json:"requestType"`
		Priority         *string `json:"priority"`
		RequestedDataset *string `json:"requestedDataset"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return cli.Validation("parsing %s: %w", path, err)
	}

	if file.Title != nil {
		form.Title = *file.Title
	}
	if file.Description != nil {
		form.Description = *file.Description
	}
	if file.RequestType != nil {
		requestType, err := ticket.ParseRequestType(*file.RequestType)
		if err != nil {
			return cli.Validation("%s: %w", path, err)
		}
		form.RequestType = requestType
	}
	if file.Priority != nil {
		priority, err := ticket.ParsePriority(*file.Priority)
		if err != nil {
			return cli.Validation("%s: %w", path, err)
		}
		form.Priority = priority
	}
	if file.RequestedDataset != nil {
		form.RequestedDataset = *file.RequestedDataset
	}
	return nil
}
