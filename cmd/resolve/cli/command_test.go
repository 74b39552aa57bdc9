// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func execute(t *testing.T, root *Command, args ...string) error {
	t.Helper()
	return root.ExecuteContext(context.Background(), args, discardLogger())
}

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "resolve",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "ticket",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "ticket"
					return nil
				},
			},
		},
	}

	if err := execute(t, root, "ticket"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "ticket" {
		t.Errorf("dispatched to %q, want %q", called, "ticket")
	}
}

func TestCommand_Execute_NestedSubcommandsAndArgs(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "resolve",
		Subcommands: []*Command{
			{
				Name: "ticket",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := execute(t, root, "ticket", "show", "42"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "42" {
		t.Errorf("args = %v, want [42]", receivedArgs)
	}
}

func TestCommand_Execute_UnknownSubcommandSuggests(t *testing.T) {
	root := &Command{
		Name: "resolve",
		Subcommands: []*Command{
			{Name: "ticket", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "login", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := execute(t, root, "tikcet")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "ticket"`) {
		t.Errorf("error = %q, want a suggestion for ticket", err)
	}
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Errorf("unknown command should be a validation error, got %#v", err)
	}

	err = execute(t, root, "zzzzzzzz")
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion for a distant name", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "resolve",
		Subcommands: []*Command{{Name: "ticket"}},
	}
	err := execute(t, root)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %v, want subcommand required", err)
	}
}

type testParams struct {
	JSONOutput
	Status string `json:"status" flag:"status,s" desc:"status filter" default:"OPEN"`
	Ticket int64  `json:"ticket" flag:"ticket"   desc:"ticket id"     required:"true"`
}

func paramsCommand(params *testParams, ran *bool) *Command {
	return &Command{
		Name:        "status",
		Params:      func() any { return params },
		Annotations: Idempotent(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			*ran = true
			return nil
		},
	}
}

func TestCommand_Execute_BindsParams(t *testing.T) {
	var params testParams
	var ran bool
	root := &Command{Name: "resolve", Subcommands: []*Command{paramsCommand(&params, &ran)}}

	if err := execute(t, root, "status", "--ticket", "7", "-s", "ON_HOLD", "--json"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !ran || params.Ticket != 7 || params.Status != "ON_HOLD" || !params.OutputJSON {
		t.Errorf("params = %+v, ran = %v", params, ran)
	}

	// A second invocation starts from the defaults again.
	ran = false
	if err := execute(t, root, "status", "--ticket", "8"); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if params.Status != "OPEN" || params.OutputJSON {
		t.Errorf("params after second run = %+v, want defaults restored", params)
	}
}

func TestCommand_Execute_RequiredFlag(t *testing.T) {
	var params testParams
	var ran bool
	root := &Command{Name: "resolve", Subcommands: []*Command{paramsCommand(&params, &ran)}}

	err := execute(t, root, "status", "--status", "OPEN")
	if err == nil || !strings.Contains(err.Error(), "--ticket is required") {
		t.Fatalf("error = %v, want --ticket is required", err)
	}
	if ran {
		t.Error("Run should not be called when a required flag is missing")
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	var params testParams
	var ran bool
	root := &Command{Name: "resolve", Subcommands: []*Command{paramsCommand(&params, &ran)}}

	err := execute(t, root, "status", "--ticket", "1", "--stauts", "OPEN")
	if err == nil || !strings.Contains(err.Error(), "did you mean --status?") {
		t.Errorf("error = %v, want a --status suggestion", err)
	}
	if !strings.Contains(err.Error(), "Run 'resolve status --help' for usage.") {
		t.Errorf("error = %v, want the help pointer", err)
	}
}

func TestCommand_Execute_HelpFlagAfterArgs(t *testing.T) {
	var params testParams
	var ran bool
	root := &Command{Name: "resolve", Subcommands: []*Command{paramsCommand(&params, &ran)}}

	if err := execute(t, root, "status", "--help"); err != nil {
		t.Errorf("--help should not be an error: %v", err)
	}
	if ran {
		t.Error("--help should not run the command")
	}
}

func TestCommand_Execute_LoggerScopedWithPath(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	root := &Command{
		Name: "resolve",
		Subcommands: []*Command{{
			Name: "ticket",
			Subcommands: []*Command{{
				Name: "list",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					logger.Info("listing")
					return nil
				},
			}},
		}},
	}
	if err := root.ExecuteContext(context.Background(), []string{"ticket", "list"}, logger); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(buffer.String(), `"command":"ticket/list"`) {
		t.Errorf("log = %s, want the command path attribute", buffer.String())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params testParams
	var ran bool
	root := &Command{
		Name:        "resolve",
		Description: "Terminal client for the ticketing service.",
		Subcommands: []*Command{
			paramsCommand(&params, &ran),
			{Name: "logout", Summary: "Forget the saved session", Annotations: Destructive()},
		},
	}

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	help := buffer.String()
	for _, want := range []string{
		"Terminal client for the ticketing service.",
		"resolve <command> [flags]",
		"Forget the saved session (destructive)",
		"Run 'resolve <command> --help'",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	buffer.Reset()
	root.Subcommands[0].parent = root
	root.Subcommands[0].PrintHelp(&buffer)
	for _, want := range []string{"--status", "status filter", "--json", "--ticket"} {
		if !strings.Contains(buffer.String(), want) {
			t.Errorf("leaf help missing %q:\n%s", want, buffer.String())
		}
	}
}

func TestExtractVerbose(t *testing.T) {
	args, verbose := extractVerbose([]string{"ticket", "--verbose", "list", "--", "--verbose"})
	if !verbose {
		t.Error("verbose = false, want true")
	}
	want := []string{"ticket", "list", "--", "--verbose"}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", args, want)
	}
}
