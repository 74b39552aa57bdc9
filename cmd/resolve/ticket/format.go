// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/segmento/resolve/cmd/resolve/cli"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/tui"
)

// parseTicketID reads the single positional ticket id. A leading "#"
// is accepted.
func parseTicketID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, cli.Validation("ticket ID is required\n\nUsage: %s", usage)
	}
	if len(args) > 1 {
		return 0, cli.Validation("expected 1 positional argument, got %d", len(args))
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid ticket ID %q", args[0])
	}
	return id, nil
}

// writeTicketTable writes tickets as an aligned table.
func writeTicketTable(tickets []ticket.Ticket, now time.Time) error {
	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintf(writer, "ID\tSTATUS\tPRIORITY\tTYPE\tASSIGNEE\tCREATED\tTITLE\n")
	for index := range tickets {
		item := &tickets[index]
		fmt.Fprintf(writer, "#%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Status.Canonical(),
			item.Priority.Canonical(),
			item.RequestType.Canonical(),
			item.AssigneeDisplay(),
			valueOrDash(tui.RelativeTime(item.CreatedAt.Time, now)),
			truncate(item.Title, 60),
		)
	}
	return writer.Flush()
}

// writeTicketDetail writes the fields of one ticket, then its
// description.
func writeTicketDetail(item *ticket.Ticket) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(writer, "ID:\t#%d\n", item.ID)
	fmt.Fprintf(writer, "Title:\t%s\n", item.Title)
	fmt.Fprintf(writer, "Status:\t%s\n", item.Status.Label())
	fmt.Fprintf(writer, "Priority:\t%s\n", item.Priority.Label())
	fmt.Fprintf(writer, "Type:\t%s\n", item.RequestType.Label())
	if item.RequestedDataset != "" {
		fmt.Fprintf(writer, "Dataset:\t%s\n", item.RequestedDataset)
	}
	fmt.Fprintf(writer, "Requester:\t%s\n", item.RequesterDisplay())
	fmt.Fprintf(writer, "Assignee:\t%s\n", item.AssigneeDisplay())
	fmt.Fprintf(writer, "Created:\t%s\n", tui.FormatTimestamp(item.CreatedAt.Time))
	if !item.UpdatedAt.IsZero() {
		fmt.Fprintf(writer, "Updated:\t%s\n", tui.FormatTimestamp(item.UpdatedAt.Time))
	}
	if !item.DueDate.IsZero() {
		fmt.Fprintf(writer, "Due:\t%s\n", tui.FormatTimestamp(item.DueDate.Time))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if item.Description != "" {
		fmt.Printf("\n%s\n", item.Description)
	}
	return nil
}

// writeComments writes a comment thread, oldest first.
func writeComments(comments []ticket.Comment) {
	if len(comments) == 0 {
		fmt.Println("No comments yet.")
		return
	}
	for index := range comments {
		comment := &comments[index]
		fmt.Printf("%s  %s", tui.FormatTimestamp(comment.CreatedAt.Time), comment.AuthorDisplay())
		if comment.Visibility != "" {
			fmt.Printf(" [%s]", comment.Visibility)
		}
		fmt.Println()
		for _, line := range strings.Split(comment.Text, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
}

// writeAuditTable writes a ticket's change history. users resolves
// actor ids to names and may be nil.
func writeAuditTable(entries []ticket.AuditEntry, users map[int64]ticket.User) error {
	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintf(writer, "TIME\tACTION\tFROM\tTO\tBY\n")
	for index := range entries {
		entry := &entries[index]
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			tui.FormatTimestamp(entry.Timestamp.Time),
			entry.Action,
			valueOrDash(entry.OldValue),
			valueOrDash(entry.NewValue),
			entry.ActorDisplay(users),
		)
	}
	return writer.Flush()
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

// truncate shortens s to at most maxLength runes, ending in "...".
func truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength-3]) + "..."
}
