// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/tui"
)

func TestRenderRow_HighlightedTitle(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	item := ticket.Ticket{
		ID:        7,
		Title:     "Sales access",
		Priority:  ticket.PriorityHigh,
		Status:    ticket.StatusOpen,
		CreatedAt: ticket.Timestamp{Time: now.Add(-time.Hour)},
	}

	for _, theme := range []tui.Theme{tui.PlainTheme, tui.DefaultTheme} {
		renderer := NewListRenderer(theme, 80, now)
		plain := ansi.Strip(renderer.RenderRow(item, RowState{}))
		highlighted := ansi.Strip(renderer.RenderRow(item, RowState{Selected: true, TitlePositions: []int{0, 1, 2}}))

		if !strings.Contains(highlighted, "#7") || !strings.Contains(highlighted, "Sales access") {
			t.Errorf("row = %q", highlighted)
		}
		if plain != highlighted {
			t.Errorf("highlighting changed the row text:\n%q\n%q", plain, highlighted)
		}
		if width := ansi.StringWidth(highlighted); width != 80 {
			t.Errorf("row width = %d, want the pane width", width)
		}
	}
}
