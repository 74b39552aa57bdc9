// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/tui"
)

// Fixed column widths of a list row. The title takes the remainder.
const (
	columnWidthGlyph    = 2
	columnWidthID       = 7
	columnWidthStatus   = 14
	columnWidthAssignee = 14
	columnWidthAge      = 13
	minimumTitleWidth   = 10
)

// RowState carries the per-row decorations that come from the model
// rather than from the ticket itself.
type RowState struct {
	Selected bool

	// TitlePositions are rune offsets into the title that matched the
	// search query.
	TitlePositions []int

	// Heat is the remaining glow after a mutation, 0 to 1.
	Heat     float64
	HeatKind tui.HeatKind
}

// ListRenderer formats ticket rows for the list pane.
type ListRenderer struct {
	theme tui.Theme
	width int
	now   time.Time
}

// NewListRenderer creates a ListRenderer for the given width. now
// drives the relative "created" column.
func NewListRenderer(theme tui.Theme, width int, now time.Time) ListRenderer {
	return ListRenderer{theme: theme, width: width, now: now}
}

// columns returns the columns left for the title, dropping the
// assignee and age columns on narrow panes.
func (renderer ListRenderer) columns() (title int, showAssignee, showAge bool) {
	title = renderer.width - columnWidthGlyph - columnWidthID - columnWidthStatus
	showAssignee = title-columnWidthAssignee >= minimumTitleWidth*2
	if showAssignee {
		title -= columnWidthAssignee
	}
	showAge = title-columnWidthAge >= minimumTitleWidth*2
	if showAge {
		title -= columnWidthAge
	}
	return max(title, minimumTitleWidth), showAssignee, showAge
}

// RenderRow renders one ticket:
//
//	● #204   Dashboard bug               [Open]        Unassigned    3h ago
func (renderer ListRenderer) RenderRow(item ticket.Ticket, state RowState) string {
	titleWidth, showAssignee, showAge := renderer.columns()

	base := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	highlight := base.Background(renderer.theme.SearchHighlightBackground).Bold(true)
	if state.Heat > 0 {
		tint := renderer.theme.HotAccentUpdate
		if state.HeatKind == tui.HeatFailed {
			tint = renderer.theme.HotAccentFailed
		}
		base = base.Background(tint)
		faint = faint.Background(tint)
	}
	if state.Selected {
		base = base.Foreground(renderer.theme.SelectedForeground).Background(renderer.theme.SelectedBackground).Bold(true)
		faint = faint.Background(renderer.theme.SelectedBackground)
		if renderer.theme.IsPlain() {
			base = base.Reverse(true)
			faint = faint.Reverse(true)
		}
	}

	title := item.Title
	positions := state.TitlePositions
	if ansi.StringWidth(title) > titleWidth {
		title = ansi.Truncate(title, titleWidth, "…")
	}
	renderedTitle := tui.HighlightMatches(title, positions, base.Render, highlight.Render)
	renderedTitle += base.Render(strings.Repeat(" ", max(titleWidth-ansi.StringWidth(title), 0)))

	var row strings.Builder
	row.WriteString(tui.PriorityGlyph(renderer.theme, item.Priority))
	row.WriteString(base.Render(" "))
	row.WriteString(faint.Render(padRight(fmt.Sprintf("#%d", item.ID), columnWidthID)))
	row.WriteString(renderedTitle)
	row.WriteString(base.Render(" "))
	row.WriteString(padStyled(tui.StatusBadge(renderer.theme, item.Status), columnWidthStatus-1, base))
	if showAssignee {
		row.WriteString(faint.Render(padRight(ansi.Truncate(item.AssigneeDisplay(), columnWidthAssignee-1, "…"), columnWidthAssignee)))
	}
	if showAge {
		row.WriteString(faint.Render(padRight(tui.RelativeTime(item.CreatedAt.Time, renderer.now), columnWidthAge)))
	}

	rendered := row.String()
	if width := ansi.StringWidth(rendered); width > renderer.width {
		return ansi.Truncate(rendered, renderer.width, "")
	} else if width < renderer.width {
		rendered += base.Render(strings.Repeat(" ", renderer.width-width))
	}
	return rendered
}

func padRight(text string, width int) string {
	if gap := width - ansi.StringWidth(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func padStyled(styled string, width int, fill lipgloss.Style) string {
	if gap := width - ansi.StringWidth(styled); gap > 0 {
		return styled + fill.Render(strings.Repeat(" ", gap))
	}
	return styled
}
