// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/tui"
)

// contentStartY is the screen row of the first list row: below the
// tab bar and the filter bar.
func (model Model) contentStartY() int {
	return 2
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading…"
	}

	header := model.renderHeader()
	filterBar := model.filter.View(model.theme, model.width)
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		model.renderListPane(),
		model.renderDivider(),
		model.detailPane.View(model.focusRegion == FocusDetail),
	)
	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	view := lipgloss.JoinVertical(lipgloss.Left, header, filterBar, content, separator, model.renderHelp())

	if model.dropdown != nil {
		view = tui.SpliceOverlay(view, model.dropdown.Render(model.theme), model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	if model.commentModal != nil {
		lines, anchorX, anchorY := model.commentModal.Render(model.width, model.height)
		view = tui.SpliceOverlay(view, lines, anchorX, anchorY)
	}
	return view
}

// renderHeader draws the tabs on the left and the viewer on the right.
func (model Model) renderHeader() string {
	active := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Underline(true)
	inactive := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var tabs []string
	for index, tab := range model.tabs() {
		label := fmt.Sprintf("%d %s", index+1, tab)
		if tab == model.activeTab {
			label = active.Render(label)
			if !model.loading && model.loadError == nil {
				label += inactive.Render(fmt.Sprintf(" (%d)", len(model.results)))
			}
		} else {
			label = inactive.Render(label)
		}
		tabs = append(tabs, label)
	}
	left := " " + strings.Join(tabs, "   ")

	right := lipgloss.NewStyle().Foreground(model.theme.NormalText).Render(model.viewer.DisplayName()) +
		" " + tui.RoleBadge(model.theme, model.viewer.Role) + " "

	gap := max(model.width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	line := left + strings.Repeat(" ", gap) + right
	return ansi.Truncate(line, model.width, "")
}

// renderListPane draws the visible rows, or the empty state.
func (model Model) renderListPane() string {
	width := model.listWidth()
	visible := model.visibleHeight()
	paneStyle := lipgloss.NewStyle().Width(width).Height(visible)

	if model.loading || model.loadError != nil || len(model.results) == 0 {
		return paneStyle.Render(model.renderEmpty(width, visible))
	}

	now := model.now()
	renderer := NewListRenderer(model.theme, width, now)
	end := min(model.scrollOffset+visible, len(model.results))
	rows := make([]string, 0, visible)
	for index := model.scrollOffset; index < end; index++ {
		result := model.results[index]
		rows = append(rows, renderer.RenderRow(result.Ticket, RowState{
			Selected:       index == model.cursor,
			TitlePositions: result.TitlePositions,
			Heat:           model.heat.Heat(result.Ticket.ID, now),
			HeatKind:       model.heat.Kind(result.Ticket.ID),
		}))
	}
	return paneStyle.Render(strings.Join(rows, "\n"))
}

// renderEmpty centers the loading, error or no-results message.
func (model Model) renderEmpty(width, height int) string {
	style := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	text := "No items found"
	switch {
	case model.loading:
		text = "Loading…"
	case model.loadError != nil:
		style = lipgloss.NewStyle().Foreground(model.theme.ErrorText)
		text = model.loadError.Error()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		style.Width(max(width-4, 1)).Align(lipgloss.Center).Render(text))
}

func (model Model) renderDivider() string {
	style := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	lines := make([]string, model.visibleHeight())
	for index := range lines {
		lines[index] = style.Render("│")
	}
	return strings.Join(lines, "\n")
}

// renderHelp draws the status message when one is showing, otherwise
// the key hints for the focused region, with the focus and position on
// the right.
func (model Model) renderHelp() string {
	now := model.now()
	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	var left string
	if model.status.Visible(now) {
		style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
		if model.status.IsError {
			style = style.Foreground(model.theme.ErrorText)
		}
		if model.status.Fading(now) {
			style = style.Faint(true)
		}
		left = " " + style.Render(model.status.Text)
	} else {
		left = " " + helpStyle.Render(model.helpText())
	}

	focus := "LIST"
	switch model.focusRegion {
	case FocusDetail:
		focus = "DETAIL"
	case FocusFilter:
		focus = "SEARCH"
	case FocusDropdown:
		focus = "MENU"
	case FocusCommentModal:
		focus = "COMMENT"
	}
	position := "0/0"
	if len(model.results) > 0 {
		position = fmt.Sprintf("%d/%d", model.cursor+1, len(model.results))
	}
	right := helpStyle.Render(fmt.Sprintf("sort:%s [%s] %s ", model.sortOrder, focus, position))

	gap := max(model.width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	return ansi.Truncate(left+strings.Repeat(" ", gap)+right, model.width, "")
}

// helpText lists the keys that do something for this viewer now.
func (model Model) helpText() string {
	bindings := []key.Binding{model.keys.Down, model.keys.FocusToggle, model.keys.FilterActivate}
	if model.focusRegion == FocusFilter {
		return "type to search  Enter keep  Esc clear"
	}
	bindings = append(bindings, model.keys.CycleStatusFilter, model.keys.CyclePriorityFilter, model.keys.CycleSort)
	if model.mutator != nil {
		if model.can(ticket.ActionUpdateStatus) {
			bindings = append(bindings, model.keys.ChangeStatus)
		}
		if model.can(ticket.ActionAssign) && model.lister != nil {
			bindings = append(bindings, model.keys.Assign)
		}
		if model.can(ticket.ActionComment) {
			bindings = append(bindings, model.keys.Comment)
		}
	}
	bindings = append(bindings, model.keys.Refresh, model.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
