// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// Modal chrome: 2 columns of border plus 2 of padding horizontally;
// 2 lines of border, a title and a footer vertically.
const (
	commentModalChromeWidth  = 4
	commentModalChromeHeight = 4
	commentModalMinWidth     = 30
	commentModalMinHeight    = 4
	commentModalMaxWidth     = 90
	commentModalMargin       = 2
)

// CommentModal is a centered overlay for writing a ticket comment.
// The owning model routes key messages to it while it is open and
// handles the submit (ctrl+d) and cancel (esc) keys itself.
type CommentModal struct {
	TicketID   int64
	Visibility ticket.Visibility

	// CanChooseVisibility enables the ctrl+v toggle. Requesters always
	// write requester-facing comments.
	CanChooseVisibility bool

	input textarea.Model
	theme Theme
}

// NewCommentModal creates a focused, empty comment editor.
func NewCommentModal(ticketID int64, visibility ticket.Visibility, canChooseVisibility bool, theme Theme) CommentModal {
	input := textarea.New()
	input.Placeholder = "Write a comment..."
	input.ShowLineNumbers = false
	input.Prompt = ""
	input.CharLimit = 4000
	input.Focus()
	return CommentModal{
		TicketID:            ticketID,
		Visibility:          visibility,
		CanChooseVisibility: canChooseVisibility,
		input:               input,
		theme:               theme,
	}
}

// Value returns the text entered so far.
func (modal CommentModal) Value() string {
	return modal.input.Value()
}

// Form returns the comment as a request body.
func (modal CommentModal) Form() ticket.CommentForm {
	return ticket.CommentForm{Comment: modal.Value(), Visibility: modal.Visibility}
}

// ToggleVisibility switches between internal and requester-facing.
func (modal *CommentModal) ToggleVisibility() {
	if !modal.CanChooseVisibility {
		return
	}
	if modal.Visibility == ticket.VisibilityInternal {
		modal.Visibility = ticket.VisibilityRequester
	} else {
		modal.Visibility = ticket.VisibilityInternal
	}
}

// Update feeds a key press to the editor.
func (modal *CommentModal) Update(message tea.KeyMsg) tea.Cmd {
	var command tea.Cmd
	modal.input, command = modal.input.Update(message)
	return command
}

// Render produces the modal lines and their top-left anchor for
// [SpliceOverlay].
func (modal CommentModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	modalWidth := min(max(screenWidth-commentModalMargin*2, commentModalMinWidth+commentModalChromeWidth), commentModalMaxWidth, screenWidth)
	modalHeight := min(max(screenHeight/2, commentModalMinHeight+commentModalChromeHeight), screenHeight)
	innerWidth := max(modalWidth-commentModalChromeWidth, 1)
	innerHeight := max(modalHeight-commentModalChromeHeight, 1)

	background := lipgloss.NewStyle().Background(modal.theme.OverlayBackground)
	titleStyle := background.Bold(true).Foreground(modal.theme.HeaderForeground)
	footerStyle := background.Foreground(modal.theme.FaintText)

	title := titleStyle.Render(fmt.Sprintf("Comment on #%d", modal.TicketID)) +
		background.Render("  ") + visibilityLabel(modal.theme, modal.Visibility)

	footerText := "Ctrl+D submit  Esc cancel"
	if modal.CanChooseVisibility {
		footerText += "  Ctrl+V visibility"
	}

	input := modal.input
	input.SetWidth(innerWidth)
	input.SetHeight(innerHeight)

	var body []string
	body = append(body, fillLine(title, innerWidth, background))
	for _, line := range strings.Split(input.View(), "\n") {
		body = append(body, fillLine(line, innerWidth, background))
	}
	body = append(body, fillLine(footerStyle.Render(footerText), innerWidth, background))

	rendered := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		Background(modal.theme.OverlayBackground).
		Padding(0, 1).
		Render(strings.Join(body, "\n"))

	lines := strings.Split(rendered, "\n")
	width := 0
	if len(lines) > 0 {
		width = ansi.StringWidth(lines[0])
	}
	anchorX, anchorY := CenterAnchor(screenWidth, screenHeight, width, len(lines))
	return lines, anchorX, anchorY
}

func visibilityLabel(theme Theme, visibility ticket.Visibility) string {
	if visibility == ticket.VisibilityInternal {
		return Badge(theme, "Internal", theme.StatusOnHold)
	}
	return Badge(theme, "Visible to requester", theme.StatusOpen)
}

// fillLine truncates or pads a styled line to exactly width columns.
func fillLine(line string, width int, background lipgloss.Style) string {
	lineWidth := ansi.StringWidth(line)
	if lineWidth > width {
		return ansi.Truncate(line, width, "")
	}
	return line + background.Render(strings.Repeat(" ", width-lineWidth))
}
