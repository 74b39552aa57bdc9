// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/segmento/resolve/lib/markdown"
	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/tui"
)

// detailHeaderLines is the fixed height of the header above the
// scrolling body, so switching tickets never shifts the body.
//
//	Line 1: [Status] [Priority]  Access request  #101
//	Line 2: title
//	Line 3: requester / assignee / created / updated
//	Line 4: separator
const detailHeaderLines = 4

// DetailContent is everything the detail pane shows for one ticket.
// Comments and audit entries load separately after the ticket is
// selected; the Loaded flags distinguish "none" from "not yet".
type DetailContent struct {
	Ticket ticket.Ticket

	Comments       []ticket.Comment
	CommentsLoaded bool
	CommentsError  error

	Audit       []ticket.AuditEntry
	AuditLoaded bool
	AuditError  error

	// Users resolves audit actor ids to names. May be nil.
	Users map[int64]ticket.User
}

// DetailRenderer builds the header and body strings for a ticket.
type DetailRenderer struct {
	theme tui.Theme
	width int
	now   time.Time
}

// NewDetailRenderer creates a DetailRenderer for the given width.
func NewDetailRenderer(theme tui.Theme, width int, now time.Time) DetailRenderer {
	return DetailRenderer{theme: theme, width: max(width, 10), now: now}
}

// RenderHeader produces exactly [detailHeaderLines] lines.
func (renderer DetailRenderer) RenderHeader(item ticket.Ticket) string {
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)

	meta := tui.StatusBadge(renderer.theme, item.Status) + " " +
		tui.PriorityBadge(renderer.theme, item.Priority) + "  " +
		faint.Render(fmt.Sprintf("%s  #%d", item.RequestType.Label(), item.ID))

	title := ansi.Truncate(item.Title, renderer.width, "…")

	people := fmt.Sprintf("by %s · %s", item.RequesterDisplay(), item.AssigneeDisplay())
	if created := tui.RelativeTime(item.CreatedAt.Time, renderer.now); created != "" {
		people += " · created " + created
	}
	if updated := tui.RelativeTime(item.UpdatedAt.Time, renderer.now); updated != "" {
		people += " · updated " + updated
	}

	separator := lipgloss.NewStyle().Foreground(renderer.theme.BorderColor).Render(strings.Repeat("─", renderer.width))

	return strings.Join([]string{
		ansi.Truncate(meta, renderer.width, "…"),
		titleStyle.Render(title),
		faint.Render(ansi.Truncate(people, renderer.width, "…")),
		separator,
	}, "\n")
}

// RenderBody produces the scrolling part: description, fields,
// comments, and history.
func (renderer DetailRenderer) RenderBody(content DetailContent) string {
	item := content.Ticket
	var sections []string

	description := markdown.Render(item.Description, renderer.theme, renderer.width)
	if description == "" {
		description = lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render("No description.")
	}
	sections = append(sections, renderer.sectionTitle("Description")+"\n"+description)

	var fields []string
	if item.RequestedDataset != "" {
		fields = append(fields, renderer.field("Dataset", item.RequestedDataset))
	}
	if !item.DueDate.IsZero() {
		fields = append(fields, renderer.field("Due", tui.FormatTimestamp(item.DueDate.Time)))
	}
	fields = append(fields, renderer.field("Created", tui.FormatTimestamp(item.CreatedAt.Time)))
	if !item.UpdatedAt.IsZero() {
		fields = append(fields, renderer.field("Updated", tui.FormatTimestamp(item.UpdatedAt.Time)))
	}
	sections = append(sections, strings.Join(fields, "\n"))

	sections = append(sections, renderer.renderComments(content))
	sections = append(sections, renderer.renderAudit(content))

	return strings.Join(sections, "\n\n")
}

func (renderer DetailRenderer) sectionTitle(title string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.NormalText).Render(title)
}

func (renderer DetailRenderer) field(name, value string) string {
	label := lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render(fmt.Sprintf("%-8s", name))
	return label + " " + value
}

func (renderer DetailRenderer) placeholder(loaded bool, err error, empty string) (string, bool) {
	switch {
	case err != nil:
		return lipgloss.NewStyle().Foreground(renderer.theme.ErrorText).Render(err.Error()), true
	case !loaded:
		return lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render("Loading…"), true
	case empty != "":
		return lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render(empty), true
	}
	return "", false
}

func (renderer DetailRenderer) renderComments(content DetailContent) string {
	title := renderer.sectionTitle(fmt.Sprintf("Comments (%d)", len(content.Comments)))
	empty := ""
	if len(content.Comments) == 0 {
		empty = "No comments yet."
	}
	if text, ok := renderer.placeholder(content.CommentsLoaded, content.CommentsError, empty); ok {
		return title + "\n" + text
	}

	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	author := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.NormalText)

	var blocks []string
	for _, comment := range content.Comments {
		line := author.Render(comment.AuthorDisplay())
		if comment.Visibility == ticket.VisibilityInternal {
			line += " " + tui.Badge(renderer.theme, "Internal", renderer.theme.StatusOnHold)
		}
		if age := tui.RelativeTime(comment.CreatedAt.Time, renderer.now); age != "" {
			line += faint.Render(" · " + age)
		}
		body := markdown.Render(comment.Text, renderer.theme, renderer.width-2)
		blocks = append(blocks, line+"\n"+indent(body, "  "))
	}
	return title + "\n" + strings.Join(blocks, "\n\n")
}

func (renderer DetailRenderer) renderAudit(content DetailContent) string {
	title := renderer.sectionTitle("History")
	empty := ""
	if len(content.Audit) == 0 {
		empty = "No changes recorded."
	}
	if text, ok := renderer.placeholder(content.AuditLoaded, content.AuditError, empty); ok {
		return title + "\n" + text
	}

	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	var lines []string
	for _, entry := range content.Audit {
		change := entry.Action
		if entry.OldValue != "" || entry.NewValue != "" {
			change += ": " + valueOrDash(entry.OldValue) + " → " + valueOrDash(entry.NewValue)
		}
		line := faint.Render(padRight(tui.FormatTimestamp(entry.Timestamp.Time), 17)) +
			change + faint.Render(" · "+entry.ActorDisplay(content.Users))
		lines = append(lines, ansi.Truncate(line, renderer.width, "…"))
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		lines[index] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// DetailPane is the right-hand pane: a fixed header over a scrolling
// bubbles viewport, with a scrollbar column.
type DetailPane struct {
	viewport viewport.Model
	theme    tui.Theme
	width    int
	height   int

	hasContent bool
	content    DetailContent
	header     string
	renderTime time.Time
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(theme tui.Theme) DetailPane {
	return DetailPane{theme: theme}
}

func (pane DetailPane) bodyHeight() int {
	return max(pane.height-detailHeaderLines, 1)
}

// contentWidth leaves a padding column on the left and the scrollbar
// on the right.
func (pane DetailPane) contentWidth() int {
	return max(pane.width-2, 1)
}

// SetSize resizes the pane, re-rendering at the new width.
func (pane *DetailPane) SetSize(width, height int) {
	previousWidth := pane.width
	pane.width = width
	pane.height = height
	pane.viewport.Width = pane.contentWidth()
	pane.viewport.Height = pane.bodyHeight()
	if pane.hasContent && width != previousWidth {
		pane.render(true)
	}
}

// SetContent shows content. The scroll position resets when the
// ticket changes and is kept when the same ticket is refreshed (for
// example when its comments arrive).
func (pane *DetailPane) SetContent(content DetailContent, now time.Time) {
	sameTicket := pane.hasContent && pane.content.Ticket.ID == content.Ticket.ID
	pane.hasContent = true
	pane.content = content
	pane.renderTime = now
	pane.render(sameTicket)
}

// Content returns what the pane currently shows.
func (pane DetailPane) Content() (DetailContent, bool) {
	return pane.content, pane.hasContent
}

// Clear empties the pane.
func (pane *DetailPane) Clear() {
	pane.hasContent = false
	pane.content = DetailContent{}
	pane.header = ""
	pane.viewport.SetContent("")
}

func (pane *DetailPane) render(keepOffset bool) {
	previousOffset := pane.viewport.YOffset
	renderer := NewDetailRenderer(pane.theme, pane.contentWidth(), pane.renderTime)
	pane.header = renderer.RenderHeader(pane.content.Ticket)
	body := lipgloss.NewStyle().Width(pane.contentWidth()).Render(renderer.RenderBody(pane.content))
	pane.viewport.SetContent(body)
	if !keepOffset {
		pane.viewport.GotoTop()
		return
	}
	maxOffset := max(pane.viewport.TotalLineCount()-pane.viewport.Height, 0)
	pane.viewport.SetYOffset(min(previousOffset, maxOffset))
}

// ScrollUp scrolls the body by one line.
func (pane *DetailPane) ScrollUp() { pane.viewport.ScrollUp(1) }

// ScrollDown scrolls the body by one line.
func (pane *DetailPane) ScrollDown() { pane.viewport.ScrollDown(1) }

// PageUp scrolls the body by half a page.
func (pane *DetailPane) PageUp() { pane.viewport.HalfPageUp() }

// PageDown scrolls the body by half a page.
func (pane *DetailPane) PageDown() { pane.viewport.HalfPageDown() }

// View renders the pane at its full size.
func (pane DetailPane) View(focused bool) string {
	padded := lipgloss.NewStyle().PaddingLeft(1).Width(pane.width - 1)

	if !pane.hasContent {
		empty := lipgloss.Place(
			pane.contentWidth(), pane.height,
			lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(pane.theme.FaintText).Render("Select a ticket to view details"),
		)
		scrollbar := tui.RenderScrollbar(pane.theme, pane.height, 0, pane.height, 0, focused)
		return lipgloss.JoinHorizontal(lipgloss.Top, padded.Height(pane.height).Render(empty), scrollbar)
	}

	header := padded.Height(detailHeaderLines).Render(pane.header)
	body := padded.Height(pane.bodyHeight()).Render(pane.viewport.View())

	headerColumn := lipgloss.NewStyle().Width(1).Height(detailHeaderLines).Render("")
	scrollbar := tui.RenderScrollbar(
		pane.theme, pane.bodyHeight(),
		pane.viewport.TotalLineCount(), pane.viewport.Height, pane.viewport.YOffset,
		focused,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, header+"\n"+body, headerColumn+"\n"+scrollbar)
}
