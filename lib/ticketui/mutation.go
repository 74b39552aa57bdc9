// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
	"github.com/segmento/resolve/lib/tui"
)

// Mutation fields, carried in dropdowns and results.
const (
	fieldStatus   = "status"
	fieldAssignee = "assignee"
	fieldComment  = "comment"
)

// mutationResultMsg reports the outcome of a status change, assignment
// or comment.
type mutationResultMsg struct {
	ticketID int64
	field    string
	value    string

	// ticket is the updated ticket when the service returned one.
	ticket  *ticket.Ticket
	comment *ticket.Comment
	err     error
}

// openStatusDropdown opens the status menu for the selected ticket.
func (model *Model) openStatusDropdown() tea.Cmd {
	selected, ok := model.selectedTicket()
	if !ok {
		return nil
	}
	if model.mutator == nil || !model.can(ticket.ActionUpdateStatus) {
		return model.denied(ticket.ActionUpdateStatus)
	}
	options := make([]tui.DropdownOption, 0, len(ticket.Statuses))
	for _, status := range ticket.Statuses {
		options = append(options, tui.DropdownOption{Label: status.Label(), Value: string(status)})
	}
	dropdown := tui.NewDropdown("Status", fieldStatus, selected.ID, options, string(selected.Status.Canonical()))
	model.showDropdown(dropdown)
	return nil
}

// openAssignDropdown opens the data member menu for the selected
// ticket. It needs the user list, loaded at startup for every role
// that may assign.
func (model *Model) openAssignDropdown() tea.Cmd {
	selected, ok := model.selectedTicket()
	if !ok {
		return model.setStatus("Select ticket and data member", true)
	}
	if model.mutator == nil || !model.can(ticket.ActionAssign) {
		return model.denied(ticket.ActionAssign)
	}
	members := ticketfilter.DataMembers(model.users, "")
	if len(members) == 0 {
		return model.setStatus("Select ticket and data member", true)
	}
	options := make([]tui.DropdownOption, 0, len(members))
	for index := range members {
		options = append(options, tui.DropdownOption{
			Label: members[index].DisplayName(),
			Value: strconv.FormatInt(members[index].ID, 10),
		})
	}
	current := ""
	if selected.AssignedTo != nil {
		current = strconv.FormatInt(selected.AssignedTo.ID, 10)
	}
	dropdown := tui.NewDropdown("Assign to", fieldAssignee, selected.ID, options, current)
	model.showDropdown(dropdown)
	return nil
}

// showDropdown anchors a dropdown beside the cursor row and gives it
// focus.
func (model *Model) showDropdown(dropdown *tui.Dropdown) {
	dropdown.AnchorX = max(min(model.listWidth()-dropdown.Width()-2, model.width-dropdown.Width()), 0)
	rowY := model.contentStartY() + model.cursor - model.scrollOffset
	dropdown.AnchorY = max(min(rowY+1, model.height-len(dropdown.Options)-2), 0)
	model.dropdown = dropdown
	model.priorFocus = model.focusRegion
	model.focusRegion = FocusDropdown
}

func (model *Model) closeDropdown() {
	model.dropdown = nil
	model.focusRegion = model.priorFocus
}

func (model Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.dropdown == nil {
		model.focusRegion = FocusList
		return model, nil
	}
	switch {
	case message.Type == tea.KeyEsc:
		model.closeDropdown()
	case message.Type == tea.KeyEnter:
		option, ok := model.dropdown.Selected()
		field, ticketID := model.dropdown.Field, model.dropdown.TicketID
		model.closeDropdown()
		if !ok {
			return model, nil
		}
		return model, model.submitDropdown(field, ticketID, option.Value)
	case key.Matches(message, model.keys.Up):
		model.dropdown.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.dropdown.MoveDown()
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit
	}
	return model, nil
}

// submitDropdown starts the request for a dropdown choice.
func (model *Model) submitDropdown(field string, ticketID int64, value string) tea.Cmd {
	ctx, mutator, actorID := model.ctx, model.mutator, model.viewer.ID
	switch field {
	case fieldStatus:
		status := ticket.Status(value)
		return func() tea.Msg {
			updated, err := mutator.UpdateStatus(ctx, ticketID, status, actorID)
			return mutationResultMsg{ticketID: ticketID, field: field, value: value, ticket: updated, err: err}
		}
	case fieldAssignee:
		userID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return model.setStatus("Select ticket and data member", true)
		}
		return func() tea.Msg {
			updated, err := mutator.Assign(ctx, ticketID, userID)
			return mutationResultMsg{ticketID: ticketID, field: field, value: value, ticket: updated, err: err}
		}
	}
	return nil
}

// openCommentModal opens the comment editor for the selected ticket.
// Staff default to internal comments and may switch; requesters always
// write requester-facing ones.
func (model *Model) openCommentModal() tea.Cmd {
	selected, ok := model.selectedTicket()
	if !ok {
		return nil
	}
	if model.mutator == nil || !model.can(ticket.ActionComment) {
		return model.denied(ticket.ActionComment)
	}
	canChoose := !model.viewer.Role.Is(ticket.RoleRequester)
	modal := tui.NewCommentModal(selected.ID, ticket.DefaultVisibility(model.viewer.Role), canChoose, model.theme)
	model.commentModal = &modal
	model.priorFocus = model.focusRegion
	model.focusRegion = FocusCommentModal
	return nil
}

func (model *Model) closeCommentModal() {
	model.commentModal = nil
	model.focusRegion = model.priorFocus
}

func (model Model) handleCommentModalKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.commentModal == nil {
		model.focusRegion = FocusList
		return model, nil
	}
	switch message.Type {
	case tea.KeyEsc:
		model.closeCommentModal()
		return model, nil
	case tea.KeyCtrlV:
		model.commentModal.ToggleVisibility()
		return model, nil
	case tea.KeyCtrlC:
		return model, tea.Quit
	case tea.KeyCtrlD:
		form := model.commentModal.Form()
		if err := form.Validate(); err != nil {
			return model, model.setStatus(err.Error(), true)
		}
		ticketID := model.commentModal.TicketID
		model.closeCommentModal()
		ctx, mutator, authorID := model.ctx, model.mutator, model.viewer.ID
		return model, func() tea.Msg {
			comment, err := mutator.AddComment(ctx, ticketID, authorID, form)
			return mutationResultMsg{ticketID: ticketID, field: fieldComment, comment: comment, err: err}
		}
	}
	return model, model.commentModal.Update(message)
}

// handleMutationResult applies a finished mutation to the list and the
// cached detail, then lights the row.
func (model Model) handleMutationResult(message mutationResultMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, tea.Batch(
			model.ignite(message.ticketID, tui.HeatFailed),
			model.setStatus(mutationFailure(message.field)+": "+message.err.Error(), true),
		)
	}

	var summary string
	switch message.field {
	case fieldStatus:
		status := ticket.Status(message.value)
		model.updateTicket(message.ticketID, message.ticket, func(item *ticket.Ticket) {
			item.Status = status
		})
		summary = fmt.Sprintf("Ticket #%d is now %s", message.ticketID, status.Label())
	case fieldAssignee:
		userID, _ := strconv.ParseInt(message.value, 10, 64)
		assignee := model.userIndex[userID]
		if assignee.ID == 0 {
			assignee.ID = userID
		}
		model.updateTicket(message.ticketID, message.ticket, func(item *ticket.Ticket) {
			item.AssignedTo = &assignee
			item.AssignedToName = assignee.DisplayName()
		})
		summary = fmt.Sprintf("Ticket #%d assigned to %s", message.ticketID, assignee.DisplayName())
	case fieldComment:
		content := model.detailFor(message.ticketID)
		if message.comment != nil && content.CommentsLoaded {
			content.Comments = append(content.Comments, *message.comment)
		} else {
			content.CommentsLoaded = false
		}
		summary = fmt.Sprintf("Comment added to #%d", message.ticketID)
	}

	// A tab whose membership depends on the change may now hold a
	// ticket that no longer belongs; filtering again drops it.
	model.applyFilter()

	content := model.detailFor(message.ticketID)
	content.AuditLoaded = false
	commands := []tea.Cmd{
		model.ignite(message.ticketID, tui.HeatUpdate),
		model.setStatus(summary, false),
	}
	if selected, ok := model.selectedTicket(); ok && selected.ID == message.ticketID {
		commands = append(commands, model.syncDetail())
	}
	return model, tea.Batch(commands...)
}

// updateTicket replaces a ticket in the base set with the service's
// copy, or applies change to the local copy when the service only
// acknowledged.
func (model *Model) updateTicket(ticketID int64, updated *ticket.Ticket, change func(*ticket.Ticket)) {
	for index := range model.tickets {
		if model.tickets[index].ID != ticketID {
			continue
		}
		if updated != nil {
			model.tickets[index] = *updated
		} else {
			change(&model.tickets[index])
		}
		break
	}
	if model.activeTab == TabOpen {
		model.tickets = ticketfilter.OpenTickets(model.tickets, model.viewer)
	}
}

func (model *Model) denied(action string) tea.Cmd {
	return model.setStatus(
		fmt.Sprintf("Only %s users can do that", ticket.AllowedRoles(action)), true)
}

func mutationFailure(field string) string {
	switch field {
	case fieldStatus:
		return "Status update failed"
	case fieldAssignee:
		return "Assignment failed"
	case fieldComment:
		return "Comment failed"
	}
	return strings.ToUpper(field[:1]) + field[1:] + " failed"
}
