// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketfilter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// All is the filter value meaning "no constraint", as offered by the
// first entry of every filter dropdown.
const All = "ALL"

// Filter narrows a ticket list. Zero-valued fields (and fields set to
// [All]) do not constrain. All constraints AND together.
type Filter struct {
	// Search matches a case-insensitive substring of the title, or a
	// substring of the decimal ticket id.
	Search string `json:"search,omitempty"`

	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	RequestType string `json:"requestType,omitempty"`

	// Assignee matches the assignee's display name case-insensitively;
	// "Unassigned" selects tickets without one.
	Assignee string `json:"assignee,omitempty"`

	// RequesterID keeps only tickets created by this user when non-zero.
	RequesterID int64 `json:"requesterId,omitempty"`

	// AssigneeID keeps only tickets assigned to this user when non-zero.
	AssigneeID int64 `json:"assigneeId,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" &&
		unconstrained(f.Status) && unconstrained(f.Priority) &&
		unconstrained(f.RequestType) && unconstrained(f.Assignee) &&
		f.RequesterID == 0 && f.AssigneeID == 0
}

// Matches reports whether ticket passes every constraint.
func (f Filter) Matches(item *ticket.Ticket) bool {
	if search := strings.TrimSpace(f.Search); search != "" {
		titleMatch := strings.Contains(strings.ToLower(item.Title), strings.ToLower(search))
		idMatch := strings.Contains(strconv.FormatInt(item.ID, 10), search)
		if !titleMatch && !idMatch {
			return false
		}
	}
	if !unconstrained(f.Status) && !item.Status.Is(ticket.Status(f.Status)) {
		return false
	}
	if !unconstrained(f.Priority) && !item.Priority.Is(ticket.Priority(f.Priority)) {
		return false
	}
	if !unconstrained(f.RequestType) && !item.RequestType.Is(ticket.RequestType(f.RequestType)) {
		return false
	}
	if !unconstrained(f.Assignee) && !strings.EqualFold(item.AssigneeDisplay(), strings.TrimSpace(f.Assignee)) {
		return false
	}
	if f.RequesterID != 0 && !item.RequestedBy(f.RequesterID) {
		return false
	}
	if f.AssigneeID != 0 && !item.AssignedToUser(f.AssigneeID) {
		return false
	}
	return true
}

// Apply returns the tickets that match, preserving order. The input
// slice is not modified.
func (f Filter) Apply(tickets []ticket.Ticket) []ticket.Ticket {
	if f.IsEmpty() {
		return tickets
	}
	result := make([]ticket.Ticket, 0, len(tickets))
	for index := range tickets {
		if f.Matches(&tickets[index]) {
			result = append(result, tickets[index])
		}
	}
	return result
}

func unconstrained(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, All)
}

// Options are the distinct values present in a ticket list, used to
// populate filter dropdowns. Each list is in first-seen order.
type Options struct {
	Statuses     []string `json:"statuses"`
	Priorities   []string `json:"priorities"`
	RequestTypes []string `json:"requestTypes"`
	Assignees    []string `json:"assignees"`
}

// OptionsFor derives the filter options from tickets. Enumerated values
// are reported in their canonical spelling so "INPROGRESS" and
// "IN_PROGRESS" produce one entry. Empty values are skipped.
func OptionsFor(tickets []ticket.Ticket) Options {
	var options Options
	seen := make(map[string]bool)
	add := func(list *[]string, kind, value string) {
		if value == "" {
			return
		}
		key := kind + "\x00" + ticket.Normalize(value)
		if seen[key] {
			return
		}
		seen[key] = true
		*list = append(*list, value)
	}

	for index := range tickets {
		item := &tickets[index]
		add(&options.Statuses, "status", string(item.Status.Canonical()))
		add(&options.Priorities, "priority", string(item.Priority.Canonical()))
		add(&options.RequestTypes, "type", string(item.RequestType.Canonical()))
		add(&options.Assignees, "assignee", item.AssigneeDisplay())
	}
	return options
}

// OpenTickets returns the tickets with status OPEN. When viewer is a
// requester, only their own tickets are kept.
func OpenTickets(tickets []ticket.Ticket, viewer ticket.User) []ticket.Ticket {
	filter := Filter{Status: string(ticket.StatusOpen)}
	if viewer.Role.Is(ticket.RoleRequester) {
		filter.RequesterID = viewer.ID
	}
	return filter.Apply(tickets)
}

// DataMembers returns the users with the data member role whose name or
// email contains query (case-insensitive). An empty query keeps all.
func DataMembers(users []ticket.User, query string) []ticket.User {
	query = strings.ToLower(strings.TrimSpace(query))
	var result []ticket.User
	for _, user := range users {
		if !user.Role.Is(ticket.RoleDataMember) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(user.DisplayName()), query) &&
			!strings.Contains(strings.ToLower(user.Email), query) {
			continue
		}
		result = append(result, user)
	}
	return result
}

// UsersWithRole returns the users holding role.
func UsersWithRole(users []ticket.User, role ticket.Role) []ticket.User {
	var result []ticket.User
	for _, user := range users {
		if user.Role.Is(role) {
			result = append(result, user)
		}
	}
	return result
}

// UserIndex maps user ids to users, for resolving audit actors.
func UserIndex(users []ticket.User) map[int64]ticket.User {
	index := make(map[int64]ticket.User, len(users))
	for _, user := range users {
		index[user.ID] = user
	}
	return index
}

// SortOrder selects how [Sort] orders tickets.
type SortOrder string

const (
	// SortNewest orders by creation time, newest first.
	SortNewest SortOrder = "newest"
	// SortOldest orders by creation time, oldest first.
	SortOldest SortOrder = "oldest"
	// SortPriority orders most urgent first, then newest first.
	SortPriority SortOrder = "priority"
	// SortID orders by ticket id ascending.
	SortID SortOrder = "id"
)

// Sort orders tickets in place. Ties keep their relative order.
func Sort(tickets []ticket.Ticket, order SortOrder) {
	newer := func(a, b *ticket.Ticket) bool {
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.After(b.CreatedAt.Time)
		}
		return a.ID > b.ID
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := &tickets[i], &tickets[j]
		switch order {
		case SortOldest:
			return newer(b, a)
		case SortPriority:
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() < b.Priority.Rank()
			}
			return newer(a, b)
		case SortID:
			return a.ID < b.ID
		default:
			return newer(a, b)
		}
	})
}
