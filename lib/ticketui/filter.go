// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
	"github.com/segmento/resolve/lib/tui"
)

// FilterModel holds the browser's narrowing state: a fuzzy search
// query typed after "/" and the status and priority chips cycled with
// their keys. The tab chooses the base set and the filter narrows it
// without another round trip.
type FilterModel struct {
	// Input is the search query.
	Input string

	// Active is true while the query has keyboard focus.
	Active bool

	// Status and Priority are the chip values; "" means all.
	Status   ticket.Status
	Priority ticket.Priority
}

// FilterResult is a ticket that passed the filter, with the title
// positions the query matched for highlighting.
type FilterResult struct {
	Ticket         ticket.Ticket
	Score          int
	TitlePositions []int
}

// Criteria returns the chip constraints as a [ticketfilter.Filter].
// The search query is not included: it is matched fuzzily by
// [FilterModel.Apply] rather than as a substring.
func (filter *FilterModel) Criteria() ticketfilter.Filter {
	return ticketfilter.Filter{
		Status:   string(filter.Status),
		Priority: string(filter.Priority),
	}
}

// Apply narrows tickets by the chips, then by the query. A ticket
// matches the query when its title matches fuzzily or its id contains
// the query. With a query, results are ordered by score; without one,
// input order is kept.
func (filter *FilterModel) Apply(tickets []ticket.Ticket) []FilterResult {
	criteria := filter.Criteria()
	narrowed := criteria.Apply(tickets)

	query := strings.TrimSpace(filter.Input)
	results := make([]FilterResult, 0, len(narrowed))
	if query == "" {
		for _, item := range narrowed {
			results = append(results, FilterResult{Ticket: item})
		}
		return results
	}

	pattern := []rune(query)
	slab := tui.NewFuzzySlab()
	for _, item := range narrowed {
		match := tui.FuzzyMatch(item.Title, pattern, slab)
		if match.Score == 0 {
			if !strings.Contains(strconv.FormatInt(item.ID, 10), query) {
				continue
			}
			// Id matches rank above weak title matches.
			match.Score = 1000
		}
		results = append(results, FilterResult{
			Ticket:         item,
			Score:          match.Score,
			TitlePositions: match.Positions,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// CycleStatus advances the status chip: all, then each selectable
// status, then back to all.
func (filter *FilterModel) CycleStatus() {
	filter.Status = nextValue(ticket.Statuses, filter.Status)
}

// CyclePriority advances the priority chip the same way.
func (filter *FilterModel) CyclePriority() {
	filter.Priority = nextValue(ticket.Priorities, filter.Priority)
}

func nextValue[T ~string](values []T, current T) T {
	if current == "" {
		return values[0]
	}
	for index, value := range values {
		if value == current {
			if index+1 < len(values) {
				return values[index+1]
			}
			return ""
		}
	}
	return ""
}

// HandleRune appends a typed character to the query.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character of the query. Returns
// false when the query was already empty.
func (filter *FilterModel) HandleBackspace() bool {
	if filter.Input == "" {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the query and deactivates it. Chips are kept.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// IsEmpty reports whether nothing narrows the list.
func (filter *FilterModel) IsEmpty() bool {
	return filter.Input == "" && filter.Status == "" && filter.Priority == ""
}

// View renders the search input and the chips on one line.
func (filter *FilterModel) View(theme tui.Theme, width int) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	var parts []string
	switch {
	case filter.Active:
		cursor := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("▎")
		parts = append(parts, "/ "+filter.Input+cursor)
	case filter.Input != "":
		parts = append(parts, faint.Render("search: "+filter.Input))
	}

	statusChip := faint.Render("status: all")
	if filter.Status != "" {
		statusChip = "status: " + tui.StatusBadge(theme, filter.Status)
	}
	priorityChip := faint.Render("priority: all")
	if filter.Priority != "" {
		priorityChip = "priority: " + tui.PriorityBadge(theme, filter.Priority)
	}
	parts = append(parts, statusChip, priorityChip)

	return lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width).
		MaxWidth(width).
		Render(" " + strings.Join(parts, "  "))
}
