// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// Badge renders a short label in the given color. Colored themes draw
// a filled pill; the plain theme falls back to brackets so the badge
// still reads as one token.
func Badge(theme Theme, label string, color lipgloss.Color) string {
	if theme.IsPlain() || color == "" {
		return "[" + label + "]"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("16")).
		Background(color).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// StatusBadge renders a ticket status.
func StatusBadge(theme Theme, status ticket.Status) string {
	return Badge(theme, status.Label(), theme.StatusColor(status))
}

// PriorityBadge renders a ticket priority.
func PriorityBadge(theme Theme, priority ticket.Priority) string {
	return Badge(theme, priority.Label(), theme.PriorityColor(priority))
}

// RoleBadge renders a user role.
func RoleBadge(theme Theme, role ticket.Role) string {
	return Badge(theme, role.Label(), theme.RoleColor(role))
}

// PriorityGlyph returns a single colored bullet for compact list rows.
func PriorityGlyph(theme Theme, priority ticket.Priority) string {
	return lipgloss.NewStyle().Foreground(theme.PriorityColor(priority)).Render("●")
}

// RelativeTime formats then relative to now: "just now" under a
// minute, "Nm ago" under an hour, "Nh ago" under a day, and the
// calendar date after that. A zero time renders as "".
func RelativeTime(then, now time.Time) string {
	if then.IsZero() {
		return ""
	}
	minutes := int(now.Sub(then).Minutes())
	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return then.Local().Format("Jan 2, 2006")
	}
}

// FormatTimestamp renders an absolute timestamp for detail views.
func FormatTimestamp(then time.Time) string {
	if then.IsZero() {
		return "-"
	}
	return then.Local().Format("2006-01-02 15:04")
}
