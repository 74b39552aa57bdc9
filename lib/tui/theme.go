// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/segmento/resolve/lib/schema/ticket"
)

// Theme defines the color palette for resolve's terminal UIs. Colors
// are ANSI 256-color codes; an empty color renders unstyled, which is
// how [PlainTheme] turns color off.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	ErrorText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Priority colors.
	PriorityLow      lipgloss.Color
	PriorityMedium   lipgloss.Color
	PriorityHigh     lipgloss.Color
	PriorityCritical lipgloss.Color

	// Status colors.
	StatusOpen       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusOnHold     lipgloss.Color
	StatusCompleted  lipgloss.Color
	StatusRejected   lipgloss.Color

	// Role colors for user badges.
	RoleRequester  lipgloss.Color
	RoleDataMember lipgloss.Color
	RoleAdmin      lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	AccentColor      lipgloss.Color

	// Background tint for tickets that just changed. HotAccentUpdate
	// marks a successful mutation, HotAccentFailed a rejected one.
	HotAccentUpdate lipgloss.Color
	HotAccentFailed lipgloss.Color

	// Background tint for fuzzy-matched characters.
	SearchHighlightBackground lipgloss.Color

	// Floating overlays: dropdowns and modals.
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color

	// Chat bubbles.
	ChatUserBackground lipgloss.Color
	ChatBotBackground  lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	ErrorText:  lipgloss.Color("196"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	PriorityLow:      lipgloss.Color("114"), // Green.
	PriorityMedium:   lipgloss.Color("208"), // Orange.
	PriorityHigh:     lipgloss.Color("196"), // Red.
	PriorityCritical: lipgloss.Color("124"), // Dark red.

	StatusOpen:       lipgloss.Color("75"),  // Blue.
	StatusInProgress: lipgloss.Color("214"), // Amber.
	StatusOnHold:     lipgloss.Color("141"), // Purple.
	StatusCompleted:  lipgloss.Color("114"), // Green.
	StatusRejected:   lipgloss.Color("196"), // Red.

	RoleRequester:  lipgloss.Color("114"),
	RoleDataMember: lipgloss.Color("75"),
	RoleAdmin:      lipgloss.Color("168"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	AccentColor:      lipgloss.Color("99"),

	HotAccentUpdate: lipgloss.Color("58"),
	HotAccentFailed: lipgloss.Color("52"),

	SearchHighlightBackground: lipgloss.Color("58"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),

	ChatUserBackground: lipgloss.Color("24"),
	ChatBotBackground:  lipgloss.Color("236"),
}

// PlainTheme renders without color. Selection stays visible through
// the reverse-video styling the views apply on top of the palette.
var PlainTheme = Theme{}

// ThemeNamed returns the theme for a ui.theme configuration value.
// Unknown names fall back to [DefaultTheme].
func ThemeNamed(name string) Theme {
	if name == "plain" {
		return PlainTheme
	}
	return DefaultTheme
}

// IsPlain reports whether the theme carries no colors.
func (theme Theme) IsPlain() bool {
	return theme.NormalText == "" && theme.StatusOpen == ""
}

// PriorityColor returns the color for a ticket priority. Unknown
// priorities use faint text.
func (theme Theme) PriorityColor(priority ticket.Priority) lipgloss.Color {
	switch priority.Canonical() {
	case ticket.PriorityLow:
		return theme.PriorityLow
	case ticket.PriorityMedium:
		return theme.PriorityMedium
	case ticket.PriorityHigh:
		return theme.PriorityHigh
	case ticket.PriorityCritical:
		return theme.PriorityCritical
	default:
		return theme.FaintText
	}
}

// StatusColor returns the color for a ticket status. Statuses the
// service reports but the client cannot select (resolved, closed)
// share the completed color.
func (theme Theme) StatusColor(status ticket.Status) lipgloss.Color {
	switch status.Canonical() {
	case ticket.StatusOpen:
		return theme.StatusOpen
	case ticket.StatusInProgress:
		return theme.StatusInProgress
	case ticket.StatusOnHold:
		return theme.StatusOnHold
	case ticket.StatusCompleted, ticket.StatusResolved, ticket.StatusClosed:
		return theme.StatusCompleted
	case ticket.StatusRejected:
		return theme.StatusRejected
	default:
		return theme.FaintText
	}
}

// RoleColor returns the color for a user role.
func (theme Theme) RoleColor(role ticket.Role) lipgloss.Color {
	switch role.Canonical() {
	case ticket.RoleRequester:
		return theme.RoleRequester
	case ticket.RoleDataMember:
		return theme.RoleDataMember
	case ticket.RoleAdmin:
		return theme.RoleAdmin
	default:
		return theme.FaintText
	}
}
