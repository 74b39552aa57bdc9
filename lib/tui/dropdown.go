// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOption is a single selectable item in a dropdown.
type DropdownOption struct {
	Label string // Display text.
	Value string // Value applied on selection (status name, user id).
}

// Dropdown is a floating menu anchored at a screen position. While
// open it takes all keyboard input: up/down move, enter selects,
// escape dismisses. The owning model decides what a selection does
// based on Field and TicketID.
type Dropdown struct {
	Title    string
	Options  []DropdownOption
	Cursor   int
	AnchorX  int
	AnchorY  int
	Field    string // "status" or "assignee".
	TicketID int64
}

// NewDropdown builds a dropdown with the cursor on the option whose
// value equals current, or on the first option.
func NewDropdown(title, field string, ticketID int64, options []DropdownOption, current string) *Dropdown {
	dropdown := &Dropdown{
		Title:    title,
		Options:  options,
		Field:    field,
		TicketID: ticketID,
	}
	for index, option := range options {
		if option.Value == current {
			dropdown.Cursor = index
			break
		}
	}
	return dropdown
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *Dropdown) MoveUp() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *Dropdown) MoveDown() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
}

// Selected returns the highlighted option. ok is false for an empty
// dropdown.
func (dropdown *Dropdown) Selected() (DropdownOption, bool) {
	if dropdown.Cursor < 0 || dropdown.Cursor >= len(dropdown.Options) {
		return DropdownOption{}, false
	}
	return dropdown.Options[dropdown.Cursor], true
}

// Width returns the visible width of the rendered dropdown.
func (dropdown *Dropdown) Width() int {
	widest := ansi.StringWidth(dropdown.Title)
	for _, option := range dropdown.Options {
		if width := ansi.StringWidth(option.Label) + 2; width > widest {
			widest = width
		}
	}
	// One column of padding on each side.
	return widest + 2
}

// Render produces the dropdown lines for [SpliceOverlay]. Every line
// has the same visible width and a solid background; the highlighted
// option is drawn in the selection colors.
func (dropdown *Dropdown) Render(theme Theme) []string {
	totalWidth := dropdown.Width()
	innerWidth := totalWidth - 2

	background := lipgloss.NewStyle().
		Foreground(theme.OverlayForeground).
		Background(theme.OverlayBackground)
	titleStyle := background.Bold(true).Foreground(theme.HeaderForeground)
	selected := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground).
		Reverse(theme.IsPlain())

	var lines []string
	if dropdown.Title != "" {
		lines = append(lines, PadOverlayLine(titleStyle.Render(dropdown.Title), innerWidth, background))
	}
	for index, option := range dropdown.Options {
		marker := "  "
		style := background
		if index == dropdown.Cursor {
			marker = "> "
			style = selected
		}
		content := marker + option.Label
		if pad := innerWidth - ansi.StringWidth(content); pad > 0 {
			content += strings.Repeat(" ", pad)
		}
		lines = append(lines, style.Render(" "+content+" "))
	}
	return lines
}
