// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

const columnSeparator = "  "

// table renders a GFM table with columns sized to their content and
// shrunk proportionally when the table is wider than the pane.
func (writer *terminalWriter) table(table *extast.Table) {
	var header []string
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.TableHeader:
			header = writer.tableCells(child)
		case *extast.TableRow:
			rows = append(rows, writer.tableCells(child))
		}
	}

	columns := len(header)
	if columns == 0 && len(rows) > 0 {
		columns = len(rows[0])
	}
	if columns == 0 {
		return
	}

	widths := make([]int, columns)
	for _, row := range append([][]string{header}, rows...) {
		for index, cell := range row {
			if index < columns {
				widths[index] = max(widths[index], ansi.StringWidth(cell))
			}
		}
	}
	fitColumns(widths, writer.contentWidth())

	writer.blankLine()
	if len(header) > 0 {
		bold := writer.style().Bold(true).Foreground(writer.theme.NormalText)
		writer.emitLines(formatRow(header, widths, table.Alignments, bold))

		rules := make([]string, columns)
		for index, width := range widths {
			rules[index] = strings.Repeat("─", width)
		}
		writer.emitLines(writer.style().Foreground(writer.theme.BorderColor).Render(strings.Join(rules, columnSeparator)))
	}
	for _, row := range rows {
		writer.emitLines(formatRow(row, widths, table.Alignments, writer.style()))
	}
	writer.blankLine()
}

func (writer *terminalWriter) tableCells(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, writer.inlineOf(cell))
		}
	}
	return cells
}

// fitColumns shrinks widths in place so the row fits available,
// keeping each column at least three wide.
func fitColumns(widths []int, available int) {
	total := len(columnSeparator) * (len(widths) - 1)
	for _, width := range widths {
		total += width
	}
	if total <= available {
		return
	}
	usable := max(available-len(columnSeparator)*(len(widths)-1), 3*len(widths))
	for index := range widths {
		widths[index] = max(widths[index]*usable/total, 3)
	}
}

func formatRow(cells []string, widths []int, alignments []extast.Alignment, style lipgloss.Style) string {
	parts := make([]string, len(widths))
	for index, width := range widths {
		var cell string
		if index < len(cells) {
			cell = cells[index]
		}
		if ansi.StringWidth(cell) > width {
			cell = ansi.Truncate(cell, width, "…")
		}
		padding := width - ansi.StringWidth(cell)

		alignment := extast.AlignNone
		if index < len(alignments) {
			alignment = alignments[index]
		}
		switch alignment {
		case extast.AlignRight:
			cell = strings.Repeat(" ", padding) + cell
		case extast.AlignCenter:
			left := padding / 2
			cell = strings.Repeat(" ", left) + cell + strings.Repeat(" ", padding-left)
		default:
			cell += strings.Repeat(" ", padding)
		}
		parts[index] = cell
	}
	return style.Render(strings.Join(parts, columnSeparator))
}
