// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/segmento/resolve/lib/tui"
)

// minimumWidth keeps deeply nested content from wrapping one word per
// line.
const minimumWidth = 10

// wrapBreakpoints are the characters ansi.Wrap may break after in
// addition to spaces.
const wrapBreakpoints = " ,.;-+|/"

var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func parser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})
	return parserInstance
}

// Render converts markdown to styled terminal text wrapped at width.
// Empty input renders as "".
func Render(input string, theme tui.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := parser().Parser().Parse(text.NewReader(source))

	// The output always goes to a terminal UI or a TTY check has
	// already happened, so skip profile detection. Detection would
	// strip every color when stdout is not a terminal.
	profile := termenv.ANSI256
	if theme.IsPlain() {
		profile = termenv.Ascii
	}
	styles := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	styles.SetColorProfile(profile)

	writer := &terminalWriter{
		source: source,
		theme:  theme,
		width:  width,
		styles: styles,
	}
	ast.Walk(document, writer.walk)
	return strings.TrimRight(writer.output.String(), "\n")
}

// terminalWriter walks the goldmark AST directly instead of going
// through goldmark's renderer interface: inline content has to be
// collected for a whole paragraph before it can be wrapped.
type terminalWriter struct {
	source []byte
	theme  tui.Theme
	width  int
	styles *lipgloss.Renderer

	output           strings.Builder
	trailingNewlines int

	// inline collects the styled fragments of the current paragraph,
	// heading, or cell.
	inline strings.Builder

	// prefixes holds the indentation of enclosing blockquotes and list
	// items; bullet replaces the prefix on the first line of an item.
	prefixes    []string
	prefix      string
	prefixWidth int
	bullet      string

	bold, italic, strike int

	lists []listLevel
}

type listLevel struct {
	ordered bool
	next    int
	tight   bool
}

func (writer *terminalWriter) style() lipgloss.Style {
	return writer.styles.NewStyle()
}

func (writer *terminalWriter) faint(content string) string {
	return writer.style().Foreground(writer.theme.FaintText).Render(content)
}

func (writer *terminalWriter) contentWidth() int {
	return max(writer.width-writer.prefixWidth, minimumWidth)
}

func (writer *terminalWriter) pushPrefix(prefix string) {
	writer.prefixes = append(writer.prefixes, prefix)
	writer.prefix += prefix
	writer.prefixWidth += ansi.StringWidth(prefix)
}

func (writer *terminalWriter) popPrefix() {
	if len(writer.prefixes) == 0 {
		return
	}
	top := writer.prefixes[len(writer.prefixes)-1]
	writer.prefixes = writer.prefixes[:len(writer.prefixes)-1]
	writer.prefix = writer.prefix[:len(writer.prefix)-len(top)]
	writer.prefixWidth -= ansi.StringWidth(top)
}

func (writer *terminalWriter) tightList() bool {
	return len(writer.lists) > 0 && writer.lists[len(writer.lists)-1].tight
}

func (writer *terminalWriter) write(content string) {
	if content == "" {
		return
	}
	writer.output.WriteString(content)
	trimmed := strings.TrimRight(content, "\n")
	newlines := len(content) - len(trimmed)
	if trimmed == "" {
		writer.trailingNewlines += newlines
	} else {
		writer.trailingNewlines = newlines
	}
}

func (writer *terminalWriter) newline() {
	if writer.trailingNewlines < 1 {
		writer.write("\n")
	}
}

// blankLine separates blocks. Nothing is emitted at the very start.
func (writer *terminalWriter) blankLine() {
	if writer.output.Len() == 0 {
		return
	}
	for writer.trailingNewlines < 2 {
		writer.write("\n")
	}
}

func (writer *terminalWriter) linePrefix() string {
	if writer.bullet != "" {
		bullet := writer.bullet
		writer.bullet = ""
		return bullet
	}
	return writer.prefix
}

// emitLines writes content line by line with the current prefixes.
func (writer *terminalWriter) emitLines(content string) {
	for _, line := range strings.Split(content, "\n") {
		writer.write(writer.linePrefix() + line)
		writer.write("\n")
	}
}

// flushInline wraps and emits the collected inline content.
func (writer *terminalWriter) flushInline() bool {
	content := writer.inline.String()
	writer.inline.Reset()
	if strings.TrimSpace(ansi.Strip(content)) == "" {
		return false
	}
	writer.emitLines(ansi.Wrap(content, writer.contentWidth(), wrapBreakpoints))
	return true
}

func (writer *terminalWriter) styled(content string) string {
	style := writer.style().Foreground(writer.theme.NormalText)
	if writer.bold > 0 {
		style = style.Bold(true)
	}
	if writer.italic > 0 {
		style = style.Italic(true)
	}
	if writer.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// inlineOf renders the children of node to a string without
// disturbing the paragraph being collected.
func (writer *terminalWriter) inlineOf(node ast.Node) string {
	saved := writer.inline.String()
	bold, italic, strike := writer.bold, writer.italic, writer.strike

	writer.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, writer.walk)
	}
	result := writer.inline.String()

	writer.inline.Reset()
	writer.inline.WriteString(saved)
	writer.bold, writer.italic, writer.strike = bold, italic, strike
	return result
}

func (writer *terminalWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			writer.inline.Reset()
		} else if writer.flushInline() && !writer.tightList() {
			writer.blankLine()
		}

	case *ast.Heading:
		if entering {
			writer.inline.Reset()
		} else {
			writer.heading(node.Level)
		}

	case *ast.FencedCodeBlock:
		if entering {
			writer.codeBlock(node.Lines(), string(node.Language(writer.source)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			writer.codeBlock(node.Lines(), "")
		}
		return ast.WalkSkipChildren, nil

	case *ast.Blockquote:
		if entering {
			writer.pushPrefix(writer.style().Foreground(writer.theme.BorderColor).Render("│") + " ")
		} else {
			writer.popPrefix()
			writer.blankLine()
		}

	case *ast.List:
		if entering {
			writer.lists = append(writer.lists, listLevel{ordered: node.IsOrdered(), next: node.Start, tight: node.IsTight})
		} else {
			writer.lists = writer.lists[:len(writer.lists)-1]
			if !writer.tightList() {
				writer.blankLine()
			}
		}

	case *ast.ListItem:
		if entering {
			writer.listItem()
		} else {
			writer.popPrefix()
			writer.newline()
		}

	case *ast.ThematicBreak:
		if entering {
			writer.blankLine()
			rule := strings.Repeat("─", writer.contentWidth())
			writer.emitLines(writer.style().Foreground(writer.theme.BorderColor).Render(rule))
			writer.blankLine()
		}

	case *ast.HTMLBlock:
		if !entering {
			return ast.WalkSkipChildren, nil
		}
		var html strings.Builder
		for index := 0; index < node.Lines().Len(); index++ {
			line := node.Lines().At(index)
			html.Write(line.Value(writer.source))
		}
		if stripped := strings.TrimSpace(stripTags(html.String())); stripped != "" {
			writer.emitLines(writer.faint(stripped))
			writer.blankLine()
		}
		return ast.WalkSkipChildren, nil

	case *ast.Text:
		if entering {
			writer.inline.WriteString(writer.styled(string(node.Segment.Value(writer.source))))
			if node.HardLineBreak() {
				writer.inline.WriteString("\n")
			} else if node.SoftLineBreak() {
				writer.inline.WriteString(" ")
			}
		}

	case *ast.String:
		if entering {
			writer.inline.WriteString(writer.styled(string(node.Value)))
		}

	case *ast.Emphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if node.Level >= 2 {
			writer.bold += delta
		} else {
			writer.italic += delta
		}

	case *ast.CodeSpan:
		if entering {
			writer.inline.WriteString(writer.style().Foreground(writer.theme.AccentColor).Render(ansi.Strip(writer.inlineOf(node))))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Link:
		if entering {
			writer.inline.WriteString(writer.inlineOf(node))
			if destination := string(node.Destination); destination != "" {
				writer.inline.WriteString(" " + writer.faint("("+destination+")"))
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.AutoLink:
		if entering {
			writer.inline.WriteString(writer.faint(string(node.URL(writer.source))))
		}

	case *ast.Image:
		if entering {
			writer.inline.WriteString(writer.faint("[" + ansi.Strip(writer.inlineOf(node)) + "]"))
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			var html strings.Builder
			for index := 0; index < node.Segments.Len(); index++ {
				segment := node.Segments.At(index)
				html.Write(segment.Value(writer.source))
			}
			writer.inline.WriteString(writer.faint(stripTags(html.String())))
		}

	case *extast.Strikethrough:
		if entering {
			writer.strike++
		} else {
			writer.strike--
		}

	case *extast.TaskCheckBox:
		if entering {
			if node.IsChecked {
				writer.inline.WriteString(writer.style().Foreground(writer.theme.StatusCompleted).Render("[x]") + " ")
			} else {
				writer.inline.WriteString(writer.styled("[ ] "))
			}
		}

	case *extast.Table:
		if entering {
			writer.table(node)
		}
		return ast.WalkSkipChildren, nil

	case *extast.DefinitionTerm:
		if entering {
			writer.inline.Reset()
		} else {
			term := ansi.Strip(writer.inline.String())
			writer.inline.Reset()
			writer.emitLines(writer.style().Foreground(writer.theme.NormalText).Bold(true).Render(term))
		}

	case *extast.DefinitionDescription:
		if entering {
			writer.pushPrefix("  ")
		} else {
			writer.popPrefix()
		}
	}
	return ast.WalkContinue, nil
}

func (writer *terminalWriter) heading(level int) {
	content := ansi.Strip(writer.inline.String())
	writer.inline.Reset()
	if content == "" {
		return
	}
	style := writer.style().Bold(true).Foreground(writer.theme.NormalText)
	if level <= 2 {
		style = style.Foreground(writer.theme.HeaderForeground).Underline(level == 1)
	}
	writer.blankLine()
	writer.emitLines(ansi.Wrap(style.Render(content), writer.contentWidth(), wrapBreakpoints))
	writer.blankLine()
}

func (writer *terminalWriter) codeBlock(lines *text.Segments, language string) {
	var code strings.Builder
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(writer.source))
	}
	writer.blankLine()
	writer.emitLines(strings.TrimRight(writer.highlight(code.String(), language), "\n"))
	writer.blankLine()
}

// highlight colors code with chroma when the language is known and the
// theme has color. Anything else renders faint.
func (writer *terminalWriter) highlight(code, language string) string {
	if language == "" || writer.theme.IsPlain() {
		return writer.faint(strings.TrimRight(code, "\n"))
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return writer.faint(strings.TrimRight(code, "\n"))
	}
	return buffer.String()
}

func (writer *terminalWriter) listItem() {
	if len(writer.lists) == 0 {
		return
	}
	level := &writer.lists[len(writer.lists)-1]
	marker := "• "
	if level.ordered {
		marker = fmt.Sprintf("%d. ", level.next)
		level.next++
	}
	writer.bullet = writer.prefix + writer.style().Foreground(writer.theme.FaintText).Render(marker)
	writer.pushPrefix(strings.Repeat(" ", ansi.StringWidth(marker)))
}

// stripTags drops anything between angle brackets.
func stripTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
