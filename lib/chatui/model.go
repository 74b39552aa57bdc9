// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/segmento/resolve/lib/chat"
	"github.com/segmento/resolve/lib/markdown"
	"github.com/segmento/resolve/lib/tui"
)

const (
	// Title and Subtitle head the widget.
	Title    = "Segmento Resolve"
	Subtitle = "How can I help you today?"

	// EmptyText is shown before the first message.
	EmptyText = "Send any text to start the conversation."
)

// Screen rows outside the transcript: title, subtitle and a blank
// line above; quick replies, input border with input, and help below.
const (
	headerLines     = 3
	inputLines      = 2
	quickReplyLines = 1
	helpLines       = 1
)

// bubbleRatio is the widest a message bubble gets, as a fraction of
// the transcript width.
const bubbleRatio = 0.8

// replyMsg carries the assistant's answer, or the error message that
// stands in for it.
type replyMsg struct {
	message chat.Message
}

// KeyMap defines the chat widget's key bindings.
type KeyMap struct {
	Send       key.Binding
	NextReply  key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Clear      key.Binding
	Quit       key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "send"),
	),
	NextReply: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "pick reply"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "scroll down"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "clear"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("Esc", "quit"),
	),
}

// Options configures a Model.
type Options struct {
	Theme tui.Theme

	// Context bounds every exchange. Defaults to context.Background.
	Context context.Context

	// Now returns the current time for message ages. Defaults to
	// time.Now.
	Now func() time.Time
}

// Model is the bubbletea model for the chat widget.
type Model struct {
	ctx          context.Context
	conversation *chat.Conversation
	theme        tui.Theme
	keys         KeyMap
	now          func() time.Time

	width  int
	height int
	ready  bool

	input      textarea.Model
	transcript viewport.Model
	spinner    spinner.Model

	// pending is true between sending and receiving a reply. Input is
	// refused meanwhile.
	pending bool

	// replyCursor is the highlighted quick reply, or -1.
	replyCursor int
}

// NewModel creates a chat widget over conversation.
func NewModel(conversation *chat.Conversation, options Options) Model {
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.ShowLineNumbers = false
	input.Prompt = "┃ "
	input.CharLimit = 2000
	input.SetHeight(1)
	input.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	input.Focus()

	indicator := spinner.New()
	indicator.Spinner = spinner.Dot
	indicator.Style = lipgloss.NewStyle().Foreground(options.Theme.AccentColor)

	return Model{
		ctx:          options.Context,
		conversation: conversation,
		theme:        options.Theme,
		keys:         DefaultKeyMap,
		now:          options.Now,
		input:        input,
		spinner:      indicator,
		replyCursor:  -1,
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return textarea.Blink
}

// Pending reports whether a reply is outstanding.
func (model Model) Pending() bool {
	return model.pending
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.input.SetWidth(max(message.Width-2, 10))
		model.transcript.Width = message.Width
		model.transcript.Height = model.transcriptHeight()
		model.refreshTranscript()
		return model, nil

	case tea.KeyMsg:
		return model.handleKeys(message)

	case replyMsg:
		model.pending = false
		model.conversation.AddBotMessage(message.message)
		model.replyCursor = -1
		model.refreshTranscript()
		return model, nil

	case spinner.TickMsg:
		if !model.pending {
			return model, nil
		}
		var command tea.Cmd
		model.spinner, command = model.spinner.Update(message)
		return model, command
	}

	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	replies := model.conversation.QuickReplies()

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.ScrollUp):
		model.transcript.HalfPageUp()
		return model, nil

	case key.Matches(message, model.keys.ScrollDown):
		model.transcript.HalfPageDown()
		return model, nil

	case key.Matches(message, model.keys.Clear):
		if model.pending {
			return model, nil
		}
		model.conversation.Clear()
		model.replyCursor = -1
		model.refreshTranscript()
		return model, nil

	case key.Matches(message, model.keys.NextReply):
		if len(replies) > 0 {
			model.replyCursor = (model.replyCursor + 1) % len(replies)
		}
		return model, nil

	case key.Matches(message, model.keys.Send):
		text := model.input.Value()
		if strings.TrimSpace(text) == "" && model.replyCursor >= 0 && model.replyCursor < len(replies) {
			text = replies[model.replyCursor].Key
		}
		return model.send(text)
	}

	// A digit on an empty input picks the quick reply at that position.
	if model.input.Value() == "" && message.Type == tea.KeyRunes && len(message.Runes) == 1 {
		digit := message.Runes[0]
		if digit >= '1' && digit <= '9' {
			if index := int(digit - '1'); index < len(replies) {
				return model.send(replies[index].Key)
			}
		}
	}

	if model.pending {
		return model, nil
	}
	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

// send appends the user's text and starts the exchange. Blank text and
// sends while a reply is pending are ignored.
func (model Model) send(text string) (tea.Model, tea.Cmd) {
	if model.pending {
		return model, nil
	}
	sent, ok := model.conversation.AddUserMessage(text)
	if !ok {
		return model, nil
	}
	model.input.Reset()
	model.pending = true
	model.replyCursor = -1
	model.refreshTranscript()

	ctx, conversation := model.ctx, model.conversation
	exchange := func() tea.Msg {
		reply, _ := conversation.Exchange(ctx, sent.Text)
		return replyMsg{message: reply}
	}
	return model, tea.Batch(exchange, model.spinner.Tick)
}

func (model Model) transcriptHeight() int {
	return max(model.height-headerLines-inputLines-quickReplyLines-helpLines, 1)
}

// refreshTranscript re-renders every message and scrolls to the end.
func (model *Model) refreshTranscript() {
	if !model.ready {
		return
	}
	model.transcript.SetContent(model.renderTranscript())
	model.transcript.GotoBottom()
}

func (model Model) renderTranscript() string {
	width := model.transcript.Width
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	if len(model.conversation.Messages) == 0 {
		return lipgloss.Place(width, model.transcript.Height, lipgloss.Center, lipgloss.Center,
			faint.Render(EmptyText))
	}

	bubbleWidth := max(int(float64(width)*bubbleRatio), 10)
	now := model.now()
	var blocks []string
	for _, message := range model.conversation.Messages {
		blocks = append(blocks, model.renderMessage(message, bubbleWidth, now))
	}
	return strings.Join(blocks, "\n\n")
}

// renderMessage draws one message as a bubble: the user's on the
// right, the assistant's on the left with markdown rendered.
func (model Model) renderMessage(message chat.Message, bubbleWidth int, now time.Time) string {
	width := model.transcript.Width
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	bubble := lipgloss.NewStyle().Padding(0, 1).Foreground(model.theme.NormalText)

	var body string
	if message.From == chat.FromUser {
		bubble = bubble.Background(model.theme.ChatUserBackground)
		body = lipgloss.NewStyle().Width(bubbleWidth - 2).Render(message.Text)
		body = shrinkToContent(body)
	} else {
		bubble = bubble.Background(model.theme.ChatBotBackground)
		body = markdown.Render(message.Text, model.theme, bubbleWidth-2)
	}
	rendered := bubble.Render(body)

	caption := "Assistant"
	if message.From == chat.FromUser {
		caption = "You"
	}
	if age := tui.RelativeTime(message.Time, now); age != "" {
		caption += " · " + age
	}
	block := lipgloss.JoinVertical(lipgloss.Left, rendered, faint.Render(caption))
	if message.From == chat.FromUser {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return block
}

// shrinkToContent trims trailing padding lipgloss adds when wrapping,
// so short messages get narrow bubbles.
func shrinkToContent(text string) string {
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		lines[index] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	subtitleStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	header := " " + titleStyle.Render(Title) + "\n " + subtitleStyle.Render(Subtitle) + "\n"

	sections := []string{
		header,
		model.transcript.View(),
		model.renderQuickReplies(),
		model.renderInput(),
		model.renderHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderQuickReplies draws the options of the latest bot message as
// numbered buttons, or the pending indicator.
func (model Model) renderQuickReplies() string {
	if model.pending {
		return " " + model.spinner.View() + lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(" Thinking…")
	}
	replies := model.conversation.QuickReplies()
	if len(replies) == 0 {
		return ""
	}

	normal := lipgloss.NewStyle().
		Foreground(model.theme.OverlayForeground).
		Background(model.theme.OverlayBackground).
		Padding(0, 1)
	selected := normal.
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground).
		Bold(true)
	if model.theme.IsPlain() {
		selected = selected.Reverse(true)
	}

	var buttons []string
	for index, reply := range replies {
		label := fmt.Sprintf("%d %s", index+1, reply.Label)
		if index == model.replyCursor {
			buttons = append(buttons, selected.Render(label))
		} else {
			buttons = append(buttons, normal.Render(label))
		}
	}
	return ansi.Truncate(" "+strings.Join(buttons, " "), model.width, "…")
}

func (model Model) renderInput() string {
	border := lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", model.width))
	return border + "\n" + model.input.View()
}

func (model Model) renderHelp() string {
	bindings := []key.Binding{model.keys.Send, model.keys.NextReply, model.keys.ScrollUp, model.keys.Clear, model.keys.Quit}
	parts := make([]string, 0, len(bindings)+1)
	if len(model.conversation.QuickReplies()) > 0 {
		parts = append(parts, "1-9 quick reply")
	}
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(
		ansi.Truncate(" "+strings.Join(parts, "  "), model.width, "…"))
}
