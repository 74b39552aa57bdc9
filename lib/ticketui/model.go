// Copyright 2026 The Resolve Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/segmento/resolve/lib/schema/ticket"
	"github.com/segmento/resolve/lib/ticketfilter"
	"github.com/segmento/resolve/lib/tui"
)

// Tab identifies which base ticket set is shown.
type Tab int

const (
	// TabAll shows every ticket the viewer may see. Requesters see
	// only their own.
	TabAll Tab = iota
	// TabOpen shows tickets with status OPEN.
	TabOpen
	// TabAssigned shows the tickets assigned to the viewer. Only data
	// members have it.
	TabAssigned
)

func (tab Tab) String() string {
	switch tab {
	case TabOpen:
		return "Open"
	case TabAssigned:
		return "Assigned to me"
	default:
		return "All"
	}
}

// FocusRegion identifies which part of the screen takes key input.
type FocusRegion int

const (
	// FocusList means navigation keys move the list cursor.
	FocusList FocusRegion = iota
	// FocusDetail means navigation keys scroll the detail pane.
	FocusDetail
	// FocusFilter means typed characters go to the search query.
	FocusFilter
	// FocusDropdown means a status or assignee dropdown is open.
	FocusDropdown
	// FocusCommentModal means the comment editor is open.
	FocusCommentModal
)

// listRatio is the fraction of the width given to the list pane.
const listRatio = 0.5

// sortOrders is the cycle order of the sort key.
var sortOrders = []ticketfilter.SortOrder{
	ticketfilter.SortNewest,
	ticketfilter.SortPriority,
	ticketfilter.SortOldest,
	ticketfilter.SortID,
}

type ticketsLoadedMsg struct {
	tab     Tab
	tickets []ticket.Ticket
	err     error
}

type usersLoadedMsg struct {
	users []ticket.User
	err   error
}

type commentsLoadedMsg struct {
	ticketID int64
	comments []ticket.Comment
	err      error
}

type auditLoadedMsg struct {
	ticketID int64
	entries  []ticket.AuditEntry
	err      error
}

// heatTickMsg drives the row glow while any ticket is hot.
type heatTickMsg struct{}

// statusTickMsg re-renders the status line as it fades and expires.
type statusTickMsg struct{}

// Options configures a Model.
type Options struct {
	// Viewer is the logged-in user. Their role decides the tabs and
	// which mutations are offered.
	Viewer ticket.User

	// Theme styles the screen. The zero value is [tui.PlainTheme].
	Theme tui.Theme

	// Context bounds every request the browser makes. Defaults to
	// context.Background.
	Context context.Context

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Model is the bubbletea model for the ticket browser.
type Model struct {
	ctx     context.Context
	source  Source
	mutator Mutator
	lister  UserLister
	viewer  ticket.User
	theme   tui.Theme
	keys    KeyMap
	now     func() time.Time

	width  int
	height int
	ready  bool

	activeTab Tab
	filter    FilterModel
	sortOrder ticketfilter.SortOrder

	// tickets is the base set of the active tab as last fetched;
	// results is what the list shows after filtering.
	tickets   []ticket.Ticket
	results   []FilterResult
	loading   bool
	loadError error

	cursor       int
	scrollOffset int
	selectedID   int64

	focusRegion FocusRegion
	priorFocus  FocusRegion
	detailPane  DetailPane

	// details caches comments and audit per ticket for the lifetime of
	// the screen. Refresh drops it.
	details map[int64]*DetailContent

	users     []ticket.User
	userIndex map[int64]ticket.User

	dropdown     *tui.Dropdown
	commentModal *tui.CommentModal

	status      tui.StatusLine
	heat        *tui.HeatTracker
	tickRunning bool
}

// NewModel creates a browser over source for the given viewer. The
// first load starts from Init.
func NewModel(source Source, options Options) Model {
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	model := Model{
		ctx:        options.Context,
		source:     source,
		viewer:     options.Viewer,
		theme:      options.Theme,
		keys:       DefaultKeyMap,
		now:        options.Now,
		activeTab:  TabAll,
		sortOrder:  ticketfilter.SortNewest,
		loading:    true,
		detailPane: NewDetailPane(options.Theme),
		details:    make(map[int64]*DetailContent),
		heat:       tui.NewHeatTracker(),
	}
	if mutator, ok := source.(Mutator); ok {
		model.mutator = mutator
	}
	if lister, ok := source.(UserLister); ok && (model.can(ticket.ActionUserList) || model.can(ticket.ActionAssign)) {
		model.lister = lister
	}
	if model.hasTab(TabAssigned) {
		model.activeTab = TabAssigned
	}
	return model
}

// can reports whether the viewer's role permits action.
func (model Model) can(action string) bool {
	return ticket.Allowed(model.viewer.Role, action)
}

// hasTab reports whether the viewer gets tab.
func (model Model) hasTab(tab Tab) bool {
	if tab == TabAssigned {
		return model.can(ticket.ActionListAssigned)
	}
	return true
}

// tabs returns the viewer's tabs in display order.
func (model Model) tabs() []Tab {
	var tabs []Tab
	for _, tab := range []Tab{TabAll, TabOpen, TabAssigned} {
		if model.hasTab(tab) {
			tabs = append(tabs, tab)
		}
	}
	return tabs
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{model.loadTickets(model.activeTab)}
	if model.lister != nil {
		commands = append(commands, model.loadUsers())
	}
	return tea.Batch(commands...)
}

func (model Model) loadTickets(tab Tab) tea.Cmd {
	ctx, source, viewer := model.ctx, model.source, model.viewer
	return func() tea.Msg {
		var tickets []ticket.Ticket
		var err error
		switch tab {
		case TabAssigned:
			tickets, err = source.AssignedTickets(ctx, viewer.ID)
		case TabOpen:
			tickets, err = source.Tickets(ctx)
			tickets = ticketfilter.OpenTickets(tickets, viewer)
		default:
			tickets, err = source.Tickets(ctx)
			if viewer.Role.Is(ticket.RoleRequester) {
				tickets = ticketfilter.Filter{RequesterID: viewer.ID}.Apply(tickets)
			}
		}
		return ticketsLoadedMsg{tab: tab, tickets: tickets, err: err}
	}
}

func (model Model) loadUsers() tea.Cmd {
	ctx, lister := model.ctx, model.lister
	return func() tea.Msg {
		users, err := lister.Users(ctx)
		return usersLoadedMsg{users: users, err: err}
	}
}

func (model Model) loadComments(ticketID int64) tea.Cmd {
	ctx, source := model.ctx, model.source
	return func() tea.Msg {
		comments, err := source.Comments(ctx, ticketID)
		return commentsLoadedMsg{ticketID: ticketID, comments: comments, err: err}
	}
}

func (model Model) loadAudit(ticketID int64) tea.Cmd {
	ctx, source := model.ctx, model.source
	return func() tea.Msg {
		entries, err := source.Audit(ctx, ticketID)
		return auditLoadedMsg{ticketID: ticketID, entries: entries, err: err}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch model.focusRegion {
		case FocusFilter:
			return model.handleFilterKeys(message)
		case FocusDropdown:
			return model.handleDropdownKeys(message)
		case FocusCommentModal:
			return model.handleCommentModalKeys(message)
		}
		return model.handleKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()
		model.ensureCursorVisible()

	case ticketsLoadedMsg:
		if message.tab != model.activeTab {
			return model, nil
		}
		model.loading = false
		model.loadError = message.err
		if message.err != nil {
			model.tickets = nil
			model.applyFilter()
			return model, model.setStatus(message.err.Error(), true)
		}
		model.tickets = message.tickets
		model.applyFilter()
		return model, model.syncDetail()

	case usersLoadedMsg:
		if message.err != nil {
			return model, model.setStatus("Loading users failed: "+message.err.Error(), true)
		}
		model.users = message.users
		model.userIndex = ticketfilter.UserIndex(message.users)
		for _, content := range model.details {
			content.Users = model.userIndex
		}
		model.refreshDetailPane()

	case commentsLoadedMsg:
		content := model.detailFor(message.ticketID)
		content.Comments = message.comments
		content.CommentsError = message.err
		content.CommentsLoaded = true
		model.refreshDetailPane()

	case auditLoadedMsg:
		content := model.detailFor(message.ticketID)
		content.Audit = message.entries
		content.AuditError = message.err
		content.AuditLoaded = true
		model.refreshDetailPane()

	case mutationResultMsg:
		return model.handleMutationResult(message)

	case heatTickMsg:
		if model.heat.HasHot(model.now()) {
			return model, scheduleHeatTick()
		}
		model.tickRunning = false

	case statusTickMsg:
		if !model.status.Visible(model.now()) {
			model.status = tui.StatusLine{}
		}

	case logRecordMsg:
		return model, model.setStatus(message.Summary, message.Level >= slog.LevelWarn)
	}
	return model, nil
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.FocusToggle):
		if model.focusRegion == FocusList {
			model.focusRegion = FocusDetail
		} else {
			model.focusRegion = FocusList
		}

	case key.Matches(message, model.keys.TabAll):
		return model, model.switchTab(TabAll)

	case key.Matches(message, model.keys.TabOpen):
		return model, model.switchTab(TabOpen)

	case key.Matches(message, model.keys.TabAssigned):
		return model, model.switchTab(TabAssigned)

	case key.Matches(message, model.keys.FilterActivate):
		model.priorFocus = model.focusRegion
		model.focusRegion = FocusFilter
		model.filter.Active = true

	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter()
			return model, model.syncDetail()
		}

	case key.Matches(message, model.keys.CycleStatusFilter):
		model.filter.CycleStatus()
		model.applyFilter()
		return model, model.syncDetail()

	case key.Matches(message, model.keys.CyclePriorityFilter):
		model.filter.CyclePriority()
		model.applyFilter()
		return model, model.syncDetail()

	case key.Matches(message, model.keys.CycleSort):
		model.sortOrder = nextSortOrder(model.sortOrder)
		model.applyFilter()

	case key.Matches(message, model.keys.Refresh):
		model.details = make(map[int64]*DetailContent)
		model.loading = true
		commands := []tea.Cmd{model.loadTickets(model.activeTab)}
		if model.lister != nil {
			commands = append(commands, model.loadUsers())
		}
		return model, tea.Batch(commands...)

	case key.Matches(message, model.keys.ChangeStatus):
		return model, model.openStatusDropdown()

	case key.Matches(message, model.keys.Assign):
		return model, model.openAssignDropdown()

	case key.Matches(message, model.keys.Comment):
		return model, model.openCommentModal()

	default:
		if model.focusRegion == FocusDetail {
			model.handleDetailKeys(message)
			return model, nil
		}
		return model, model.handleListKeys(message)
	}
	return model, nil
}

func nextSortOrder(current ticketfilter.SortOrder) ticketfilter.SortOrder {
	for index, order := range sortOrders {
		if order == current {
			return sortOrders[(index+1)%len(sortOrders)]
		}
	}
	return sortOrders[0]
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.filter.Clear()
		model.focusRegion = model.priorFocus
	case tea.KeyEnter:
		model.filter.Active = false
		model.focusRegion = model.priorFocus
		return model, nil
	case tea.KeyBackspace:
		if !model.filter.HandleBackspace() {
			return model, nil
		}
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
	case tea.KeyCtrlC:
		return model, tea.Quit
	default:
		return model, nil
	}
	model.cursor = 0
	model.scrollOffset = 0
	model.selectedID = 0
	model.applyFilter()
	return model, model.syncDetail()
}

func (model *Model) handleListKeys(message tea.KeyMsg) tea.Cmd {
	previous := model.cursor
	switch {
	case key.Matches(message, model.keys.Up):
		model.cursor--
	case key.Matches(message, model.keys.Down):
		model.cursor++
	case key.Matches(message, model.keys.PageUp):
		model.cursor -= max(model.visibleHeight()/2, 1)
	case key.Matches(message, model.keys.PageDown):
		model.cursor += max(model.visibleHeight()/2, 1)
	case key.Matches(message, model.keys.Home):
		model.cursor = 0
	case key.Matches(message, model.keys.End):
		model.cursor = len(model.results) - 1
	default:
		return nil
	}
	model.cursor = max(min(model.cursor, len(model.results)-1), 0)
	if model.cursor == previous {
		return nil
	}
	model.ensureCursorVisible()
	if selected, ok := model.selectedTicket(); ok {
		model.selectedID = selected.ID
	}
	return model.syncDetail()
}

func (model *Model) handleDetailKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.detailPane.ScrollUp()
	case key.Matches(message, model.keys.Down):
		model.detailPane.ScrollDown()
	case key.Matches(message, model.keys.PageUp):
		model.detailPane.PageUp()
	case key.Matches(message, model.keys.PageDown):
		model.detailPane.PageDown()
	}
}

// switchTab activates tab and fetches its tickets. Unavailable tabs
// are ignored.
func (model *Model) switchTab(tab Tab) tea.Cmd {
	if !model.hasTab(tab) || tab == model.activeTab {
		return nil
	}
	model.activeTab = tab
	model.tickets = nil
	model.results = nil
	model.loading = true
	model.loadError = nil
	model.cursor = 0
	model.scrollOffset = 0
	model.selectedID = 0
	model.detailPane.Clear()
	return model.loadTickets(tab)
}

// applyFilter recomputes the visible rows, keeping the selection on
// the same ticket when it is still visible.
func (model *Model) applyFilter() {
	sorted := append([]ticket.Ticket(nil), model.tickets...)
	ticketfilter.Sort(sorted, model.sortOrder)
	model.results = model.filter.Apply(sorted)

	model.cursor = 0
	for index, result := range model.results {
		if result.Ticket.ID == model.selectedID {
			model.cursor = index
			break
		}
	}
	if selected, ok := model.selectedTicket(); ok {
		model.selectedID = selected.ID
	} else {
		model.selectedID = 0
	}
	model.ensureCursorVisible()
}

func (model Model) selectedTicket() (ticket.Ticket, bool) {
	if model.cursor < 0 || model.cursor >= len(model.results) {
		return ticket.Ticket{}, false
	}
	return model.results[model.cursor].Ticket, true
}

// detailFor returns the cached detail for a ticket, creating it.
func (model *Model) detailFor(ticketID int64) *DetailContent {
	content, exists := model.details[ticketID]
	if !exists {
		content = &DetailContent{Users: model.userIndex}
		model.details[ticketID] = content
	}
	return content
}

// syncDetail shows the selected ticket and starts loading its comments
// and history when they are not cached.
func (model *Model) syncDetail() tea.Cmd {
	selected, ok := model.selectedTicket()
	if !ok {
		model.detailPane.Clear()
		return nil
	}
	content := model.detailFor(selected.ID)
	content.Ticket = selected

	var commands []tea.Cmd
	if !content.CommentsLoaded && model.can(ticket.ActionComment) {
		commands = append(commands, model.loadComments(selected.ID))
	}
	if !content.AuditLoaded && model.can(ticket.ActionAudit) {
		commands = append(commands, model.loadAudit(selected.ID))
	}
	model.detailPane.SetContent(*content, model.now())
	return tea.Batch(commands...)
}

// refreshDetailPane redraws the detail pane from the cache without
// fetching.
func (model *Model) refreshDetailPane() {
	selected, ok := model.selectedTicket()
	if !ok {
		return
	}
	content := model.detailFor(selected.ID)
	content.Ticket = selected
	model.detailPane.SetContent(*content, model.now())
}

// setStatus shows a status line message and schedules its fade and
// expiry redraws.
func (model *Model) setStatus(text string, isError bool) tea.Cmd {
	model.status = tui.NewStatusLine(text, isError, model.now())
	return tea.Batch(
		tea.Tick(tui.StatusLifetime-time.Second, func(time.Time) tea.Msg { return statusTickMsg{} }),
		tea.Tick(tui.StatusLifetime, func(time.Time) tea.Msg { return statusTickMsg{} }),
	)
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

// ignite starts a row glow and the animation tick if it is idle.
func (model *Model) ignite(ticketID int64, kind tui.HeatKind) tea.Cmd {
	model.heat.Ignite(ticketID, kind, model.now())
	if model.tickRunning {
		return nil
	}
	model.tickRunning = true
	return scheduleHeatTick()
}

func (model *Model) updatePaneSizes() {
	detailWidth := max(model.width-model.listWidth()-1, 10)
	model.detailPane.SetSize(detailWidth, model.visibleHeight())
}

func (model Model) listWidth() int {
	return int(float64(model.width) * listRatio)
}

// visibleHeight is the number of list rows between the chrome: tab
// bar and filter bar above, separator and status bar below.
func (model Model) visibleHeight() int {
	return max(model.height-4, 0)
}

func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	maxOffset := max(len(model.results)-visible, 0)
	model.scrollOffset = min(model.scrollOffset, maxOffset)
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}
