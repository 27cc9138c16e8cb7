package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dyike/clipmind/pkg/clipmind"
	"github.com/dyike/clipmind/pkg/pipeline"
	"github.com/dyike/clipmind/pkg/store"
)

const listWidth = 40
const listLimit = 200

// FocusedPane represents which pane has focus
type FocusedPane int

const (
	FocusList FocusedPane = iota
	FocusDetail
	FocusSearch
)

// Model represents the main TUI application state
type Model struct {
	// Components
	viewport viewport.Model
	search   textinput.Model

	// State
	width   int
	height  int
	focused FocusedPane
	ready   bool

	// Data
	items        []store.Item
	results      []clipmind.SearchResult
	searchActive bool
	listIndex    int
	current      *store.Item
	lastEvent    string

	// Dependencies
	cm     *clipmind.ClipMind
	events <-chan pipeline.Event

	// Error
	err error
}

// Run starts clipboard capture and blocks inside the TUI until quit
func Run(cm *clipmind.ClipMind) error {
	events := cm.Subscribe()

	if err := cm.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer cm.Stop()

	p := tea.NewProgram(NewModel(cm, events), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// NewModel creates a new TUI model
func NewModel(cm *clipmind.ClipMind, events <-chan pipeline.Event) Model {
	ti := textinput.New()
	ti.Placeholder = "Search... (Enter to run, Esc to clear)"
	ti.CharLimit = 0

	return Model{
		search:  ti,
		focused: FocusList,
		cm:      cm,
		events:  events,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadItems,
		waitForEvent(m.events),
	)
}

// loadItems reloads the item list from the store
func (m Model) loadItems() tea.Msg {
	items, err := m.cm.ListItems(store.ListOptions{Limit: listLimit})
	if err != nil {
		return ErrorMsg{Err: err}
	}
	return ItemsLoadedMsg{Items: items}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		detailWidth := m.width - listWidth - 4
		detailHeight := m.height - 7 // Leave room for search and status

		m.viewport = viewport.New(detailWidth, detailHeight)
		m.viewport.SetContent(m.renderDetail())
		m.search.Width = detailWidth - 4

	case ItemsLoadedMsg:
		m.items = msg.Items
		if m.listIndex >= len(m.visibleCount()) {
			m.listIndex = max(0, len(m.visibleCount())-1)
		}
		// Keep detail in sync when the shown item disappeared
		if m.current != nil {
			if _, err := m.cm.GetItem(m.current.ID); err != nil {
				m.current = nil
				m.viewport.SetContent(m.renderDetail())
			}
		}

	case ItemSelectedMsg:
		m.current = msg.Item
		m.viewport.SetContent(m.renderDetail())
		m.viewport.GotoTop()

	case ItemDeletedMsg:
		if m.current != nil && m.current.ID == msg.ItemID {
			m.current = nil
		}
		return m, m.loadItems

	case SearchResultsMsg:
		m.searchActive = true
		m.results = msg.Results
		m.listIndex = 0
		m.focused = FocusList
		m.search.Blur()

	case PipelineEventMsg:
		m.lastEvent = describeEvent(msg.Event)
		// New captures refresh the list view
		switch msg.Event.Kind {
		case pipeline.EventCaptured, pipeline.EventGrouped:
			return m, tea.Batch(m.loadItems, waitForEvent(m.events))
		}
		return m, waitForEvent(m.events)

	case ErrorMsg:
		m.err = msg.Err
	}

	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global shortcuts
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m, tea.Quit

	case "tab":
		// Cycle focus: List -> Detail -> Search -> List
		switch m.focused {
		case FocusList:
			m.focused = FocusDetail
		case FocusDetail:
			m.focused = FocusSearch
			m.search.Focus()
		case FocusSearch:
			m.focused = FocusList
			m.search.Blur()
		}
		return m, nil
	}

	if m.focused == FocusSearch {
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(m.search.Value())
			if query != "" {
				return m, m.runSearch(query)
			}
			return m, nil
		case "esc":
			m.search.Reset()
			m.search.Blur()
			m.searchActive = false
			m.results = nil
			m.listIndex = 0
			m.focused = FocusList
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch m.focused {
	case FocusList:
		switch msg.String() {
		case "/":
			m.focused = FocusSearch
			m.search.Focus()
			return m, textinput.Blink
		case "up", "k":
			if m.listIndex > 0 {
				m.listIndex--
				return m, m.selectCurrent()
			}
		case "down", "j":
			if m.listIndex < len(m.visibleCount())-1 {
				m.listIndex++
				return m, m.selectCurrent()
			}
		case "enter":
			return m, m.selectCurrent()
		case "f":
			return m, m.toggleFavorite()
		case "d":
			return m, m.deleteSelected()
		case "esc":
			if m.searchActive {
				m.searchActive = false
				m.results = nil
				m.listIndex = 0
			}
		}
		return m, nil

	case FocusDetail:
		// Let viewport handle scrolling
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// visibleCount returns the items shown in the list pane
func (m Model) visibleCount() []store.Item {
	if m.searchActive {
		items := make([]store.Item, len(m.results))
		for i, r := range m.results {
			items[i] = r.Item
		}
		return items
	}
	return m.items
}

// selectCurrent loads the highlighted item into the detail pane
func (m Model) selectCurrent() tea.Cmd {
	visible := m.visibleCount()
	if m.listIndex >= len(visible) {
		return nil
	}
	item := visible[m.listIndex]
	return func() tea.Msg {
		fresh, err := m.cm.GetItem(item.ID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ItemSelectedMsg{Item: fresh}
	}
}

// toggleFavorite flips the favorite flag on the highlighted item
func (m Model) toggleFavorite() tea.Cmd {
	visible := m.visibleCount()
	if m.listIndex >= len(visible) {
		return nil
	}
	item := visible[m.listIndex]
	return func() tea.Msg {
		if err := m.cm.SetFavorite(item.ID, !item.Favorite); err != nil {
			return ErrorMsg{Err: err}
		}
		items, err := m.cm.ListItems(store.ListOptions{Limit: listLimit})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ItemsLoadedMsg{Items: items}
	}
}

// deleteSelected removes the highlighted item
func (m Model) deleteSelected() tea.Cmd {
	visible := m.visibleCount()
	if m.listIndex >= len(visible) {
		return nil
	}
	item := visible[m.listIndex]
	return func() tea.Msg {
		if err := m.cm.DeleteItem(item.ID); err != nil {
			return ErrorMsg{Err: err}
		}
		return ItemDeletedMsg{ItemID: item.ID}
	}
}

// runSearch executes a semantic query
func (m Model) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.cm.Search(query, 20)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SearchResultsMsg{Query: query, Results: results}
	}
}

// waitForEvent returns a command that waits for the next pipeline event
func waitForEvent(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return PipelineEventMsg{Event: ev}
	}
}

func describeEvent(ev pipeline.Event) string {
	switch ev.Kind {
	case pipeline.EventCaptured:
		return "captured: " + ev.Item.Title
	case pipeline.EventGrouped:
		return "grouped: " + ev.Item.Title
	case pipeline.EventIndexed:
		return "indexed: " + ev.Item.Title
	default:
		return ""
	}
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	list := m.renderList()
	detail := m.renderDetailPane()
	searchBox := m.renderSearch()
	status := m.renderStatusBar()

	rightArea := lipgloss.JoinVertical(lipgloss.Left,
		searchBox,
		detail,
	)

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		list,
		rightArea,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		status,
	)
}

// renderList renders the item list pane
func (m Model) renderList() string {
	var b strings.Builder

	title := "Clips"
	if m.searchActive {
		title = "Results"
	}
	b.WriteString(ListTitleStyle.Render(title))
	b.WriteString("\n")

	visible := m.visibleCount()
	for i, item := range visible {
		line := item.Title
		if len(line) > 30 {
			line = line[:27] + "..."
		}
		if item.Favorite {
			line = FavoriteMarkStyle.Render("*") + line
		}
		if m.searchActive && i < len(m.results) {
			line = ScoreStyle.Render(fmt.Sprintf("%.2f ", m.results[i].Score)) + line
		}

		style := ListItemStyle
		if i == m.listIndex && m.focused == FocusList {
			style = ListItemSelectedStyle
		}

		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if len(visible) == 0 {
		if m.searchActive {
			b.WriteString(HelpStyle.Render("No matches"))
		} else {
			b.WriteString(HelpStyle.Render("Nothing captured yet\nCopy something!"))
		}
	}

	style := ListStyle
	if m.focused == FocusList {
		style = style.BorderForeground(AccentColor)
	}
	return style.Width(listWidth).Height(m.height - 3).Render(b.String())
}

// renderDetailPane renders the detail viewport with its border
func (m Model) renderDetailPane() string {
	detailWidth := m.width - listWidth - 4
	detailHeight := m.height - 8

	style := DetailStyle
	if m.focused == FocusDetail {
		style = style.BorderForeground(AccentColor)
	}

	return style.Width(detailWidth).Height(detailHeight).Render(m.viewport.View())
}

// renderDetail renders the selected item's content
func (m Model) renderDetail() string {
	if m.current == nil {
		return HelpStyle.Render("Select an item to view it.\nUse j/k to move, Enter to open.")
	}

	var b strings.Builder
	b.WriteString(DetailTitleStyle.Render(m.current.Title))
	b.WriteString("\n")

	meta := fmt.Sprintf("[%s]", m.current.Category)
	if len(m.current.Tags) > 0 {
		meta += " " + strings.Join(m.current.Tags, ", ")
	}
	if m.current.SourceApp != "" {
		meta += " · " + m.current.SourceApp
	}
	b.WriteString(DetailMetaStyle.Render(meta))
	b.WriteString("\n\n")
	b.WriteString(m.current.Body)

	return b.String()
}

// renderSearch renders the search input
func (m Model) renderSearch() string {
	detailWidth := m.width - listWidth - 4

	style := SearchStyle
	if m.focused == FocusSearch {
		style = SearchFocusedStyle
	}

	return style.Width(detailWidth).Render(m.search.View())
}

// renderStatusBar renders the status bar
func (m Model) renderStatusBar() string {
	count := StatusCountStyle.Render(fmt.Sprintf("%d items", len(m.items)))

	var status string
	if m.err != nil {
		status = StatusErrorStyle.Render(m.err.Error())
	} else if m.lastEvent != "" {
		status = StatusEventStyle.Render(m.lastEvent)
	}

	help := HelpStyle.Render("Tab: focus | /: search | f: favorite | d: delete | Ctrl+Q: quit")

	left := lipgloss.JoinHorizontal(lipgloss.Left, count, " ", status)
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(help)-2))

	return StatusBarStyle.Width(m.width).Render(left + gap + help)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
