// Package tui is the interactive room browser: a room list with live
// progress that opens into a room's checklist. Every change goes straight
// through the managers, so it is persisted before the next key press.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/declutter/internal/app"
	"github.com/idilsaglam/declutter/internal/decisions"
	"github.com/idilsaglam/declutter/internal/model"
	"github.com/idilsaglam/declutter/internal/progress"
)

type screen int

const (
	roomsScreen screen = iota
	itemsScreen
)

const resetWord = "reset"

// roomEntry adapts a room's progress to bubbles/list.Item
type roomEntry struct {
	progress.RoomProgress
}

func (r roomEntry) FilterValue() string { return r.Name }

// itemEntry is one checklist row.
type itemEntry struct {
	Item       model.Item
	Subsection string
}

func (i itemEntry) FilterValue() string { return i.Item.Text }

type roomDelegate struct{}

func (d roomDelegate) Height() int                               { return 1 }
func (d roomDelegate) Spacing() int                              { return 0 }
func (d roomDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d roomDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(roomEntry)
	if !ok {
		return
	}
	pct := fmt.Sprintf("%3d%%", r.Percent)
	switch {
	case r.Done():
		pct = successStyle.Render(pct)
	case r.Decided > 0:
		pct = accentStyle.Render(pct)
	default:
		pct = mutedStyle.Render(pct)
	}
	line := fmt.Sprintf("%s %-14s %s %s", r.Icon, r.Name, pct,
		mutedStyle.Render(fmt.Sprintf("%d/%d items", r.Decided, r.Total)))
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// itemDelegate renders a row with the item's current decision.
type itemDelegate struct {
	dm *decisions.Manager
	cl *decisions.Checklist
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(itemEntry)
	if !ok {
		return
	}
	mark := mutedStyle.Render(boxUnchecked)
	text := it.Item.Text
	if disp, decided := d.dm.Get(it.Item.ID); decided {
		st := dispositionStyles[disp]
		mark = st.Render(dispositionMarks[disp])
		text = mutedStyle.Render(text) + " " + st.Render(strings.ToUpper(disp.Label()))
	}
	tag := suggestionStyles[it.Item.Color].Render("●")
	line := fmt.Sprintf("%s %s %s %s", mark, tag, text, helpStyle.Render("· "+it.Subsection))
	if d.cl.IsChecked(it.Item.ID) {
		line += " " + successStyle.Render(boxChecked)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type undoEntry struct {
	id  string
	rec decisions.Record
	had bool
}

// Model is the Bubble Tea model for the browser.
type Model struct {
	app    *app.App
	screen screen

	rooms  list.Model
	items  list.Model
	roomID string
	color  model.Color // "" means every colour

	// reset confirmation
	confirming bool
	ti         textinput.Model

	status string
	undo   *undoEntry

	width, height int
}

var (
	trashKey  = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trash"))
	donateKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "donate"))
	keepKey   = key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "keep"))
	skipKey   = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip"))
	clearKey  = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear"))
	colorKey  = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "colour filter"))
	undoKey   = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	checkKey  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check"))
	backKey   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	openKey   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	resetKey  = key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset all"))
	quitKey   = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))

	confirmKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm"))
)

// New builds the browser on top of an opened App.
func New(a *app.App) Model {
	rl := list.New(nil, roomDelegate{}, 0, 0)
	rl.SetShowHelp(true)
	rl.SetShowStatusBar(false)
	rl.SetFilteringEnabled(true)
	rl.Styles.Title = titleStyle
	rl.Styles.HelpStyle = helpStyle
	rl.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{openKey, resetKey} }
	rl.AdditionalFullHelpKeys = rl.AdditionalShortHelpKeys

	il := list.New(nil, itemDelegate{dm: a.Decisions, cl: a.Checklist}, 0, 0)
	// k, u and d decide items here, so the list keeps only the arrow and
	// page keys for those moves.
	il.KeyMap.CursorUp.SetKeys("up")
	il.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")
	il.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	il.SetShowHelp(true)
	il.SetShowPagination(true)
	il.SetShowStatusBar(true)
	il.SetFilteringEnabled(true)
	il.Styles.Title = titleStyle
	il.Styles.HelpStyle = helpStyle
	il.Styles.PaginationStyle = helpStyle
	il.FilterInput.Prompt = "/ "
	il.SetStatusBarItemName("item", "items")
	itemKeys := func() []key.Binding {
		return []key.Binding{trashKey, donateKey, keepKey, skipKey, clearKey, checkKey, colorKey, undoKey, backKey}
	}
	il.AdditionalShortHelpKeys = itemKeys
	il.AdditionalFullHelpKeys = itemKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = fmt.Sprintf("type %q to confirm", resetWord)
	ti.CharLimit = 20

	m := Model{app: a, rooms: rl, items: il, ti: ti, width: 80, height: 24}
	m.resize()
	m.refreshRooms()
	return m
}

// Run starts the browser in the alternate screen.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) refreshRooms() {
	a := m.app
	var entries []list.Item
	for _, rp := range progress.Rooms(a.Catalog, a.Decisions) {
		entries = append(entries, roomEntry{rp})
	}
	m.rooms.SetItems(entries)
	overall := progress.Overall(a.Catalog, a.Decisions)
	checked := progress.Overall(a.Catalog, a.Checklist)
	b := a.Bags.Counters()
	m.rooms.Title = fmt.Sprintf("%s   %s %d%%  %s %d/%d  %s %d   bags 🗑 %d 📦 %d",
		titleStyle.Render("Declutter"),
		successStyle.Render("✔"), overall.Percent,
		accentStyle.Render("Total"), overall.Decided, overall.Total,
		successStyle.Render(boxChecked), checked.Decided,
		b.Trash, b.Donate)
}

func (m *Model) loadRoom() {
	room, ok := m.app.Catalog.Filter(m.roomID, "", m.color)
	if !ok {
		return
	}
	var entries []list.Item
	for _, s := range room.Sections {
		for _, ss := range s.Subsections {
			for _, it := range ss.Items {
				entries = append(entries, itemEntry{Item: it, Subsection: ss.Name})
			}
		}
	}
	m.items.SetItems(entries)
	m.refreshItemsTitle()
}

func (m *Model) refreshItemsTitle() {
	room, _ := m.app.Catalog.Room(m.roomID)
	c := progress.Room(m.app.Catalog, m.app.Decisions, m.roomID)
	filter := "all"
	if m.color != "" {
		filter = suggestionStyles[m.color].Render(m.color.Label())
	}
	title := fmt.Sprintf("%s %s   %s %d/%d  %d%%   %s",
		room.Icon, titleStyle.Render(room.Name),
		successStyle.Render("✔"), c.Decided, c.Total, c.Percent,
		mutedStyle.Render("showing ")+filter)
	if m.status != "" {
		title += "  " + errorStyle.Render(m.status)
	}
	m.items.Title = title
}

func nextColor(c model.Color) model.Color {
	all := model.Colors()
	if c == "" {
		return all[0]
	}
	for i, x := range all {
		if x == c {
			if i+1 < len(all) {
				return all[i+1]
			}
			return ""
		}
	}
	return ""
}

func (m *Model) selected() (model.Item, bool) {
	it, ok := m.items.SelectedItem().(itemEntry)
	return it.Item, ok
}

// decide sets d on the selected item, or clears it when d is already set.
// An empty d clears.
func (m *Model) decide(d model.Disposition) {
	it, ok := m.selected()
	if !ok {
		return
	}
	dm := m.app.Decisions
	prev, had := dm.Lookup(it.ID)
	m.undo = &undoEntry{id: it.ID, rec: prev, had: had}

	var err error
	if d == "" || (had && prev.Disposition == d) {
		err = dm.Clear(it.ID)
	} else {
		err = dm.Set(it.ID, d)
	}
	m.setStatus(err)
}

func (m *Model) undoLast() {
	if m.undo == nil {
		return
	}
	u := m.undo
	m.undo = nil
	var err error
	if u.had {
		err = m.app.Decisions.Put(u.id, u.rec)
	} else {
		err = m.app.Decisions.Clear(u.id)
	}
	m.setStatus(err)
}

func (m *Model) toggleChecked() {
	it, ok := m.selected()
	if !ok {
		return
	}
	_, err := m.app.Checklist.Toggle(it.ID)
	m.setStatus(err)
}

func (m *Model) setStatus(err error) {
	m.status = ""
	if err != nil {
		m.status = "not saved: " + err.Error()
	}
	m.refreshItemsTitle()
}

func (m *Model) resize() {
	listHeight := m.height - 4
	if m.confirming {
		listHeight = m.height - 8
	}
	m.rooms.SetSize(m.width-4, listHeight)
	m.items.SetSize(m.width-4, listHeight)
}

// Init and Update and View implement Bubble Tea's Model
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.confirming {
		return m.updateConfirm(msg)
	}
	if m.screen == itemsScreen {
		return m.updateItems(msg)
	}
	return m.updateRooms(msg)
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, confirmKey):
			if strings.TrimSpace(m.ti.Value()) == resetWord {
				if err := m.app.Decisions.ResetAll(); err != nil {
					m.rooms.NewStatusMessage(errorStyle.Render("reset not saved: " + err.Error()))
				}
				m.undo = nil
				m.refreshRooms()
			}
			m.confirming = false
			m.ti.SetValue("")
			m.ti.Blur()
			m.resize()
			return m, nil
		case key.Matches(k, backKey):
			m.confirming = false
			m.ti.SetValue("")
			m.ti.Blur()
			m.resize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateRooms(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && m.rooms.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, quitKey):
			return m, tea.Quit
		case key.Matches(k, backKey) && m.rooms.FilterState() != list.FilterApplied:
			return m, tea.Quit
		case key.Matches(k, openKey):
			if r, ok := m.rooms.SelectedItem().(roomEntry); ok {
				m.roomID = r.ID
				m.color = ""
				m.status = ""
				m.undo = nil
				m.screen = itemsScreen
				m.items.ResetFilter()
				m.loadRoom()
				m.items.Select(0)
			}
			return m, nil
		case key.Matches(k, resetKey):
			m.confirming = true
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.rooms, cmd = m.rooms.Update(msg)
	return m, cmd
}

func (m Model) updateItems(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && m.items.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, quitKey):
			return m, tea.Quit
		case key.Matches(k, backKey) && m.items.FilterState() != list.FilterApplied:
			m.screen = roomsScreen
			m.refreshRooms()
			return m, nil
		case key.Matches(k, trashKey):
			m.decide(model.Trash)
			return m, nil
		case key.Matches(k, donateKey):
			m.decide(model.Donate)
			return m, nil
		case key.Matches(k, keepKey):
			m.decide(model.Keep)
			return m, nil
		case key.Matches(k, skipKey):
			m.decide(model.Skip)
			return m, nil
		case key.Matches(k, clearKey):
			m.decide("")
			return m, nil
		case key.Matches(k, checkKey):
			m.toggleChecked()
			return m, nil
		case key.Matches(k, undoKey):
			m.undoLast()
			return m, nil
		case key.Matches(k, colorKey):
			m.color = nextColor(m.color)
			m.items.ResetFilter()
			m.loadRoom()
			m.items.Select(0)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	content := m.rooms.View()
	if m.screen == itemsScreen {
		content = m.items.View()
	}
	if m.confirming {
		prompt := errorStyle.Render("Reset all progress?") + mutedStyle.Render(" This cannot be undone.") + "\n" + m.ti.View()
		content = content + "\n" + panelStyle.Render(prompt)
	}
	return panelStyle.Render(content)
}
