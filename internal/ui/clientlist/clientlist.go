// Package clientlist renders the searchable client table.
package clientlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/keys"
	"github.com/zjrosen/clientbook/internal/ui/styles"
)

// DefaultDateFormat is dd/mm/yyyy.
const DefaultDateFormat = "02/01/2006"

const (
	taxIDWidth   = 18
	actionsWidth = 18
	minNameWidth = 8
	// defaultWidth lays out columns before the first resize.
	defaultWidth = 120
	chromeLines  = 3 // search bar, blank line, header
)

// Action names used in zone IDs.
const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// RowZone returns the zone ID for the data cells of the row showing id.
func RowZone(id string) string {
	return "clientlist-row-" + id
}

// ActionZone returns the zone ID of an action button on the row showing id.
func ActionZone(action, id string) string {
	return "clientlist-" + action + "-" + id
}

// NewMsg asks to open an empty form.
type NewMsg struct{}

// ViewMsg asks to open the detail panel for Client.
type ViewMsg struct {
	Client client.Client
}

// EditMsg asks to open the form for Client.
type EditMsg struct {
	Client client.Client
}

// DeleteMsg asks to confirm deletion of ID.
type DeleteMsg struct {
	ID string
}

// SearchMsg reports a change of the search term.
type SearchMsg struct {
	Term string
}

// Model is the table state. It does not own the clients; the caller pushes
// the filtered view with SetClients.
type Model struct {
	clients    []client.Client
	total      int
	cursor     int
	offset     int
	search     textinput.Model
	searching  bool
	dateFormat string
	loc        *time.Location
	width      int
	height     int
}

// New creates an empty table.
func New(dateFormat string) Model {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "name or tax ID"
	ti.CharLimit = 80
	return Model{
		search:     ti,
		dateFormat: dateFormat,
		loc:        time.Local,
	}
}

// WithLocation sets the zone registration dates are shown in.
func (m Model) WithLocation(loc *time.Location) Model {
	m.loc = loc
	return m
}

// SetClients replaces the rows. total is the unfiltered count shown in the
// search bar. The cursor stays on the same client when it is still present.
func (m Model) SetClients(clients []client.Client, total int) Model {
	var selectedID string
	if c, ok := m.Selected(); ok {
		selectedID = c.ID
	}

	m.clients = clients
	m.total = total
	m.cursor = min(m.cursor, max(len(clients)-1, 0))
	for i, c := range clients {
		if c.ID == selectedID {
			m.cursor = i
			break
		}
	}
	return m.ensureVisible()
}

// Clients returns the rows shown.
func (m Model) Clients() []client.Client {
	return m.clients
}

// Selected returns the client under the cursor.
func (m Model) Selected() (client.Client, bool) {
	if m.cursor < 0 || m.cursor >= len(m.clients) {
		return client.Client{}, false
	}
	return m.clients[m.cursor], true
}

// Cursor returns the cursor row index.
func (m Model) Cursor() int {
	return m.cursor
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searching
}

// SearchTerm returns the current search input.
func (m Model) SearchTerm() string {
	return m.search.Value()
}

// SetSize sets the area available to the table.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.ensureVisible()
}

func (m Model) visibleRows() int {
	return max(m.height-chromeLines, 1)
}

func (m Model) ensureVisible() Model {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(min(m.offset, len(m.clients)-rows), 0)
	return m
}

func (m Model) moveTo(i int) Model {
	if len(m.clients) == 0 {
		return m
	}
	m.cursor = max(min(i, len(m.clients)-1), 0)
	return m.ensureVisible()
}

// Update handles navigation, search input, actions and clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateTable(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m.setTerm("")
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != before {
		return m, tea.Batch(cmd, searchCmd(term))
	}
	return m, cmd
}

func (m Model) updateTable(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.List.Up):
		return m.moveTo(m.cursor - 1), nil
	case key.Matches(msg, keys.List.Down):
		return m.moveTo(m.cursor + 1), nil
	case key.Matches(msg, keys.List.Top):
		return m.moveTo(0), nil
	case key.Matches(msg, keys.List.Bottom):
		return m.moveTo(len(m.clients) - 1), nil
	case key.Matches(msg, keys.List.New):
		return m, func() tea.Msg { return NewMsg{} }
	case key.Matches(msg, keys.List.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, keys.List.Clear):
		if m.search.Value() == "" {
			return m, nil
		}
		return m.setTerm("")
	}

	c, ok := m.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.List.View):
		return m, viewCmd(c)
	case key.Matches(msg, keys.List.Edit):
		return m, editCmd(c)
	case key.Matches(msg, keys.List.Delete):
		return m, deleteCmd(c.ID)
	}
	return m, nil
}

func (m Model) setTerm(term string) (Model, tea.Cmd) {
	if m.search.Value() == term {
		return m, nil
	}
	m.search.SetValue(term)
	return m, searchCmd(term)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.moveTo(m.cursor - 1), nil
	case tea.MouseButtonWheelDown:
		return m.moveTo(m.cursor + 1), nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease {
			return m, nil
		}
	default:
		return m, nil
	}

	end := min(m.offset+m.visibleRows(), len(m.clients))
	for i := m.offset; i < end; i++ {
		c := m.clients[i]
		switch {
		case clicked(ActionZone(ActionView, c.ID), msg):
			return m.moveTo(i), viewCmd(c)
		case clicked(ActionZone(ActionEdit, c.ID), msg):
			return m.moveTo(i), editCmd(c)
		case clicked(ActionZone(ActionDelete, c.ID), msg):
			return m.moveTo(i), deleteCmd(c.ID)
		case clicked(RowZone(c.ID), msg):
			if i == m.cursor {
				return m, viewCmd(c)
			}
			return m.moveTo(i), nil
		}
	}
	return m, nil
}

func clicked(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

func viewCmd(c client.Client) tea.Cmd { return func() tea.Msg { return ViewMsg{Client: c} } }
func editCmd(c client.Client) tea.Cmd { return func() tea.Msg { return EditMsg{Client: c} } }
func deleteCmd(id string) tea.Cmd { return func() tea.Msg { return DeleteMsg{ID: id} } }
func searchCmd(term string) tea.Cmd { return func() tea.Msg { return SearchMsg{Term: term} } }

type columnWidths struct {
	legal, trade int
}

func (m Model) columns() columnWidths {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	// indicator(2) + four single-space separators
	flex := width - 2 - taxIDWidth - len(m.dateFormat) - actionsWidth - 4
	legal := max(flex/2, minNameWidth)
	trade := max(flex-legal, minNameWidth)
	return columnWidths{legal: legal, trade: trade}
}

// View renders the search bar, header and visible rows.
func (m Model) View() string {
	lines := []string{m.renderSearchBar(), ""}

	if len(m.clients) == 0 {
		lines = append(lines, styles.MutedStyle.Render("  "+m.emptyMessage()))
		return strings.Join(lines, "\n")
	}

	cols := m.columns()
	lines = append(lines, styles.HeaderStyle.Render(m.renderCells("  ", "Tax ID", "Legal name", "Trade name", "Registered", cols)+" Actions"))

	end := min(m.offset+m.visibleRows(), len(m.clients))
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i, cols))
	}
	return strings.Join(lines, "\n")
}

func (m Model) emptyMessage() string {
	if term := strings.TrimSpace(m.search.Value()); term != "" {
		return fmt.Sprintf("No clients match %q", term)
	}
	return "No clients registered yet. Press n to add one."
}

func (m Model) renderSearchBar() string {
	label := styles.MutedStyle.Render("Search: ")
	var input string
	switch {
	case m.searching:
		input = m.search.View()
	case m.search.Value() != "":
		input = m.search.Value()
	default:
		input = styles.MutedStyle.Render("press / to search")
	}
	count := styles.MutedStyle.Render(fmt.Sprintf("%d of %d clients", len(m.clients), m.total))

	bar := " " + label + input
	gap := max(m.width-lipgloss.Width(bar)-lipgloss.Width(count)-1, 1)
	return bar + strings.Repeat(" ", gap) + count
}

func (m Model) renderCells(indicator, taxID, legal, trade, date string, cols columnWidths) string {
	return indicator +
		styles.PadRight(taxID, taxIDWidth) + " " +
		styles.PadRight(legal, cols.legal) + " " +
		styles.PadRight(trade, cols.trade) + " " +
		styles.PadRight(date, len(m.dateFormat))
}

func (m Model) renderRow(i int, cols columnWidths) string {
	c := m.clients[i]
	selected := i == m.cursor

	indicator := "  "
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render("▶ ")
	}

	registered := ""
	if !c.CreatedAt.IsZero() {
		registered = c.CreatedAt.In(m.loc).Format(m.dateFormat)
	}
	cells := m.renderCells("", client.DisplayTaxID(c.TaxID), c.LegalName, c.TradeName, registered, cols)
	if selected {
		cells = styles.SelectedRowStyle.Render(cells)
	}

	actions := zone.Mark(ActionZone(ActionView, c.ID), "view") + " " +
		zone.Mark(ActionZone(ActionEdit, c.ID), "edit") + " " +
		zone.Mark(ActionZone(ActionDelete, c.ID), styles.FieldErrorStyle.Render("delete"))

	return indicator + zone.Mark(RowZone(c.ID), cells) + " " + actions
}
