// Package clientdetails renders the read-only client panel.
package clientdetails

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/keys"
	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/ui/markdown"
	"github.com/zjrosen/clientbook/internal/ui/overlay"
	"github.com/zjrosen/clientbook/internal/ui/styles"
)

// Zone IDs for the panel buttons.
const (
	ZoneEdit   = "details-edit"
	ZoneDelete = "details-delete"
	ZoneClose  = "details-close"
)

// DefaultDateFormat is dd/mm/yyyy.
const DefaultDateFormat = "02/01/2006"

const (
	minPanelWidth = 36
	maxPanelWidth = 72
)

// CloseMsg is sent when the panel is dismissed.
type CloseMsg struct{}

// EditMsg asks to open the form for Client.
type EditMsg struct {
	Client client.Client
}

// DeleteMsg asks to confirm deletion of ID.
type DeleteMsg struct {
	ID string
}

// Document renders c as markdown. Timestamps use dateFormat plus the time of
// day, converted to loc.
func Document(c client.Client, dateFormat string, loc *time.Location) string {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDash(c.TradeName))
	fmt.Fprintf(&b, "- **Tax ID:** %s\n", orDash(client.DisplayTaxID(c.TaxID)))
	fmt.Fprintf(&b, "- **Legal name:** %s\n", orDash(c.LegalName))
	fmt.Fprintf(&b, "- **Trade name:** %s\n", orDash(c.TradeName))
	fmt.Fprintf(&b, "- **Email:** %s\n", orDash(c.Email))
	fmt.Fprintf(&b, "- **Phone:** %s\n", orDash(c.Phone))
	b.WriteString("\n## Address\n\n")
	fmt.Fprintf(&b, "- **Street:** %s\n", orDash(c.Address))
	fmt.Fprintf(&b, "- **City:** %s\n", orDash(c.City))
	fmt.Fprintf(&b, "- **Region:** %s\n", orDash(c.Region))
	b.WriteString("\n## Record\n\n")
	fmt.Fprintf(&b, "- **Registered:** %s\n", formatTime(c.CreatedAt, dateFormat, loc))
	fmt.Fprintf(&b, "- **Last updated:** %s\n", formatTime(c.UpdatedAt, dateFormat, loc))
	fmt.Fprintf(&b, "- **ID:** `%s`\n", c.ID)
	return b.String()
}

func formatTime(t time.Time, layout string, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(layout + " 15:04")
}

func orDash(s string) string {
	// Markdown would otherwise collapse an empty value into the label.
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Model is the detail panel state.
type Model struct {
	client     client.Client
	dateFormat string
	style      string
	loc        *time.Location
	rendered   string
	width      int
	height     int
}

// New creates a panel. style is the glamour style name.
func New(dateFormat, style string) Model {
	return Model{dateFormat: dateFormat, style: style, loc: time.Local}
}

// WithLocation sets the zone timestamps are shown in.
func (m Model) WithLocation(loc *time.Location) Model {
	m.loc = loc
	m.rendered = m.render()
	return m
}

// SetClient replaces the client shown.
func (m Model) SetClient(c client.Client) Model {
	m.client = c
	m.rendered = m.render()
	return m
}

// Client returns the client shown.
func (m Model) Client() client.Client {
	return m.client
}

// SetSize updates the screen size and re-renders for the new width.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.rendered = m.render()
	return m
}

func (m Model) panelWidth() int {
	if m.width <= 0 {
		return maxPanelWidth
	}
	return max(min(maxPanelWidth, m.width-4), minPanelWidth)
}

func (m Model) render() string {
	if m.client.ID == "" {
		return ""
	}
	doc := Document(m.client, m.dateFormat, m.loc)
	r, err := markdown.New(m.panelWidth()-4, m.style)
	if err != nil {
		log.ErrorErr(log.CatUI, "Markdown renderer unavailable", err)
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		log.ErrorErr(log.CatUI, "Rendering client details failed", err, "id", m.client.ID)
		return doc
	}
	return strings.TrimRight(out, "\n")
}

// Update handles panel keys and button clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Detail.Close):
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, keys.Detail.Edit):
			return m, m.edit()
		case key.Matches(msg, keys.Detail.Delete):
			return m, m.delete()
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		switch {
		case clicked(ZoneClose, msg):
			return m, func() tea.Msg { return CloseMsg{} }
		case clicked(ZoneEdit, msg):
			return m, m.edit()
		case clicked(ZoneDelete, msg):
			return m, m.delete()
		}
	}
	return m, nil
}

func clicked(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

func (m Model) edit() tea.Cmd {
	c := m.client
	return func() tea.Msg { return EditMsg{Client: c} }
}

func (m Model) delete() tea.Cmd {
	id := m.client.ID
	return func() tea.Msg { return DeleteMsg{ID: id} }
}

// View renders the panel box.
func (m Model) View() string {
	width := m.panelWidth()

	buttons := zone.Mark(ZoneEdit, styles.PrimaryButtonStyle.Render("Edit")) + "  " +
		zone.Mark(ZoneDelete, styles.DangerButtonStyle.Render("Delete")) + "  " +
		zone.Mark(ZoneClose, styles.SecondaryButtonFocusedStyle.Render("Close"))

	lines := strings.Split(m.rendered, "\n")
	lines = append(lines, "", " "+buttons)
	return styles.RenderPanel(lines, "Client details", "", width)
}

// Overlay renders the panel centered over bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
