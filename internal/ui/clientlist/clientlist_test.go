package clientlist

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/clientbook/internal/client"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sample() []client.Client {
	return []client.Client{
		{ID: "a", TaxID: "11.222.333/0001-81", LegalName: "Acme", TradeName: "Acme Corp", CreatedAt: created},
		{ID: "b", TaxID: "22.333.444/0001-90", LegalName: "Globex", TradeName: "Globex Inc", CreatedAt: created.AddDate(0, 1, 0)},
		{ID: "c", TaxID: "33444555000102", LegalName: "Initech", TradeName: "Initech", CreatedAt: created.AddDate(0, 2, 0)},
	}
}

func newList() Model {
	return New("").WithLocation(time.UTC).SetSize(120, 20).SetClients(sample(), 3)
}

func keyRune(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func render(m Model) string {
	return ansi.Strip(zone.Scan(m.View()))
}

func TestView_RowsAndFormatting(t *testing.T) {
	view := render(newList())

	require.Contains(t, view, "3 of 3 clients")
	require.Contains(t, view, "Tax ID")
	require.Contains(t, view, "Acme Corp")
	require.Contains(t, view, "01/05/2024")
	require.Contains(t, view, "33.444.555/0001-02", "complete ids are displayed formatted")
	require.Contains(t, view, "▶ 11.222.333/0001-81")
}

func TestView_UnsizedListShowsFullNames(t *testing.T) {
	m := New("").WithLocation(time.UTC).SetClients(sample(), 3)
	view := render(m)

	require.Contains(t, view, "Acme Corp")
	require.NotContains(t, view, "Acme ...")
}

func TestView_EmptyStates(t *testing.T) {
	empty := New("").SetSize(80, 10)
	require.Contains(t, render(empty), "No clients registered yet")

	m := newList()
	m, _ = m.Update(keyRune("/"))
	m, _ = m.Update(keyRune("z"))
	m = m.SetClients(nil, 3)
	require.Contains(t, render(m), `No clients match "z"`)
	require.Contains(t, render(m), "0 of 3 clients")
}

func TestNavigation(t *testing.T) {
	m := newList()

	m, _ = m.Update(keyRune("j"))
	require.Equal(t, 1, m.Cursor())
	m, _ = m.Update(keyRune("G"))
	require.Equal(t, 2, m.Cursor())
	m, _ = m.Update(keyRune("j"))
	require.Equal(t, 2, m.Cursor(), "cursor clamps at the last row")
	m, _ = m.Update(keyRune("g"))
	require.Equal(t, 0, m.Cursor())
	m, _ = m.Update(keyRune("k"))
	require.Equal(t, 0, m.Cursor())
}

func TestActions_EmitMessagesForSelectedRow(t *testing.T) {
	m := newList()
	m, _ = m.Update(keyRune("j"))
	globex := sample()[1]

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewMsg{Client: globex}, cmd())

	_, cmd = m.Update(keyRune("e"))
	require.Equal(t, EditMsg{Client: globex}, cmd())

	_, cmd = m.Update(keyRune("d"))
	require.Equal(t, DeleteMsg{ID: "b"}, cmd())

	_, cmd = m.Update(keyRune("n"))
	require.Equal(t, NewMsg{}, cmd())
}

func TestActions_NoSelectionIsNoop(t *testing.T) {
	m := New("").SetSize(80, 10)

	_, cmd := m.Update(keyRune("e"))
	require.Nil(t, cmd)
	_, cmd = m.Update(keyRune("n"))
	require.NotNil(t, cmd)
}

func TestSearch_EveryKeystrokeEmitsTerm(t *testing.T) {
	m := newList()

	m, _ = m.Update(keyRune("/"))
	require.True(t, m.Searching())

	var terms []string
	for _, r := range "acme" {
		var cmd tea.Cmd
		m, cmd = m.Update(keyRune(string(r)))
		terms = append(terms, collectSearch(cmd)...)
	}
	require.Equal(t, []string{"a", "ac", "acm", "acme"}, terms)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.Searching())
	require.Equal(t, "acme", m.SearchTerm())
	require.Contains(t, render(m), "Search: acme")
}

func TestSearch_EscClears(t *testing.T) {
	m := newList()
	m, _ = m.Update(keyRune("/"))
	m, _ = m.Update(keyRune("x"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Searching())
	require.Equal(t, "", m.SearchTerm())
	require.Equal(t, SearchMsg{Term: ""}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, cmd, "esc with an empty term does nothing")
}

func TestSearch_ClearFromTable(t *testing.T) {
	m := newList()
	m, _ = m.Update(keyRune("/"))
	m, _ = m.Update(keyRune("x"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, SearchMsg{Term: ""}, cmd())
}

// collectSearch runs cmd, unwrapping batches, and returns the search terms.
func collectSearch(cmd tea.Cmd) []string {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case SearchMsg:
		return []string{msg.Term}
	case tea.BatchMsg:
		var out []string
		for _, c := range msg {
			out = append(out, collectSearch(c)...)
		}
		return out
	}
	return nil
}

func TestSetClients_KeepsCursorOnSameClient(t *testing.T) {
	m := newList()
	m, _ = m.Update(keyRune("G"))

	all := sample()
	m = m.SetClients([]client.Client{all[2], all[0]}, 3)
	c, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "c", c.ID)

	m = m.SetClients(all[:1], 3)
	c, _ = m.Selected()
	require.Equal(t, "a", c.ID)

	m = m.SetClients(nil, 0)
	_, ok = m.Selected()
	require.False(t, ok)
}

func TestScrolling_KeepsCursorVisible(t *testing.T) {
	var many []client.Client
	for i := range 30 {
		many = append(many, client.Client{ID: fmt.Sprintf("id-%02d", i), LegalName: fmt.Sprintf("Client %02d", i), CreatedAt: created})
	}
	m := New("").WithLocation(time.UTC).SetSize(100, 8).SetClients(many, 30)

	for range 12 {
		m, _ = m.Update(keyRune("j"))
	}
	view := render(m)
	require.Contains(t, view, "Client 12")
	require.NotContains(t, view, "Client 00")
	require.Len(t, strings.Split(view, "\n"), 8)
}

func waitZone(t *testing.T, m Model, id string) *zone.ZoneInfo {
	t.Helper()
	for range 20 {
		zone.Scan(m.View())
		if z := zone.Get(id); z != nil && !z.IsZero() {
			return z
		}
		time.Sleep(time.Millisecond)
	}
	require.FailNow(t, "zone not registered", id)
	return nil
}

func leftClick(z *zone.ZoneInfo) tea.MouseMsg {
	return tea.MouseMsg{X: z.StartX + 1, Y: z.StartY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease}
}

func TestClick_RowSelectsThenOpens(t *testing.T) {
	m := newList()

	m, cmd := m.Update(leftClick(waitZone(t, m, RowZone("c"))))
	require.Nil(t, cmd)
	require.Equal(t, 2, m.Cursor())

	_, cmd = m.Update(leftClick(waitZone(t, m, RowZone("c"))))
	require.Equal(t, ViewMsg{Client: sample()[2]}, cmd())
}

func TestClick_ActionButtons(t *testing.T) {
	m := newList()

	m, cmd := m.Update(leftClick(waitZone(t, m, ActionZone(ActionDelete, "b"))))
	require.Equal(t, DeleteMsg{ID: "b"}, cmd())
	require.Equal(t, 1, m.Cursor())

	_, cmd = m.Update(leftClick(waitZone(t, m, ActionZone(ActionEdit, "a"))))
	require.Equal(t, EditMsg{Client: sample()[0]}, cmd())
}

func TestMouseWheel_MovesCursor(t *testing.T) {
	m := newList()

	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	require.Equal(t, 1, m.Cursor())
	m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	require.Equal(t, 0, m.Cursor())
}
