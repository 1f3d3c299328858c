package clientdetails

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/ui/markdown"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func acme() client.Client {
	ts := time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC)
	return client.Client{
		ID:        "c-1",
		TaxID:     "11222333000181",
		LegalName: "Acme Ltda",
		TradeName: "Acme Corp",
		Email:     "a@acme.com",
		City:      "São Paulo",
		Region:    "SP",
		CreatedAt: ts,
		UpdatedAt: ts.Add(48 * time.Hour),
	}
}

func TestDocument_Fields(t *testing.T) {
	doc := Document(acme(), "", time.UTC)

	require.Contains(t, doc, "# Acme Corp")
	require.Contains(t, doc, "**Tax ID:** 11.222.333/0001-81")
	require.Contains(t, doc, "**Legal name:** Acme Ltda")
	require.Contains(t, doc, "**Phone:** -")
	require.Contains(t, doc, "**Region:** SP")
	require.Contains(t, doc, "**Registered:** 01/05/2024 13:30")
	require.Contains(t, doc, "**Last updated:** 03/05/2024 13:30")
	require.Contains(t, doc, "`c-1`")
}

func TestDocument_ZeroTimestampAndCustomFormat(t *testing.T) {
	c := acme()
	c.UpdatedAt = time.Time{}

	doc := Document(c, "2006-01-02", time.UTC)
	require.Contains(t, doc, "**Registered:** 2024-05-01 13:30")
	require.Contains(t, doc, "**Last updated:** -")
}

func TestDocument_IncompleteTaxIDShownAsStored(t *testing.T) {
	c := acme()
	c.TaxID = "11.222"
	require.Contains(t, Document(c, "", time.UTC), "**Tax ID:** 11.222")
}

func newPanel() Model {
	return New("", markdown.PlainStyle).WithLocation(time.UTC).SetSize(80, 40).SetClient(acme())
}

func TestView_LinesFitPanel(t *testing.T) {
	for _, line := range strings.Split(zone.Scan(newPanel().View()), "\n") {
		require.LessOrEqual(t, ansi.StringWidth(line), maxPanelWidth)
	}
}

func TestView_RendersClient(t *testing.T) {
	view := ansi.Strip(zone.Scan(newPanel().View()))

	require.Contains(t, view, "Client details")
	require.Contains(t, view, "Acme Corp")
	require.Contains(t, view, "11.222.333/0001-81")
	require.Contains(t, view, "Edit")
	require.Contains(t, view, "Delete")
	require.Contains(t, view, "Close")
}

func TestUpdate_Keys(t *testing.T) {
	m := newPanel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, CloseMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.Equal(t, EditMsg{Client: acme()}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.Equal(t, DeleteMsg{ID: "c-1"}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Nil(t, cmd)
}

func TestUpdate_ClickButtons(t *testing.T) {
	m := newPanel()

	cases := map[string]tea.Msg{
		ZoneEdit:   EditMsg{Client: acme()},
		ZoneDelete: DeleteMsg{ID: "c-1"},
		ZoneClose:  CloseMsg{},
	}
	for id, want := range cases {
		t.Run(id, func(t *testing.T) {
			var z *zone.ZoneInfo
			for range 20 {
				zone.Scan(m.View())
				if z = zone.Get(id); z != nil && !z.IsZero() {
					break
				}
				time.Sleep(time.Millisecond)
			}
			require.False(t, z.IsZero())

			_, cmd := m.Update(tea.MouseMsg{
				X:      z.StartX + 1,
				Y:      z.StartY,
				Button: tea.MouseButtonLeft,
				Action: tea.MouseActionRelease,
			})
			require.NotNil(t, cmd)
			require.Equal(t, want, cmd())
		})
	}
}
