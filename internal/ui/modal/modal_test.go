package modal

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func deleteDialog() Model {
	return New(Config{
		Title:          "Delete client",
		Message:        "Are you sure you want to delete Acme Corp? This cannot be undone.",
		ConfirmLabel:   "Delete",
		ConfirmVariant: ButtonDanger,
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func result(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestNew_FocusStartsOnCancel(t *testing.T) {
	m := deleteDialog()

	require.Equal(t, FieldCancel, m.Focused())
	_, cmd := m.Update(key("enter"))
	require.Equal(t, CancelMsg{}, result(t, cmd))
}

func TestUpdate_KeyboardConfirm(t *testing.T) {
	m := deleteDialog()

	m, _ = m.Update(key("left"))
	require.Equal(t, FieldConfirm, m.Focused())

	_, cmd := m.Update(key("enter"))
	require.Equal(t, ConfirmMsg{}, result(t, cmd))
}

func TestUpdate_TabToggles(t *testing.T) {
	m := deleteDialog()

	m, _ = m.Update(key("tab"))
	require.Equal(t, FieldConfirm, m.Focused())
	m, _ = m.Update(key("tab"))
	require.Equal(t, FieldCancel, m.Focused())
}

func TestUpdate_Shortcuts(t *testing.T) {
	m := deleteDialog()

	_, cmd := m.Update(key("y"))
	require.Equal(t, ConfirmMsg{}, result(t, cmd))

	_, cmd = m.Update(key("n"))
	require.Equal(t, CancelMsg{}, result(t, cmd))

	_, cmd = m.Update(key("esc"))
	require.Equal(t, CancelMsg{}, result(t, cmd))
}

func TestUpdate_UnhandledKeyIsNoop(t *testing.T) {
	_, cmd := deleteDialog().Update(key("x"))
	require.Nil(t, cmd)
}

func TestView_ContainsTextAndButtons(t *testing.T) {
	view := zone.Scan(deleteDialog().View())

	require.Contains(t, view, "Delete client")
	require.Contains(t, view, "Acme Corp?")
	require.Contains(t, view, "Delete")
	require.Contains(t, view, "Cancel")
}

func TestView_DefaultLabels(t *testing.T) {
	view := zone.Scan(New(Config{Title: "Sure?"}).View())

	require.Contains(t, view, "Confirm")
	require.Contains(t, view, "Cancel")
}

func waitZone(t *testing.T, id string, render func() string) *zone.ZoneInfo {
	t.Helper()
	var z *zone.ZoneInfo
	for range 20 {
		zone.Scan(render())
		z = zone.Get(id)
		if z != nil && !z.IsZero() {
			return z
		}
		time.Sleep(time.Millisecond)
	}
	require.FailNow(t, "zone not registered", id)
	return nil
}

func click(z *zone.ZoneInfo) tea.MouseMsg {
	return tea.MouseMsg{
		X:      z.StartX + (z.EndX-z.StartX)/2,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	}
}

func TestUpdate_ClickConfirm(t *testing.T) {
	m := deleteDialog()
	z := waitZone(t, ZoneConfirm, m.View)

	m, cmd := m.Update(click(z))
	require.Equal(t, ConfirmMsg{}, result(t, cmd))
	require.Equal(t, FieldConfirm, m.Focused())
}

func TestUpdate_ClickCancel(t *testing.T) {
	m := deleteDialog()
	z := waitZone(t, ZoneCancel, m.View)

	_, cmd := m.Update(click(z))
	require.Equal(t, CancelMsg{}, result(t, cmd))
}

func TestUpdate_ClickOutsideIgnored(t *testing.T) {
	m := deleteDialog()
	waitZone(t, ZoneConfirm, m.View)

	_, cmd := m.Update(tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	require.Nil(t, cmd)
}

func TestOverlay_CentersOnBackground(t *testing.T) {
	m := deleteDialog()
	m.SetSize(80, 20)

	out := zone.Scan(m.Overlay(""))
	require.Contains(t, out, "Delete client")
}
