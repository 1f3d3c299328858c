// Package modal provides the confirmation dialog shown before destructive
// actions.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/clientbook/internal/ui/overlay"
	"github.com/zjrosen/clientbook/internal/ui/styles"
)

// Zone IDs for the dialog buttons.
const (
	ZoneConfirm = "modal-confirm"
	ZoneCancel  = "modal-cancel"
)

const defaultWidth = 44

// ButtonVariant controls the styling of the confirm button.
type ButtonVariant int

const (
	ButtonPrimary ButtonVariant = iota
	ButtonDanger
)

// Config controls the dialog text and appearance.
type Config struct {
	Title          string
	Message        string
	ConfirmLabel   string // default "Confirm"
	CancelLabel    string // default "Cancel"
	ConfirmVariant ButtonVariant
	Width          int // content width, default 44
}

// ConfirmMsg is sent when the user accepts the dialog.
type ConfirmMsg struct{}

// CancelMsg is sent when the user dismisses the dialog.
type CancelMsg struct{}

// Field identifies the focused button.
type Field int

const (
	FieldConfirm Field = iota
	FieldCancel
)

// Model is the dialog state.
type Model struct {
	config  Config
	focused Field
	width   int
	height  int
}

// New creates a dialog. Focus starts on Cancel so a stray Enter does not
// destroy anything.
func New(cfg Config) Model {
	if cfg.ConfirmLabel == "" {
		cfg.ConfirmLabel = "Confirm"
	}
	if cfg.CancelLabel == "" {
		cfg.CancelLabel = "Cancel"
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	return Model{config: cfg, focused: FieldCancel}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles keys and button clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.focused = 1 - m.focused
		case "left", "h":
			m.focused = FieldConfirm
		case "right", "l":
			m.focused = FieldCancel
		case "y":
			return m, confirm
		case "n", "esc":
			return m, cancel
		case "enter", " ":
			if m.focused == FieldConfirm {
				return m, confirm
			}
			return m, cancel
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		if z := zone.Get(ZoneConfirm); z != nil && z.InBounds(msg) {
			m.focused = FieldConfirm
			return m, confirm
		}
		if z := zone.Get(ZoneCancel); z != nil && z.InBounds(msg) {
			m.focused = FieldCancel
			return m, cancel
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func confirm() tea.Msg { return ConfirmMsg{} }
func cancel() tea.Msg  { return CancelMsg{} }

// View renders the dialog box without placing it.
func (m Model) View() string {
	width := max(m.config.Width, lipgloss.Width(m.config.Title))
	boxWidth := width + 2

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1).
		Render(m.config.Title)
	divider := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor).
		Render(strings.Repeat("─", boxWidth))

	var body strings.Builder
	if m.config.Message != "" {
		body.WriteString(lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Render(wordwrap.String(m.config.Message, width)))
		body.WriteString("\n\n")
	}
	body.WriteString(m.renderButtons())

	content := title + "\n" + divider + "\n" + lipgloss.NewStyle().Padding(1, 1).Render(body.String())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(content)
}

func (m Model) renderButtons() string {
	confirmStyle := styles.PrimaryButtonStyle
	if m.config.ConfirmVariant == ButtonDanger {
		confirmStyle = styles.DangerButtonStyle
	}
	if m.focused == FieldConfirm {
		confirmStyle = styles.PrimaryButtonFocusedStyle
		if m.config.ConfirmVariant == ButtonDanger {
			confirmStyle = styles.DangerButtonFocusedStyle
		}
	}

	cancelStyle := styles.SecondaryButtonStyle
	if m.focused == FieldCancel {
		cancelStyle = styles.SecondaryButtonFocusedStyle
	}

	return zone.Mark(ZoneConfirm, confirmStyle.Render(m.config.ConfirmLabel)) +
		"  " +
		zone.Mark(ZoneCancel, cancelStyle.Render(m.config.CancelLabel))
}

// Overlay renders the dialog centered over bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize records the screen size used by Overlay.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focused returns the focused button.
func (m Model) Focused() Field {
	return m.focused
}
