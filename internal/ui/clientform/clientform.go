// Package clientform implements the create/edit client form.
package clientform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/keys"
	"github.com/zjrosen/clientbook/internal/ui/overlay"
	"github.com/zjrosen/clientbook/internal/ui/styles"
)

// Zone IDs for the form buttons. Field rows use FieldZone.
const (
	ZoneSave   = "clientform-save"
	ZoneCancel = "clientform-cancel"
)

const (
	labelWidth = 14
	minWidth   = 44
	maxWidth   = 72
)

// FieldZone returns the zone ID of the row for f.
func FieldZone(f client.Field) string {
	return "clientform-field-" + string(f)
}

// SubmitMsg carries the entered fields. Validation is left to the receiver.
type SubmitMsg struct {
	Fields client.Fields
}

// CancelMsg is sent when the form is dismissed without saving.
type CancelMsg struct{}

type fieldSpec struct {
	field       client.Field
	label       string
	placeholder string
	required    bool
	limit       int
}

var fieldSpecs = []fieldSpec{
	{client.FieldTaxID, "Tax ID", "00.000.000/0000-00", true, 18},
	{client.FieldLegalName, "Legal name", "Registered company name", true, 120},
	{client.FieldTradeName, "Trade name", "Name customers know", true, 120},
	{client.FieldEmail, "Email", "contact@company.com", true, 120},
	{client.FieldPhone, "Phone", "(00) 00000-0000", false, 40},
	{client.FieldAddress, "Address", "Street, number", false, 160},
	{client.FieldCity, "City", "", false, 80},
	{client.FieldRegion, "Region", "SP", false, 40},
}

// Model is the form state.
type Model struct {
	inputs  []textinput.Model
	errors  client.Errors
	editing bool
	focused int // input index, -1 when a button has focus
	button  int // 0 save, 1 cancel
	width   int
	height  int
}

// New creates a form pre-filled with initial. editing selects the title and
// save label.
func New(initial client.Fields, editing bool) Model {
	values := map[client.Field]string{
		client.FieldTaxID:     client.FormatTaxID(initial.TaxID),
		client.FieldLegalName: initial.LegalName,
		client.FieldTradeName: initial.TradeName,
		client.FieldEmail:     initial.Email,
		client.FieldPhone:     initial.Phone,
		client.FieldAddress:   initial.Address,
		client.FieldCity:      initial.City,
		client.FieldRegion:    initial.Region,
	}

	m := Model{
		inputs:  make([]textinput.Model, len(fieldSpecs)),
		errors:  client.Errors{},
		editing: editing,
	}
	for i, spec := range fieldSpecs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = spec.placeholder
		ti.CharLimit = spec.limit
		ti.SetValue(values[spec.field])
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Editing reports whether the form edits an existing client.
func (m Model) Editing() bool {
	return m.editing
}

// Focused returns the focused field, or "" when a button has focus.
func (m Model) Focused() client.Field {
	if m.focused < 0 {
		return ""
	}
	return fieldSpecs[m.focused].field
}

// Fields returns the current input values.
func (m Model) Fields() client.Fields {
	v := func(f client.Field) string { return m.inputs[indexOf(f)].Value() }
	return client.Fields{
		TaxID:     v(client.FieldTaxID),
		LegalName: v(client.FieldLegalName),
		TradeName: v(client.FieldTradeName),
		Email:     v(client.FieldEmail),
		Phone:     v(client.FieldPhone),
		Address:   v(client.FieldAddress),
		City:      v(client.FieldCity),
		Region:    v(client.FieldRegion),
	}
}

// SetErrors shows errs next to their fields and focuses the first invalid
// one.
func (m Model) SetErrors(errs client.Errors) Model {
	m.errors = client.Errors{}
	for f, msg := range errs {
		m.errors[f] = msg
	}
	for i, spec := range fieldSpecs {
		if _, bad := m.errors[spec.field]; bad {
			return m.focus(i)
		}
	}
	return m
}

// Errors returns the errors currently shown.
func (m Model) Errors() client.Errors {
	return m.errors
}

// SetSize records the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update handles navigation, typing and clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Form.Cancel):
			return m, cancel
		case key.Matches(msg, keys.Form.Submit):
			return m, m.submit()
		case key.Matches(msg, keys.Form.Next):
			return m.next(), nil
		case key.Matches(msg, keys.Form.Prev):
			return m.prev(), nil
		}

		if m.focused < 0 {
			switch msg.String() {
			case "left", "h":
				m.button = 0
			case "right", "l":
				m.button = 1
			case "enter", " ":
				if m.button == 0 {
					return m, m.submit()
				}
				return m, cancel
			}
			return m, nil
		}

		if msg.Type == tea.KeyEnter {
			return m.next(), nil
		}

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
			return m, nil
		}
		return m.handleClick(msg)
	}

	if m.focused < 0 {
		return m, nil
	}
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (Model, tea.Cmd) {
	spec := fieldSpecs[m.focused]
	before := m.inputs[m.focused].Value()

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)

	after := m.inputs[m.focused].Value()
	if spec.field == client.FieldTaxID {
		if masked := client.FormatTaxID(after); masked != after {
			m.inputs[m.focused].SetValue(masked)
			m.inputs[m.focused].CursorEnd()
			after = masked
		}
	}
	if after != before && m.errors[spec.field] != "" {
		m.errors = withoutField(m.errors, spec.field)
	}
	return m, cmd
}

func (m Model) handleClick(msg tea.MouseMsg) (Model, tea.Cmd) {
	if clicked(ZoneSave, msg) {
		m = m.focus(-1)
		m.button = 0
		return m, m.submit()
	}
	if clicked(ZoneCancel, msg) {
		m = m.focus(-1)
		m.button = 1
		return m, cancel
	}
	for i, spec := range fieldSpecs {
		if clicked(FieldZone(spec.field), msg) {
			return m.focus(i), nil
		}
	}
	return m, nil
}

func clicked(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}

func (m Model) submit() tea.Cmd {
	fields := m.Fields()
	return func() tea.Msg { return SubmitMsg{Fields: fields} }
}

func cancel() tea.Msg { return CancelMsg{} }

// focus moves focus to input i, or to the buttons when i is -1.
func (m Model) focus(i int) Model {
	if m.focused >= 0 {
		m.inputs[m.focused].Blur()
	}
	m.focused = i
	if i >= 0 {
		m.inputs[i].Focus()
	}
	return m
}

// next cycles inputs, then Save, then Cancel, then back to the first input.
func (m Model) next() Model {
	switch {
	case m.focused >= 0 && m.focused < len(m.inputs)-1:
		return m.focus(m.focused + 1)
	case m.focused >= 0:
		m = m.focus(-1)
		m.button = 0
		return m
	case m.button == 0:
		m.button = 1
		return m
	default:
		return m.focus(0)
	}
}

func (m Model) prev() Model {
	switch {
	case m.focused > 0:
		return m.focus(m.focused - 1)
	case m.focused == 0:
		m = m.focus(-1)
		m.button = 1
		return m
	case m.button == 1:
		m.button = 0
		return m
	default:
		return m.focus(len(m.inputs) - 1)
	}
}

func (m Model) boxWidth() int {
	if m.width <= 0 {
		return maxWidth
	}
	return max(min(maxWidth, m.width-4), minWidth)
}

// View renders the form box.
func (m Model) View() string {
	width := m.boxWidth()
	inputWidth := width - labelWidth - 6

	var lines []string
	for i, spec := range fieldSpecs {
		label := spec.label
		if spec.required {
			label += "*"
		}
		labelStyle := styles.MutedStyle
		if i == m.focused {
			labelStyle = styles.SelectionIndicatorStyle
		}

		input := m.inputs[i]
		input.Width = inputWidth
		row := " " + labelStyle.Render(styles.PadRight(label, labelWidth)) + " " + input.View()
		lines = append(lines, zone.Mark(FieldZone(spec.field), row))

		if msg := m.errors[spec.field]; msg != "" {
			lines = append(lines, strings.Repeat(" ", labelWidth+2)+styles.FieldErrorStyle.Render(styles.TruncateString(msg, inputWidth)))
		}
	}
	lines = append(lines, "", " "+m.renderButtons())

	title := "New client"
	if m.editing {
		title = "Edit client"
	}
	hint := fmt.Sprintf("%s to save", keys.Form.Submit.Help().Key)
	return styles.RenderPanel(lines, title, hint, width)
}

func (m Model) renderButtons() string {
	saveLabel := "Create"
	if m.editing {
		saveLabel = "Save changes"
	}

	saveStyle := styles.PrimaryButtonStyle
	cancelStyle := styles.SecondaryButtonStyle
	if m.focused < 0 {
		if m.button == 0 {
			saveStyle = styles.PrimaryButtonFocusedStyle
		} else {
			cancelStyle = styles.SecondaryButtonFocusedStyle
		}
	}
	return zone.Mark(ZoneSave, saveStyle.Render(saveLabel)) + "  " +
		zone.Mark(ZoneCancel, cancelStyle.Render("Cancel"))
}

// Overlay renders the form centered over bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

func indexOf(f client.Field) int {
	for i, spec := range fieldSpecs {
		if spec.field == f {
			return i
		}
	}
	panic("clientform: unknown field " + string(f))
}

func withoutField(errs client.Errors, f client.Field) client.Errors {
	out := make(client.Errors, len(errs))
	for k, v := range errs {
		if k != f {
			out[k] = v
		}
	}
	return out
}
