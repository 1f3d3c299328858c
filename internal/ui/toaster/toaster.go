// Package toaster renders the notification banner as a toast.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/clientbook/internal/ui/overlay"
	"github.com/zjrosen/clientbook/internal/ui/styles"
)

// Style selects the toast appearance.
type Style int

const (
	// StyleSuccess shows a green bordered toast.
	StyleSuccess Style = iota
	// StyleError shows a red bordered toast.
	StyleError
)

// Model holds the toast currently on screen.
type Model struct {
	message string
	style   Style
	seq     uint64
	visible bool
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message. seq identifies the notification so a stale dismiss
// can be told apart from the current one.
func (m Model) Show(message string, style Style, seq uint64) Model {
	m.message = message
	m.style = style
	m.seq = seq
	m.visible = true
	return m
}

// Hide removes the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible reports whether a toast is on screen.
func (m Model) Visible() bool {
	return m.visible
}

// Seq returns the sequence number of the toast last shown.
func (m Model) Seq() uint64 {
	return m.seq
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	box := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	if m.style == StyleError {
		return box.BorderForeground(styles.ToastBorderErrorColor).Render("❌ " + m.message)
	}
	return box.BorderForeground(styles.ToastBorderSuccessColor).Render("✅ " + m.message)
}

// Overlay draws the toast in the bottom right corner of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.BottomRight,
		PadX:     2,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg asks the app to hide notification Seq.
type DismissMsg struct {
	Seq uint64
}

// ScheduleDismiss emits DismissMsg{seq} after d.
func ScheduleDismiss(d time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{Seq: seq}
	})
}
