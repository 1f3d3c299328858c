package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelEdgeStyle  = lipgloss.NewStyle().Foreground(BorderHighlightFocusColor)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(BorderHighlightFocusColor)
)

// RenderPanel boxes content in a rounded border exactly width cells wide,
// with the title and an optional muted hint set into the top edge:
//
//	╭─ New client (ctrl+s to save) ─╮
//
// Rows wider than the box are left as is.
func RenderPanel(content []string, title, hint string, width int) string {
	b := lipgloss.RoundedBorder()
	inner := max(width-2, 1)

	var top strings.Builder
	top.WriteString(panelEdgeStyle.Render(b.TopLeft))
	used := 0
	if title != "" {
		top.WriteString(panelEdgeStyle.Render(b.Top+" ") + panelTitleStyle.Render(title))
		used = 2 + lipgloss.Width(title)
		if hint != "" {
			top.WriteString(" " + MutedStyle.Render("("+hint+")"))
			used += 3 + lipgloss.Width(hint)
		}
		top.WriteString(" ")
		used++
	}
	top.WriteString(panelEdgeStyle.Render(strings.Repeat(b.Top, max(inner-used, 0)) + b.TopRight))

	lines := make([]string, 0, len(content)+2)
	lines = append(lines, top.String())
	side := panelEdgeStyle.Render(b.Left)
	for _, row := range content {
		pad := strings.Repeat(" ", max(inner-lipgloss.Width(row), 0))
		lines = append(lines, side+row+pad+panelEdgeStyle.Render(b.Right))
	}
	lines = append(lines, panelEdgeStyle.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return strings.Join(lines, "\n")
}
