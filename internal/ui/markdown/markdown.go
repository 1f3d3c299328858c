// Package markdown renders markdown for the detail panel and the show
// command.
package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultStyle is used when no style is configured. A fixed style avoids the
// terminal background query glamour's auto style performs.
const DefaultStyle = "dark"

// PlainStyle renders without colors, for pipes and tests.
const PlainStyle = "notty"

const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer is a glamour renderer fixed to a width and style.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a renderer wrapping at width. style is a glamour standard style
// name or a path to a JSON style file.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = DefaultStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the style name or path in use.
func (r *Renderer) Style() string {
	return r.style
}

// Render converts markdown to styled terminal text.
func (r *Renderer) Render(md string) (string, error) {
	return r.renderer.Render(md)
}
