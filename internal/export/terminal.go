// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// TerminalRenderer pretty-prints markdown for an interactive terminal.
type TerminalRenderer struct {
	r *glamour.TermRenderer
}

// NewTerminalRenderer builds a renderer that detects a light or dark
// background and wraps at width columns (0 keeps glamour's default).
func NewTerminalRenderer(width int) (*TerminalRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating terminal renderer: %w", err)
	}
	return &TerminalRenderer{r: r}, nil
}

// Render returns markdown styled with ANSI escapes.
func (t *TerminalRenderer) Render(markdown string) (string, error) {
	return t.r.Render(markdown)
}
