package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the terminal width used when styling markdown.
const DefaultWordWrap = 120

// Style renders markdown for the terminal. An empty style picks dark or light from
// the terminal background; otherwise style is a glamour standard style name
// ("dark", "light", "notty", ...) or the path of a JSON style file.
func Style(md, style string, wrap int) (string, error) {
	if wrap <= 0 {
		wrap = DefaultWordWrap
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
