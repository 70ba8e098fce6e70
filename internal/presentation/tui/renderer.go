package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders assistant replies as markdown.
// When the terminal renderer cannot be created the text is passed through unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
