package fzf

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const maxWrap = 100

// RenderMarkdown renders note content for a terminal preview, wrapped to
// width (capped at 100 columns).
func RenderMarkdown(content string, width int) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "(empty note)", nil
	}

	wrap := maxWrap
	if width > 0 && width < wrap {
		wrap = width
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", err
	}

	return r.Render(content)
}
