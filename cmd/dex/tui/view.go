package tui

import (
	"strings"

	"pokedex/internal/render"
)

const helpLine = "1-9 generation • / search • a top ability • c clear • r reload • q quit"

// View renders the page.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Pokedex"))
	sb.WriteString("\n")

	switch {
	case m.loading:
		sb.WriteString(m.spinner.View() + " Loading catalog...\n")
	case m.searching:
		sb.WriteString(m.spinner.View() + " Searching...\n")
	case m.scanning:
		sb.WriteString(m.spinner.View() + " Scanning abilities " + render.Progress(m.done, m.total, 30) + "\n")
	default:
		sb.WriteString(m.input.View() + "\n")
	}

	if m.alert != "" {
		sb.WriteString(m.cfg.Renderer.Alert(m.alert))
		sb.WriteString("\n")
	}

	if m.title != "" {
		sb.WriteString(m.styles.Result.Render(m.title))
		sb.WriteString("\n")
	}
	if m.content != "" {
		sb.WriteString(m.viewport.View())
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Help.Render(helpLine))
	return sb.String()
}
