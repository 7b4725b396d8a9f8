package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary     = lipgloss.Color("#3B4CCA") // Blue
	Accent      = lipgloss.Color("#FFDE00") // Yellow
	Muted       = lipgloss.Color("#8a8f98")
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#8BC34A") // Lime Green
)

// Styles holds the lipgloss styles used by the dex views.
type Styles struct {
	Title   lipgloss.Style
	Index   lipgloss.Style
	Name    lipgloss.Style
	Missing lipgloss.Style
	Muted   lipgloss.Style
	Alert   lipgloss.Style
	Result  lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the standard style set.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1),

		Index: lipgloss.NewStyle().
			Foreground(Muted).
			Width(6).
			Align(lipgloss.Right),

		Name: lipgloss.NewStyle().
			PaddingLeft(1),

		Missing: lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(Muted),

		Muted: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),

		Alert: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Destructive),

		Result: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(Muted),
	}
}
