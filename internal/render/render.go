// Package render turns catalog data into terminal text for the dex CLI and
// TUI.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"pokedex/internal/dex"
	"pokedex/internal/pokeapi"
	"pokedex/internal/scan"
)

// MissingName is shown for ids absent from the catalog.
const MissingName = "-"

// Renderer formats dex views. The zero value is not usable; call New.
type Renderer struct {
	styles    Styles
	stylePath string
	wrap      int
	markdown  *glamour.TermRenderer
}

// AutoStyle picks a glamour style from the terminal background.
const AutoStyle = "auto"

// New creates a Renderer. stylePath is AutoStyle or a glamour style
// ("dark", "light", "notty", or a JSON path).
func New(stylePath string, wordWrap int) (*Renderer, error) {
	if stylePath == "" {
		stylePath = AutoStyle
	}
	if wordWrap <= 0 {
		wordWrap = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if stylePath != AutoStyle {
		styleOpt = glamour.WithStylePath(stylePath)
	}
	md, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{
		styles:    DefaultStyles(),
		stylePath: stylePath,
		wrap:      wordWrap,
		markdown:  md,
	}, nil
}

// Styles returns the style set in use.
func (r *Renderer) Styles() Styles { return r.styles }

// List renders names as numbered lines starting at id start.
func (r *Renderer) List(names []string, start int) string {
	var sb strings.Builder
	for i, name := range names {
		idx := r.styles.Index.Render(fmt.Sprintf("#%d", start+i))
		if name == "" {
			sb.WriteString(idx + r.styles.Missing.Render(MissingName))
		} else {
			sb.WriteString(idx + r.styles.Name.Render(name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// PlainList renders names as "<id> <name>" lines without styling.
func PlainList(names []string, start int) string {
	var sb strings.Builder
	for i, name := range names {
		if name == "" {
			name = MissingName
		}
		fmt.Fprintf(&sb, "%d %s\n", start+i, name)
	}
	return sb.String()
}

// DetailMarkdown formats a detail record as markdown.
func DetailMarkdown(d *pokeapi.Detail) string {
	if d == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", d.Name)
	if d.ID > 0 {
		fmt.Fprintf(&sb, "**No.** %d\n\n", d.ID)
	}
	fmt.Fprintf(&sb, "**Type:** %s\n\n", strings.Join(d.Types, " "))
	fmt.Fprintf(&sb, "**Abilities:** %s\n\n", strings.Join(d.Abilities, ", "))
	fmt.Fprintf(&sb, "**Moves:** %s\n\n", strings.Join(d.Moves, ", "))
	if d.SpriteURL != "" {
		fmt.Fprintf(&sb, "[artwork](%s)\n", d.SpriteURL)
	}
	return sb.String()
}

// DetailCard renders a detail record through glamour.
func (r *Renderer) DetailCard(d *pokeapi.Detail) (string, error) {
	if d == nil {
		return "", nil
	}
	out, err := r.markdown.Render(DetailMarkdown(d))
	if err != nil {
		return "", fmt.Errorf("failed to render detail: %w", err)
	}
	return out, nil
}

// NotFoundMessage is the informational text for a search miss.
func NotFoundMessage(res dex.SearchResult) string {
	msg := fmt.Sprintf("There is no Pokemon named %q in the Pokedex", res.Term)
	if len(res.Suggestions) > 0 {
		msg += "\nDid you mean: " + strings.Join(res.Suggestions, ", ") + "?"
	}
	return msg
}

// NotFound renders a search miss.
func (r *Renderer) NotFound(res dex.SearchResult) string {
	return r.styles.Muted.Render(NotFoundMessage(res))
}

// AbilityMessage summarizes a scan result.
func AbilityMessage(res scan.Result) string {
	if res.Scanned == 0 {
		return "No entries to scan."
	}
	return fmt.Sprintf("Most frequent ability: %s (%d of %d)", res.Ability, res.Count, res.Scanned)
}

// AbilityResult renders a scan result, followed by the top rows of the
// tally when top > 1.
func (r *Renderer) AbilityResult(res scan.Result, top int) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Result.Render(AbilityMessage(res)))
	sb.WriteString("\n")
	if top > 1 && res.Tally != nil {
		for i, row := range res.Tally.Top(top) {
			fmt.Fprintf(&sb, "%3d. %-20s %d\n", i+1, row.Ability, row.Count)
		}
	}
	return sb.String()
}

// Alert renders the blocking failure notice.
func (r *Renderer) Alert(msg string) string {
	return r.styles.Alert.Render(msg)
}

// Progress renders a text progress bar of the given width.
func Progress(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	if done > total {
		done = total
	}
	filled := done * width / total
	return fmt.Sprintf("[%s%s] %d/%d", strings.Repeat("=", filled), strings.Repeat(" ", width-filled), done, total)
}
