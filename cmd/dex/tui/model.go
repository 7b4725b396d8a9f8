// Package tui is the interactive dex page: a generation selector, a search
// box, the ability scan and an alert box for API failures.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"pokedex/internal/catalog"
	"pokedex/internal/config"
	"pokedex/internal/dex"
	"pokedex/internal/render"
	"pokedex/internal/scan"
)

// ScannerFactory builds a scanner that reports progress to fn.
type ScannerFactory func(fn scan.ProgressFunc) *scan.Scanner

// Config wires the page to an owned catalog.
type Config struct {
	Context     context.Context
	Cache       *catalog.Cache
	Resolver    *dex.Resolver
	NewScanner  ScannerFactory
	Renderer    *render.Renderer
	Generations []config.Generation
	Alerts      *Alerts
}

// Model is the bubbletea model of the page.
type Model struct {
	cfg Config
	ctx context.Context

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	styles   render.Styles

	loading   bool
	searching bool
	scanning  bool
	loadErr   error

	title    string
	content  string
	alert    string
	done     int
	total    int
	progress chan scanProgressMsg // per scan; closed when the scan returns

	width  int
	height int
}

type (
	catalogLoadedMsg struct{ err error }
	searchResultMsg  struct {
		res dex.SearchResult
		err error
	}
	scanDoneMsg struct {
		res scan.Result
		err error
	}
	scanProgressMsg struct {
		scan        chan scanProgressMsg // channel of the scan that sent it
		done, total int
	}
	alertMsg        string
)

// New creates the page model.
func New(cfg Config) Model {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = "Search by name"
	ti.CharLimit = 64
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	return Model{
		cfg:      cfg,
		ctx:      cfg.Context,
		input:    ti,
		spinner:  sp,
		viewport: vp,
		styles:   cfg.Renderer.Styles(),
		loading:  true,
	}
}

// Init starts the catalog load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCatalog(), m.waitForAlert())
}

// Run starts the page in the alternate screen and blocks until it exits.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
