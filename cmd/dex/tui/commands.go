package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pokedex/internal/catalog"
	"pokedex/internal/logging"
	"pokedex/internal/render"
)

func (m Model) loadCatalog() tea.Cmd {
	cache, ctx := m.cfg.Cache, m.ctx
	return func() tea.Msg {
		return catalogLoadedMsg{err: cache.Load(ctx)}
	}
}

func (m Model) search(term string) tea.Cmd {
	resolver, ctx := m.cfg.Resolver, m.ctx
	return func() tea.Msg {
		res, err := resolver.Search(ctx, term)
		return searchResultMsg{res: res, err: err}
	}
}

func (m Model) runScan() tea.Cmd {
	progress := m.progress
	s := m.cfg.NewScanner(func(done, total int) {
		select {
		case progress <- scanProgressMsg{scan: progress, done: done, total: total}:
		default:
		}
	})
	ctx := m.ctx
	return func() tea.Msg {
		res, err := s.MostFrequentAbility(ctx)
		close(progress)
		return scanDoneMsg{res: res, err: err}
	}
}

// waitForProgress delivers the next progress update of the running scan.
// It yields no message once the scan has closed its channel.
func (m Model) waitForProgress() tea.Cmd {
	ch := m.progress
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// showGeneration renders generation n into the display.
func (m *Model) showGeneration(n int) {
	for _, g := range m.cfg.Generations {
		if g.Number != n {
			continue
		}
		names, err := m.cfg.Cache.ListRange(catalog.Range{Start: g.Start, End: g.End})
		if err != nil {
			m.setContent("", m.styles.Muted.Render("The catalog is not loaded yet."))
			return
		}
		logging.UIDebug("Show generation %d (%d-%d)", n, g.Start, g.End)
		m.setContent(fmt.Sprintf("Generation %d", n), m.cfg.Renderer.List(names, g.Start))
		return
	}
}

func (m *Model) setContent(title, body string) {
	m.title = title
	m.content = body
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
}

func (m *Model) clear() {
	m.setContent("", "")
	m.alert = ""
}

func (m *Model) showDetail(res searchResultMsg) {
	if res.err != nil {
		// The failure itself arrives through the alert box.
		m.setContent("", "")
		return
	}
	if !res.res.Found {
		m.setContent("", m.cfg.Renderer.NotFound(res.res))
		return
	}
	card, err := m.cfg.Renderer.DetailCard(res.res.Detail)
	if err != nil {
		m.setContent(res.res.Name, render.DetailMarkdown(res.res.Detail))
		return
	}
	m.setContent(res.res.Name, card)
}
