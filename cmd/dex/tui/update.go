package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"pokedex/internal/logging"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if msg.Width > 0 {
			m.viewport.Width = msg.Width
		}
		if h := msg.Height - 6; h > 0 {
			m.viewport.Height = h
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case catalogLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err != nil {
			logging.UI("Catalog load failed: %v", msg.err)
		} else {
			logging.UI("Catalog ready: %d entries", m.cfg.Cache.Len())
		}
		return m, nil

	case searchResultMsg:
		m.searching = false
		m.showDetail(msg)
		return m, nil

	case scanProgressMsg:
		if !m.scanning || msg.scan != m.progress {
			return m, nil
		}
		m.done, m.total = msg.done, msg.total
		return m, m.waitForProgress()

	case scanDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.setContent("", "")
			return m, nil
		}
		m.setContent("Most frequent ability", m.cfg.Renderer.AbilityResult(msg.res, 5))
		return m, nil

	case alertMsg:
		m.alert = string(msg)
		return m, m.waitForAlert()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.input.Focused() {
		switch key {
		case "esc":
			m.input.Blur()
			return m, nil
		case "enter":
			term := m.input.Value()
			m.input.Blur()
			if strings.TrimSpace(term) == "" || m.loading || m.loadErr != nil {
				return m, nil
			}
			m.searching = true
			m.alert = ""
			return m, tea.Batch(m.spinner.Tick, m.search(term))
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.input.SetValue("")
		return m, m.input.Focus()
	case "c":
		m.clear()
		return m, nil
	case "a":
		if m.loading || m.scanning || m.loadErr != nil {
			return m, nil
		}
		m.scanning = true
		m.alert = ""
		m.done, m.total = 0, m.cfg.Cache.Len()
		m.progress = make(chan scanProgressMsg, 64)
		return m, tea.Batch(m.spinner.Tick, m.runScan(), m.waitForProgress())
	case "r":
		if m.loadErr == nil || m.loading {
			return m, nil
		}
		m.loading = true
		m.loadErr = nil
		m.alert = ""
		return m, tea.Batch(m.spinner.Tick, m.loadCatalog())
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		m.showGeneration(n)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}
