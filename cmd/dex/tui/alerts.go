package tui

import tea "github.com/charmbracelet/bubbletea"

// Alerts is a notify.Notifier that forwards messages to the page's alert
// box.
type Alerts struct {
	ch chan string
}

// NewAlerts creates an alert queue holding up to size pending messages.
func NewAlerts(size int) *Alerts {
	if size <= 0 {
		size = 1
	}
	return &Alerts{ch: make(chan string, size)}
}

// Notify queues msg without blocking. Messages beyond capacity are dropped.
func (a *Alerts) Notify(msg string) {
	select {
	case a.ch <- msg:
	default:
	}
}

func (m Model) waitForAlert() tea.Cmd {
	if m.cfg.Alerts == nil {
		return nil
	}
	ch := m.cfg.Alerts.ch
	return func() tea.Msg {
		return alertMsg(<-ch)
	}
}
