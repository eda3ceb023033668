package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		}

	case sampleMsg:
		sample := msg.sample
		m.series.Append(sample)
		m.last = &sample
		if m.opts.OnSample != nil {
			m.opts.OnSample(sample)
		}
		return m, waitForSample(m.samples, m.errs)

	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
