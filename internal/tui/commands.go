package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/docker-profiler/internal/model"
)

// tickCmd refreshes the live view once a second so the elapsed time keeps
// moving between samples
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForSample creates a command that waits for the next sample. A closed
// sample channel means collection is over; the error channel then holds
// the reason, if any.
func waitForSample(samples <-chan model.Sample, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		sample, ok := <-samples
		if !ok {
			return doneMsg{err: <-errs}
		}
		return sampleMsg{sample: sample}
	}
}
