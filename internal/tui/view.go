package tui

import (
	"fmt"
	"strings"

	"github.com/rusenback/docker-profiler/internal/graph"
	"github.com/rusenback/docker-profiler/internal/model"
	"github.com/rusenback/docker-profiler/internal/tui/views"
)

// View renders the TUI interface
func (m Model) View() string {
	if m.opts.Live {
		return m.liveView()
	}
	if m.done {
		return ""
	}
	return m.batchView()
}

func (m Model) batchView() string {
	return fmt.Sprintf("%s Collecting data... %s\n",
		m.spinner.View(),
		dimStyle.Render(fmt.Sprintf("(%d samples)", m.series.Len())))
}

// liveView redraws both charts over the most recent window of samples
func (m Model) liveView() string {
	var s strings.Builder

	s.WriteString(dimStyle.Render("Elapsed: " + formatElapsed(m.Elapsed())))
	s.WriteString("\n\n")

	cpu := model.Tail(m.series.CPU, m.opts.Window)
	mem := model.Tail(m.series.Memory, m.opts.Window)

	s.WriteString(cpuGraphStyle.Render(graph.Render(cpu, "CPU Usage (%)", m.opts.Width, m.opts.Height, "")))
	s.WriteString("\n\n")
	s.WriteString(memGraphStyle.Render(graph.Render(mem, "Memory (MB)", m.opts.Width, m.opts.Height, "")))

	if m.last != nil {
		s.WriteString("\n\n")
		s.WriteString(views.RenderSample(m.last))
	}

	return panel("Profiling: "+truncate(m.opts.Container, 40), s.String()) + "\n"
}
