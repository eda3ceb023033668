package tui

import (
	"fmt"
	"strings"

	"github.com/rusenback/docker-profiler/internal/graph"
	"github.com/rusenback/docker-profiler/internal/model"
)

// Header renders the lines printed before collection starts
func Header(container, duration string, interval int) string {
	return headerStyle.Render("Profiling:") + " " + container + " for " + duration + "\n" +
		dimStyle.Render(fmt.Sprintf("Interval: %ds", interval)) + "\n"
}

// Report renders the final CPU and memory charts over the whole run plus a
// summary panel. unit is used as the x-axis caption. Nothing is rendered
// when no sample was collected.
func Report(series model.Series, unit string, width, height int) string {
	if len(series.CPU) == 0 {
		return ""
	}

	var s strings.Builder
	s.WriteString(graph.Render(series.CPU, "CPU Usage (%)", width, height, unit))
	s.WriteString("\n\n")
	s.WriteString(graph.Render(series.Memory, "Memory Usage (MB)", width, height, unit))
	s.WriteString("\n\n")
	s.WriteString(panel("Summary", graph.RenderSummary(series.CPU, series.Memory)))
	s.WriteString("\n")
	return s.String()
}

// Interrupted is printed when the user stops a run early
func Interrupted() string {
	return warnStyle.Render("Interrupted") + "\n"
}

// Warning renders a non-fatal notice
func Warning(msg string) string {
	return warnStyle.Render("Warning:") + " " + msg + "\n"
}

// Error renders a fatal error for stderr
func Error(err error) string {
	return errorStyle.Render("Error:") + " " + strings.TrimSpace(err.Error()) + "\n"
}
