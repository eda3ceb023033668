// internal/tui/views/stats.go
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/docker-profiler/internal/model"
)

const barWidth = 20

var (
	statsLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	statsValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4"))

	progressBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7D56F4"))
)

// RenderSample renders the latest sample as two compact lines: usage bars
// for CPU and memory, then the cumulative network counters
func RenderSample(sample *model.Sample) string {
	if sample == nil {
		return ""
	}

	var s strings.Builder

	s.WriteString(statsLabelStyle.Render("CPU "))
	s.WriteString(renderProgressBar(sample.CPUPercent, 100, barWidth))
	s.WriteString(statsValueStyle.Render(fmt.Sprintf(" %.1f%%", sample.CPUPercent)))

	s.WriteString(statsLabelStyle.Render("   Mem "))
	s.WriteString(renderProgressBar(sample.MemoryPercent, 100, barWidth))
	s.WriteString(statsValueStyle.Render(fmt.Sprintf(" %s (%.1f%%)", FormatMB(sample.MemoryMB), sample.MemoryPercent)))
	s.WriteString("\n")

	s.WriteString(statsLabelStyle.Render("Net RX "))
	s.WriteString(statsValueStyle.Render(FormatMB(sample.NetRxMB)))
	s.WriteString(statsLabelStyle.Render("   Net TX "))
	s.WriteString(statsValueStyle.Render(FormatMB(sample.NetTxMB)))

	return s.String()
}

// renderProgressBar draws an ASCII progress bar; values above max (multi-core
// CPU) render as a full bar
func renderProgressBar(value, max float64, width int) string {
	if max == 0 {
		max = 1
	}

	percent := value / max
	if percent > 1 {
		percent = 1
	}
	if percent < 0 {
		percent = 0
	}

	filled := int(percent * float64(width))
	empty := width - filled

	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
	return progressBarStyle.Render(bar)
}

// FormatMB formats a megabyte amount with a readable unit
func FormatMB(mb float64) string {
	const (
		KB = 1.0 / 1024
		GB = 1024.0
	)

	switch {
	case mb >= GB:
		return fmt.Sprintf("%.2f GB", mb/GB)
	case mb >= 1:
		return fmt.Sprintf("%.2f MB", mb)
	case mb >= KB:
		return fmt.Sprintf("%.2f KB", mb*1024)
	default:
		return fmt.Sprintf("%.0f B", mb*1024*1024)
	}
}
