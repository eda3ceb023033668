package graph

import (
	"fmt"
	"strings"
)

// Series is one labelled value sequence for Summarize.
type Series struct {
	Label  string
	Unit   string
	Values []float64
}

// Stats holds the aggregate figures of a value sequence.
type Stats struct {
	Peak  float64 `json:"peak" yaml:"peak"`
	Avg   float64 `json:"avg" yaml:"avg"`
	Min   float64 `json:"min" yaml:"min"`
	Count int     `json:"count" yaml:"count"`
}

// Compute returns the peak, mean and minimum of values. ok is false for an
// empty sequence.
func Compute(values []float64) (stats Stats, ok bool) {
	if len(values) == 0 {
		return Stats{}, false
	}

	minVal, maxVal := bounds(values)
	var sum float64
	for _, v := range values {
		sum += v
	}

	return Stats{
		Peak:  maxVal,
		Avg:   sum / float64(len(values)),
		Min:   minVal,
		Count: len(values),
	}, true
}

// Summarize emits "Peak <Label>: <max><unit>, Avg <Label>: <mean><unit>" for
// every non-empty series, in argument order.
func Summarize(series ...Series) string {
	lines := make([]string, 0, len(series))
	for _, s := range series {
		stats, ok := Compute(s.Values)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("Peak %s: %.1f%s, Avg %s: %.1f%s",
			s.Label, stats.Peak, s.Unit, s.Label, stats.Avg, s.Unit))
	}
	return strings.Join(lines, "\n")
}

// RenderSummary summarizes the CPU (%) and memory (MB) sequences of a run.
func RenderSummary(cpu, memory []float64) string {
	return Summarize(
		Series{Label: "CPU", Unit: "%", Values: cpu},
		Series{Label: "Memory", Unit: "MB", Values: memory},
	)
}
