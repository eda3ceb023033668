package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rusenback/docker-profiler/internal/config"
	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/rusenback/docker-profiler/internal/graph"
	"github.com/rusenback/docker-profiler/internal/tui"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// summaryDoc is the machine readable form of a run summary
type summaryDoc struct {
	Container   string       `json:"container" yaml:"container"`
	Duration    string       `json:"duration" yaml:"duration"`
	Interval    int          `json:"interval_seconds" yaml:"interval_seconds"`
	Samples     int          `json:"samples" yaml:"samples"`
	Interrupted bool         `json:"interrupted" yaml:"interrupted"`
	CPU         *graph.Stats `json:"cpu_percent,omitempty" yaml:"cpu_percent,omitempty"`
	Memory      *graph.Stats `json:"memory_mb,omitempty" yaml:"memory_mb,omitempty"`
}

func newSummaryDoc(name string, cfg *config.Config, result tui.Result) summaryDoc {
	doc := summaryDoc{
		Container:   name,
		Duration:    cfg.Duration,
		Interval:    cfg.Interval,
		Samples:     result.Series.Len(),
		Interrupted: result.Interrupted,
	}
	if stats, ok := graph.Compute(result.Series.CPU); ok {
		doc.CPU = &stats
	}
	if stats, ok := graph.Compute(result.Series.Memory); ok {
		doc.Memory = &stats
	}
	return doc
}

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown output format '%s'", format),
		"Use text, json or yaml")
}

func writeSummary(w io.Writer, format string, doc summaryDoc) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return validateOutput(format)
}
