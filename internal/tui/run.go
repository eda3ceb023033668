package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/docker-profiler/internal/model"
)

// Result is the outcome of a collection run
type Result struct {
	Series      model.Series
	Interrupted bool
	Err         error
	Elapsed     time.Duration
}

// Run drives a collection run through a bubbletea program until the sample
// channel closes, the user quits or ctx is cancelled. A run stopped by a
// signal or by ctx still returns the samples collected so far.
func Run(ctx context.Context, opts Options, samples <-chan model.Sample, errs <-chan error, progOpts ...tea.ProgramOption) (Result, error) {
	progOpts = append(progOpts, tea.WithContext(ctx))
	p := tea.NewProgram(NewModel(opts, samples, errs), progOpts...)

	final, err := p.Run()
	return finish(ctx, final, err)
}

// finish turns the program's final model into a Result
func finish(ctx context.Context, final tea.Model, err error) (Result, error) {
	stopped := errors.Is(err, tea.ErrInterrupted) || ctx.Err() != nil
	if err != nil && !stopped {
		return Result{}, fmt.Errorf("running display: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected model type %T", final)
	}

	return Result{
		Series:      m.Series(),
		Interrupted: m.Interrupted() || stopped,
		Err:         m.Err(),
		Elapsed:     m.Elapsed(),
	}, nil
}

// Drain collects without a display, for when stdout is not a terminal.
// Cancelling ctx counts as an interruption.
func Drain(ctx context.Context, opts Options, samples <-chan model.Sample, errs <-chan error) Result {
	start := time.Now()

	var result Result
	for sample := range samples {
		result.Series.Append(sample)
		if opts.OnSample != nil {
			opts.OnSample(sample)
		}
	}

	result.Err = <-errs
	result.Interrupted = ctx.Err() != nil
	result.Elapsed = time.Since(start)
	return result
}
