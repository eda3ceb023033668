package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rusenback/docker-profiler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestModel(opts Options) Model {
	samples := make(chan model.Sample)
	errs := make(chan error, 1)
	return NewModel(opts, samples, errs)
}

func feed(t *testing.T, m Model, samples ...model.Sample) Model {
	t.Helper()

	for _, s := range samples {
		next, cmd := m.Update(sampleMsg{sample: s})
		require.NotNil(t, cmd, "a new wait command follows every sample")
		m = next.(Model)
	}
	return m
}

func TestUpdate_SampleAppends(t *testing.T) {
	var seen []float64
	m := newTestModel(Options{Container: "web", OnSample: func(s model.Sample) {
		seen = append(seen, s.CPUPercent)
	}})

	m = feed(t, m,
		model.Sample{CPUPercent: 10, MemoryMB: 100},
		model.Sample{CPUPercent: 20, MemoryMB: 110},
	)

	assert.Equal(t, []float64{10, 20}, m.Series().CPU)
	assert.Equal(t, []float64{100, 110}, m.Series().Memory)
	assert.Equal(t, []float64{10, 20}, seen)
	require.NotNil(t, m.last)
	assert.Equal(t, 20.0, m.last.CPUPercent)
}

func TestUpdate_Done(t *testing.T) {
	streamErr := errors.New("stream reset")
	m := newTestModel(Options{})

	next, cmd := m.Update(doneMsg{err: streamErr})
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, streamErr, m.Err())
	assert.False(t, m.Interrupted())
	assert.Empty(t, m.View(), "batch view clears once done")
}

func TestUpdate_Interrupt(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		m := newTestModel(Options{})

		next, cmd := m.Update(key)
		m = next.(Model)

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.Interrupted(), "key %s", key.String())
	}
}

func TestFinish(t *testing.T) {
	collected := feed(t, newTestModel(Options{Container: "web"}),
		model.Sample{CPUPercent: 10, MemoryMB: 100},
		model.Sample{CPUPercent: 20, MemoryMB: 200},
		model.Sample{CPUPercent: 30, MemoryMB: 300},
	)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name            string
		ctx             context.Context
		err             error
		wantErr         bool
		wantInterrupted bool
	}{
		{
			name: "completed run",
			ctx:  context.Background(),
		},
		{
			name:            "killed by SIGINT",
			ctx:             context.Background(),
			err:             fmt.Errorf("%w: %w", tea.ErrProgramKilled, tea.ErrInterrupted),
			wantInterrupted: true,
		},
		{
			name:            "killed by context",
			ctx:             cancelled,
			err:             fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled),
			wantInterrupted: true,
		},
		{
			name:            "context cancelled after a clean quit",
			ctx:             cancelled,
			wantInterrupted: true,
		},
		{
			name:    "display failure",
			ctx:     context.Background(),
			err:     errors.New("could not open a new TTY"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := finish(tt.ctx, collected, tt.err)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 0, result.Series.Len())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantInterrupted, result.Interrupted)
			assert.Equal(t, []float64{10, 20, 30}, result.Series.CPU)
			assert.Equal(t, []float64{100, 200, 300}, result.Series.Memory)
		})
	}
}

func TestRun_CancelKeepsCollectedSamples(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	samples := make(chan model.Sample, 3)
	errs := make(chan error, 1)
	for i := 1; i <= 3; i++ {
		samples <- model.Sample{CPUPercent: float64(i * 10), MemoryMB: float64(i * 100)}
	}

	seen := 0
	opts := Options{Container: "web", OnSample: func(model.Sample) {
		seen++
		if seen == 3 {
			cancel()
		}
	}}

	result, err := Run(ctx, opts, samples, errs,
		tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutSignalHandler())
	require.NoError(t, err)

	assert.True(t, result.Interrupted)
	assert.NoError(t, result.Err)
	assert.Equal(t, []float64{10, 20, 30}, result.Series.CPU)
}

func TestUpdate_TickStopsWhenDone(t *testing.T) {
	m := newTestModel(Options{Live: true})

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)

	m.done = true
	_, cmd = m.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestView_Batch(t *testing.T) {
	m := newTestModel(Options{})
	m = feed(t, m, model.Sample{CPUPercent: 1}, model.Sample{CPUPercent: 2})

	view := m.View()
	assert.Contains(t, view, "Collecting data...")
	assert.Contains(t, view, "(2 samples)")
}

func TestView_Live(t *testing.T) {
	m := newTestModel(Options{Container: "web", Live: true, Width: 50, Height: 6, Window: 60})
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m.start = start
	m.now = func() time.Time { return start.Add(5 * time.Second) }

	view := m.View()
	assert.Contains(t, view, "Profiling: web")
	assert.Contains(t, view, "Elapsed: 5s")
	assert.Contains(t, view, "No data")

	m = feed(t, m, model.Sample{CPUPercent: 12.5, MemoryMB: 64, MemoryPercent: 3})
	view = m.View()
	assert.Contains(t, view, "CPU Usage (%)")
	assert.Contains(t, view, "Memory (MB)")
	assert.Contains(t, view, "12.5")
	assert.Contains(t, view, "64.0")
}

func TestView_LiveUsesRecentWindow(t *testing.T) {
	m := newTestModel(Options{Container: "web", Live: true, Width: 50, Height: 6, Window: 60})
	for i := 0; i < 80; i++ {
		m = feed(t, m, model.Sample{CPUPercent: float64(i), MemoryMB: float64(1000 + i)})
	}

	view := m.View()
	assert.Equal(t, 80, m.Series().Len(), "the run keeps every sample")
	assert.Contains(t, view, "  79.0 ┤")
	assert.Contains(t, view, "  20.0 ┤")
	assert.NotContains(t, view, "   0.0 ┤")
	assert.Contains(t, view, "1020.0 ┤")
}

func TestWaitForSample(t *testing.T) {
	samples := make(chan model.Sample, 1)
	errs := make(chan error, 1)

	samples <- model.Sample{CPUPercent: 7}
	msg := waitForSample(samples, errs)()
	assert.Equal(t, sampleMsg{sample: model.Sample{CPUPercent: 7}}, msg)

	streamErr := errors.New("gone")
	errs <- streamErr
	close(errs)
	close(samples)
	msg = waitForSample(samples, errs)()
	assert.Equal(t, doneMsg{err: streamErr}, msg)
}

func TestDrain(t *testing.T) {
	samples := make(chan model.Sample, 3)
	errs := make(chan error)
	for i := 1; i <= 3; i++ {
		samples <- model.Sample{CPUPercent: float64(i), MemoryMB: float64(i * 10)}
	}
	close(samples)
	close(errs)

	count := 0
	result := Drain(context.Background(), Options{OnSample: func(model.Sample) { count++ }}, samples, errs)

	assert.Equal(t, []float64{1, 2, 3}, result.Series.CPU)
	assert.Equal(t, 3, count)
	assert.NoError(t, result.Err)
	assert.False(t, result.Interrupted)
}

func TestReport(t *testing.T) {
	assert.Empty(t, Report(model.Series{}, "1m", 60, 8))

	series := model.Series{CPU: []float64{10, 20, 30}, Memory: []float64{100, 200, 300}}
	out := Report(series, "1m", 30, 5)

	assert.Contains(t, out, "CPU Usage (%)")
	assert.Contains(t, out, "Memory Usage (MB)")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Peak CPU: 30.0%, Avg CPU: 20.0%")
	assert.Contains(t, out, "Peak Memory: 300.0MB, Avg Memory: 200.0MB")
	assert.Contains(t, out, "1m")
	assert.True(t, strings.Index(out, "CPU Usage") < strings.Index(out, "Memory Usage"))
}

func TestHeader(t *testing.T) {
	out := Header("web", "5m", 2)

	assert.Contains(t, out, "Profiling: web for 5m")
	assert.Contains(t, out, "Interval: 2s")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "web", truncate("web", 10))
	assert.Equal(t, "very-lo...", truncate("very-long-container-name", 10))
}
