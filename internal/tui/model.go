package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/docker-profiler/internal/model"
)

// Options configures a collection run
type Options struct {
	Container string
	Live      bool

	// live chart size and how many recent samples it shows
	Width  int
	Height int
	Window int

	// OnSample is called for every sample on the update goroutine, after it
	// has been appended to the run's series
	OnSample func(model.Sample)
}

// Model is the bubbletea model driving one collection run. Samples are
// appended on the update goroutine only, so renders never race appends.
type Model struct {
	opts    Options
	samples <-chan model.Sample
	errs    <-chan error

	series  model.Series
	last    *model.Sample
	start   time.Time
	now     func() time.Time
	spinner spinner.Model

	done        bool
	interrupted bool
	err         error
}

// Message types for Bubbletea update loop
type tickMsg time.Time

type sampleMsg struct {
	sample model.Sample
}

type doneMsg struct {
	err error
}

// NewModel creates a model reading samples until the channel is closed
func NewModel(opts Options, samples <-chan model.Sample, errs <-chan error) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		opts:    opts,
		samples: samples,
		errs:    errs,
		start:   time.Now(),
		now:     time.Now,
		spinner: sp,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSample(m.samples, m.errs)}
	if m.opts.Live {
		cmds = append(cmds, tickCmd())
	} else {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Series returns the values collected so far
func (m Model) Series() model.Series {
	return m.series
}

// Interrupted reports whether the user stopped the run early
func (m Model) Interrupted() bool {
	return m.interrupted
}

// Err returns the error that ended collection, if any
func (m Model) Err() error {
	return m.err
}

// Elapsed is the wall-clock time since the run started
func (m Model) Elapsed() time.Duration {
	return m.now().Sub(m.start)
}
