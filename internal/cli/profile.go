package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rusenback/docker-profiler/internal/config"
	"github.com/rusenback/docker-profiler/internal/docker"
	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/rusenback/docker-profiler/internal/logger"
	"github.com/rusenback/docker-profiler/internal/model"
	"github.com/rusenback/docker-profiler/internal/storage"
	"github.com/rusenback/docker-profiler/internal/tui"
	"github.com/spf13/cobra"
)

// profileOptions holds the flags of the root (profile) command
type profileOptions struct {
	container string
	live      bool
	output    string
}

var profileBindings = map[string]string{
	"duration":       "duration",
	"interval":       "interval",
	"graph.width":    "width",
	"graph.height":   "height",
	"docker.host":    "docker-host",
	"storage.record": "record",
	"storage.path":   "db",
}

func addProfileFlags(cmd *cobra.Command, opts *profileOptions) {
	d := config.DefaultConfig()

	cmd.Flags().StringVarP(&opts.container, "container", "c", "", "container name or ID")
	cmd.Flags().StringP("duration", "d", d.Duration, "duration (e.g., 30s, 5m, 1h)")
	cmd.Flags().IntP("interval", "i", d.Interval, "sample interval in seconds")
	cmd.Flags().BoolVar(&opts.live, "live", false, "live updating display")
	cmd.Flags().Int("width", d.Graph.Width, "chart width in columns")
	cmd.Flags().Int("height", d.Graph.Height, "chart height in rows")
	cmd.Flags().String("docker-host", d.Docker.Host, "Docker daemon address")
	cmd.Flags().Bool("record", false, "record samples to the history database")
	cmd.Flags().String("db", d.Storage.Path, "history database path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "summary format: text, json or yaml")
}

// profileCommand collects stats for one container and prints the charts
// and summary for the run
func profileCommand(cmd *cobra.Command, opts *profileOptions) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, profileBindings)
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("[dockerprof]")

	client, err := newDockerClient(dockerConfig(cfg), log)
	if err != nil {
		return err
	}
	defer client.Close()

	name := opts.container
	if name == "" {
		name, err = pickContainer(client)
		if err != nil {
			return err
		}
	}

	cont, err := client.ResolveContainer(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	// the display must not mix with machine readable output
	display := out
	if opts.output != outputText {
		display = cmd.ErrOrStderr()
	}

	fmt.Fprintln(display, tui.Header(name, cfg.Duration, cfg.Interval))
	if !cont.Running() {
		fmt.Fprint(display, tui.Warning(fmt.Sprintf("container %s is %s, samples will be empty", name, cont.State)))
	}

	runOpts := tui.Options{
		Container: name,
		Live:      opts.live,
		Width:     cfg.Live.Width,
		Height:    cfg.Live.Height,
		Window:    cfg.Live.Window,
	}

	if cfg.Storage.Record {
		store, err := storage.NewStorage(cfg.Storage.Path, cfg.Storage.Retention, log)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.RecordContainer(cont); err != nil {
			log.Warn("%v", err)
		}
		runOpts.OnSample = func(s model.Sample) {
			store.Write(&storage.StatsEntry{ContainerID: cont.ID, Sample: s})
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	samples, errs := docker.Collect(ctx, client, cont.ID, cfg.DurationValue(), cfg.IntervalValue())

	var result tui.Result
	if isTerminal() {
		// SIGINT and SIGTERM reach the program through ctx
		result, err = tui.Run(ctx, runOpts, samples, errs,
			tea.WithOutput(display), tea.WithoutSignalHandler())
		if err != nil {
			return err
		}
	} else {
		result = tui.Drain(ctx, runOpts, samples, errs)
	}
	// stops collection when the user quit early
	cancel()

	log.Debug("collected %d samples in %s", result.Series.Len(), result.Elapsed)

	if result.Err != nil {
		return result.Err
	}
	if result.Interrupted {
		fmt.Fprint(display, "\n"+tui.Interrupted())
	}

	return writeResult(out, opts.output, cfg, name, result)
}

func writeResult(w io.Writer, format string, cfg *config.Config, name string, result tui.Result) error {
	if format != outputText {
		return writeSummary(w, format, newSummaryDoc(name, cfg, result))
	}

	report := tui.Report(result.Series, cfg.Duration, cfg.Graph.Width, cfg.Graph.Height)
	if report == "" {
		return nil
	}
	_, err := fmt.Fprint(w, "\n"+report)
	return err
}

// pickContainer asks the user to choose among the running containers
func pickContainer(client docker.DockerClient) (string, error) {
	if !isTerminal() {
		return "", errors.New(errors.ErrConfig,
			"No container specified",
			"Pass a container name or ID with --container")
	}

	containers, err := client.ListContainers(false)
	if err != nil {
		return "", err
	}
	if len(containers) == 0 {
		return "", errors.New(errors.ErrDocker,
			"No running containers",
			"Start a container first, or check 'docker ps'")
	}

	options := make([]huh.Option[string], 0, len(containers))
	for _, c := range containers {
		options = append(options, huh.NewOption(c.Label(), c.Name))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which container should be profiled?").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"No container selected", "Pass a container name or ID with --container")
	}

	return selected, nil
}
