package cli

import (
	"fmt"

	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/rusenback/docker-profiler/internal/logger"
	"github.com/rusenback/docker-profiler/internal/model"
	"github.com/rusenback/docker-profiler/internal/storage"
	"github.com/rusenback/docker-profiler/internal/tui"
	"github.com/spf13/cobra"
)

var historyBindings = map[string]string{
	"storage.path": "db",
	"graph.width":  "width",
	"graph.height": "height",
}

func newHistoryCmd() *cobra.Command {
	var (
		container string
		rangeFlag string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Chart samples recorded with --record",
		Long: `Render the CPU and memory history of a container from the local
sample database. Ranges longer than 30 minutes are averaged into buckets.

Examples:
  dockerprof history -c myapp
  dockerprof history -c myapp --range 1day`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyCommand(cmd, container, rangeFlag)
		},
	}

	cmd.Flags().StringVarP(&container, "container", "c", "", "container name or ID")
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", storage.Range30Min.String(), "time range: 30min, 1hour, 6hours, 1day, 1week")
	cmd.Flags().String("db", "", "history database path")
	cmd.Flags().Int("width", 0, "chart width in columns")
	cmd.Flags().Int("height", 0, "chart height in rows")
	_ = cmd.MarkFlagRequired("container")

	return cmd
}

func historyCommand(cmd *cobra.Command, container, rangeFlag string) error {
	timeRange, err := storage.ParseTimeRange(rangeFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, historyBindings)
	if err != nil {
		return err
	}

	// retention cleanup belongs to recording runs
	store, err := storage.NewStorage(cfg.Storage.Path, 0, logger.NewEnvLogger("[history]"))
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := store.Query(container, timeRange)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(samples) == 0 {
		return errors.New(errors.ErrStorage,
			fmt.Sprintf("No recorded samples for %s in the last %s", container, timeRange),
			"Record a run first with 'dockerprof -c "+container+" --record'")
	}

	var series model.Series
	for _, s := range samples {
		series.Append(s)
	}

	first, last := samples[0].Timestamp, samples[len(samples)-1].Timestamp
	fmt.Fprintf(out, "History: %s, %d points from %s to %s\n\n",
		container, len(samples), first.Format("2006-01-02 15:04:05"), last.Format("2006-01-02 15:04:05"))

	_, err = fmt.Fprint(out, tui.Report(series, timeRange.String(), cfg.Graph.Width, cfg.Graph.Height))
	return err
}
