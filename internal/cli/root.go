package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rusenback/docker-profiler/internal/config"
	"github.com/rusenback/docker-profiler/internal/docker"
	"github.com/rusenback/docker-profiler/internal/logger"
	"github.com/rusenback/docker-profiler/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

// newDockerClient is replaced in tests
var newDockerClient = func(cfg docker.Config, log logger.Logger) (docker.DockerClient, error) {
	return docker.NewClient(cfg, log)
}

// isTerminal reports whether stdout and stdin are attached to a terminal
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// NewRootCmd builds the dockerprof command tree
func NewRootCmd() *cobra.Command {
	opts := &profileOptions{}

	rootCmd := &cobra.Command{
		Use:   "dockerprof",
		Short: "Visualize Docker container resources with ASCII graphs",
		Long: `Sample a container's CPU and memory usage at a fixed interval and render
the run as ASCII line charts with peak and average figures.

Examples:
  dockerprof -c myapp
  dockerprof -c myapp -d 5m
  dockerprof -c myapp --live
  dockerprof -c myapp -d 1h -i 5 --record`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return profileCommand(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/dockerprof/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	addProfileFlags(rootCmd, opts)

	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newContainersCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, tui.Error(err))
		os.Exit(1)
	}
}

// loadConfig resolves the config from defaults, file, env and the flags
// bound in bindings (viper key -> flag name)
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v, err := config.New(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd, bindings); err != nil {
		return nil, err
	}
	return config.Decode(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func dockerConfig(cfg *config.Config) docker.Config {
	return docker.Config{
		Host:      cfg.Docker.Host,
		TLSVerify: cfg.Docker.TLSVerify,
		CertPath:  cfg.Docker.CertPath,
		Timeout:   cfg.Docker.Timeout,
	}
}
