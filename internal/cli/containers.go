package cli

import (
	"fmt"

	"github.com/rusenback/docker-profiler/internal/logger"
	"github.com/spf13/cobra"
)

func newContainersCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "containers",
		Short: "List containers that can be profiled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return containersCommand(cmd, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include stopped containers")
	cmd.Flags().String("docker-host", "", "Docker daemon address")

	return cmd
}

func containersCommand(cmd *cobra.Command, all bool) error {
	cfg, err := loadConfig(cmd, map[string]string{"docker.host": "docker-host"})
	if err != nil {
		return err
	}

	client, err := newDockerClient(dockerConfig(cfg), logger.NewEnvLogger("[containers]"))
	if err != nil {
		return err
	}
	defer client.Close()

	containers, err := client.ListContainers(all)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(containers) == 0 {
		fmt.Fprintln(out, "No containers found")
		return nil
	}

	fmt.Fprintf(out, "%-12s  %-24s  %-10s  %s\n", "ID", "NAME", "STATE", "IMAGE")
	for _, c := range containers {
		fmt.Fprintf(out, "%-12s  %-24s  %-10s  %s\n", c.ID, c.Name, c.State, c.Image)
	}
	return nil
}
