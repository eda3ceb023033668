// internal/docker/interface.go
package docker

import (
	"context"

	"github.com/rusenback/docker-profiler/internal/model"
)

// StatsStreamer produces decoded samples for one container until ctx is
// cancelled or the daemon ends the stream. Both channels are closed on return.
type StatsStreamer interface {
	StreamStats(ctx context.Context, id string) (<-chan model.Sample, <-chan error)
}

// DockerClient is the subset of the Docker API the profiler needs. It lets
// the cli package run against a fake in tests.
type DockerClient interface {
	StatsStreamer
	ListContainers(all bool) ([]model.Container, error)
	ResolveContainer(nameOrID string) (model.Container, error)
	Close() error
}

var _ DockerClient = (*Client)(nil)
