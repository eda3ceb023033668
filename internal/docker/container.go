// internal/docker/container.go
package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/errdefs"
	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/rusenback/docker-profiler/internal/model"
)

// ListContainers returns the containers known to the daemon, running ones
// only unless all is set
func (c *Client) ListContainers(all bool) ([]model.Container, error) {
	ctx, cancel := context.WithTimeout(c.ctx, 10*time.Second)
	defer cancel()

	containers, err := c.cli.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDocker,
			"Failed to list containers", "")
	}

	result := make([]model.Container, 0, len(containers))
	for _, cont := range containers {
		name := ""
		if len(cont.Names) > 0 {
			name = strings.TrimPrefix(cont.Names[0], "/")
		}

		result = append(result, model.Container{
			ID:     shortID(cont.ID),
			Name:   name,
			Image:  cont.Image,
			State:  cont.State,
			Status: cont.Status,
		})
	}

	return result, nil
}

// ResolveContainer looks a container up by name or ID
func (c *Client) ResolveContainer(nameOrID string) (model.Container, error) {
	ctx, cancel := context.WithTimeout(c.ctx, 10*time.Second)
	defer cancel()

	info, err := c.cli.ContainerInspect(ctx, nameOrID)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return model.Container{}, errors.New(errors.ErrDocker,
				fmt.Sprintf("Container not found: %s", nameOrID),
				"List running containers with 'dockerprof containers' or 'docker ps'")
		}
		return model.Container{}, errors.WrapWithCode(err, errors.ErrDocker,
			fmt.Sprintf("Failed to inspect container %s", nameOrID), "")
	}

	result := model.Container{
		ID:   shortID(info.ID),
		Name: strings.TrimPrefix(info.Name, "/"),
	}
	if info.Config != nil {
		result.Image = info.Config.Image
	}
	if info.State != nil {
		result.State = info.State.Status
	}

	c.log.Debug("resolved %s to %s (%s)", nameOrID, result.ID, result.State)
	return result, nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
