// internal/docker/stats.go
package docker

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/rusenback/docker-profiler/internal/model"
)

// StreamStats streams decoded samples for a container. The returned
// channels are closed when the stream ends or ctx is cancelled; at most one
// error is delivered.
func (c *Client) StreamStats(ctx context.Context, id string) (<-chan model.Sample, <-chan error) {
	statsChan := make(chan model.Sample)
	errChan := make(chan error, 1)

	go func() {
		defer close(statsChan)
		defer close(errChan)

		resp, err := c.cli.ContainerStats(ctx, id, true) // stream: true
		if err != nil {
			if ctx.Err() == nil {
				errChan <- errors.WrapWithCode(err, errors.ErrDocker,
					"Failed to read container stats", "Is the container still running?")
			}
			return
		}
		defer resp.Body.Close()

		if err := decodeStream(ctx, resp.Body, statsChan, time.Now); err != nil {
			errChan <- errors.WrapWithCode(err, errors.ErrDocker,
				"Stats stream failed", "")
		}
	}()

	return statsChan, errChan
}

// decodeStream decodes consecutive stats documents from r and sends one
// sample per document. Stream end and cancellation are not errors.
func decodeStream(ctx context.Context, r io.Reader, out chan<- model.Sample, now func() time.Time) error {
	decoder := json.NewDecoder(r)
	for {
		var stats types.StatsJSON
		if err := decoder.Decode(&stats); err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case out <- toSample(&stats, now()):
		case <-ctx.Done():
			return nil
		}
	}
}

// toSample reduces a raw stats snapshot to a Sample. CPU and memory are
// rounded to one decimal, network counters to two.
func toSample(stats *types.StatsJSON, ts time.Time) model.Sample {
	memUsage := stats.MemoryStats.Usage
	memLimit := stats.MemoryStats.Limit
	memPercent := float64(0)
	if memLimit > 0 {
		memPercent = float64(memUsage) / float64(memLimit) * 100.0
	}

	var networkRx, networkTx uint64
	for _, network := range stats.Networks {
		networkRx += network.RxBytes
		networkTx += network.TxBytes
	}

	return model.Sample{
		Timestamp:     ts,
		CPUPercent:    round(calculateCPUPercent(stats), 1),
		MemoryMB:      round(model.BytesToMB(memUsage), 1),
		MemoryPercent: round(memPercent, 1),
		NetRxMB:       round(model.BytesToMB(networkRx), 2),
		NetTxMB:       round(model.BytesToMB(networkTx), 2),
	}
}

// calculateCPUPercent computes CPU usage relative to one core, so a busy
// 4-core container can reach 400%.
func calculateCPUPercent(stats *types.StatsJSON) float64 {
	cpuDelta := float64(stats.CPUStats.CPUUsage.TotalUsage) - float64(stats.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(stats.CPUStats.SystemUsage) - float64(stats.PreCPUStats.SystemUsage)

	if systemDelta > 0.0 && cpuDelta > 0.0 {
		return (cpuDelta / systemDelta) * float64(onlineCPUs(stats)) * 100.0
	}
	return 0.0
}

func onlineCPUs(stats *types.StatsJSON) uint32 {
	if stats.CPUStats.OnlineCPUs > 0 {
		return stats.CPUStats.OnlineCPUs
	}
	if n := len(stats.CPUStats.CPUUsage.PercpuUsage); n > 0 {
		return uint32(n)
	}
	return 1
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
