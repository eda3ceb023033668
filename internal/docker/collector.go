package docker

import (
	"context"
	"time"

	"github.com/rusenback/docker-profiler/internal/model"
)

// Collect streams samples for a container at roughly one per interval until
// duration has elapsed, ctx is cancelled or the stream ends. The sample
// channel is closed when collection stops; a stream failure is reported on
// the error channel first.
func Collect(ctx context.Context, src StatsStreamer, id string, duration, interval time.Duration) (<-chan model.Sample, <-chan error) {
	out := make(chan model.Sample)
	errChan := make(chan error, 1)

	ctx, cancel := context.WithCancel(ctx)
	raw, rawErr := src.StreamStats(ctx, id)
	deadline := time.Now().Add(duration)

	go func() {
		defer cancel()
		defer close(out)
		defer close(errChan)

		if !pace(ctx, raw, out, deadline, interval) {
			return
		}
		// raw is closed, so the source has already queued its error, if any
		if err, ok := <-rawErr; ok && err != nil {
			errChan <- err
		}
	}()

	return out, errChan
}

// pace forwards samples from in to out, dropping those that arrive sooner
// than interval after the previous forwarded one. It reports whether it
// stopped because in was closed.
func pace(ctx context.Context, in <-chan model.Sample, out chan<- model.Sample, deadline time.Time, interval time.Duration) bool {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	// the daemon emits roughly once a second, with jitter
	slack := interval / 10

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return false
		case sample, ok := <-in:
			if !ok {
				return true
			}
			if !sample.Timestamp.Before(deadline) {
				return false
			}
			if !last.IsZero() && sample.Timestamp.Sub(last) < interval-slack {
				continue
			}
			last = sample.Timestamp

			select {
			case out <- sample:
			case <-ctx.Done():
				return false
			case <-timer.C:
				return false
			}
		}
	}
}
