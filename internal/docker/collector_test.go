package docker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rusenback/docker-profiler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStreamer replays a fixed list of samples and then an optional error.
type fakeStreamer struct {
	samples []model.Sample
	err     error
}

func (f *fakeStreamer) StreamStats(ctx context.Context, id string) (<-chan model.Sample, <-chan error) {
	out := make(chan model.Sample)
	errChan := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errChan)

		for _, s := range f.samples {
			select {
			case out <- s:
			case <-ctx.Done():
				return
			}
		}
		if f.err != nil {
			errChan <- f.err
		}
	}()

	return out, errChan
}

func samplesEvery(start time.Time, step time.Duration, n int) []model.Sample {
	samples := make([]model.Sample, n)
	for i := range samples {
		samples[i] = model.Sample{
			Timestamp:  start.Add(time.Duration(i) * step),
			CPUPercent: float64(i),
		}
	}
	return samples
}

func drain(t *testing.T, samples <-chan model.Sample, errs <-chan error) ([]float64, error) {
	t.Helper()

	var cpu []float64
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s, ok := <-samples:
			if !ok {
				return cpu, <-errs
			}
			cpu = append(cpu, s.CPUPercent)
		case <-timeout:
			t.Fatal("collection did not finish")
			return nil, nil
		}
	}
}

func TestPace(t *testing.T) {
	tests := []struct {
		name     string
		step     time.Duration
		count    int
		interval time.Duration
		window   time.Duration
		want     []float64
		wantEnd  bool
	}{
		{
			name:     "every sample when interval matches",
			step:     time.Second,
			count:    4,
			interval: time.Second,
			window:   time.Minute,
			want:     []float64{0, 1, 2, 3},
			wantEnd:  true,
		},
		{
			name:     "jitter within slack is kept",
			step:     950 * time.Millisecond,
			count:    3,
			interval: time.Second,
			window:   time.Minute,
			want:     []float64{0, 1, 2},
			wantEnd:  true,
		},
		{
			name:     "drops samples inside the interval",
			step:     time.Second,
			count:    7,
			interval: 3 * time.Second,
			window:   time.Minute,
			want:     []float64{0, 3, 6},
			wantEnd:  true,
		},
		{
			name:     "stops at the deadline",
			step:     time.Second,
			count:    10,
			interval: time.Second,
			window:   3500 * time.Millisecond,
			want:     []float64{0, 1, 2, 3},
			wantEnd:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			in := make(chan model.Sample, tt.count)
			for _, s := range samplesEvery(start, tt.step, tt.count) {
				in <- s
			}
			close(in)

			out := make(chan model.Sample, tt.count)
			ended := pace(context.Background(), in, out, start.Add(tt.window), tt.interval)
			close(out)

			var got []float64
			for s := range out {
				got = append(got, s.CPUPercent)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantEnd, ended)
		})
	}
}

func TestPace_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan model.Sample)
	out := make(chan model.Sample)

	assert.False(t, pace(ctx, in, out, time.Now().Add(time.Minute), time.Second))
}

func TestCollect(t *testing.T) {
	src := &fakeStreamer{samples: samplesEvery(time.Now(), time.Millisecond, 5)}

	samples, errs := Collect(context.Background(), src, "web", time.Minute, time.Millisecond)
	cpu, err := drain(t, samples, errs)

	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, cpu)
}

func TestCollect_ForwardsStreamError(t *testing.T) {
	streamErr := errors.New("stream reset")
	src := &fakeStreamer{samples: samplesEvery(time.Now(), time.Millisecond, 2), err: streamErr}

	samples, errs := Collect(context.Background(), src, "web", time.Minute, time.Millisecond)
	cpu, err := drain(t, samples, errs)

	assert.Len(t, cpu, 2)
	assert.ErrorIs(t, err, streamErr)
}

func TestCollect_StopsAtDuration(t *testing.T) {
	// the source never ends on its own
	src := &blockingStreamer{}

	samples, errs := Collect(context.Background(), src, "web", 50*time.Millisecond, time.Second)
	cpu, err := drain(t, samples, errs)

	assert.NoError(t, err)
	assert.Empty(t, cpu)
}

type blockingStreamer struct{}

func (blockingStreamer) StreamStats(ctx context.Context, id string) (<-chan model.Sample, <-chan error) {
	out := make(chan model.Sample)
	errChan := make(chan error, 1)
	go func() {
		<-ctx.Done()
		close(errChan)
		close(out)
	}()
	return out, errChan
}
