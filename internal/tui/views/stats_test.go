package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rusenback/docker-profiler/internal/model"
	"github.com/stretchr/testify/assert"
)

func init() {
	// plain output keeps assertions independent of the terminal
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatMB(t *testing.T) {
	tests := []struct {
		mb   float64
		want string
	}{
		{mb: 2048, want: "2.00 GB"},
		{mb: 256.5, want: "256.50 MB"},
		{mb: 1, want: "1.00 MB"},
		{mb: 0.5, want: "512.00 KB"},
		{mb: 0, want: "0 B"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMB(tt.mb))
		})
	}
}

func TestRenderProgressBar(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]", renderProgressBar(50, 100, 10))
	assert.Equal(t, "[██████████]", renderProgressBar(250, 100, 10), "multi-core CPU clamps to full")
	assert.Equal(t, "[░░░░░░░░░░]", renderProgressBar(-1, 100, 10))
	assert.Equal(t, "[░░░░]", renderProgressBar(0, 0, 4))
}

func TestRenderSample(t *testing.T) {
	assert.Empty(t, RenderSample(nil))

	out := RenderSample(&model.Sample{
		CPUPercent:    12.5,
		MemoryMB:      300,
		MemoryPercent: 30,
		NetRxMB:       1.5,
		NetTxMB:       0.25,
	})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "12.5%")
	assert.Contains(t, lines[0], "300.00 MB (30.0%)")
	assert.Contains(t, lines[1], "1.50 MB")
	assert.Contains(t, lines[1], "256.00 KB")
}
