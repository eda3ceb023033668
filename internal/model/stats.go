// internal/model/stats.go
package model

import "time"

const bytesPerMB = 1024 * 1024

// Sample is one resource-usage measurement of a container
type Sample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// CPU, may exceed 100 on multi-core hosts
	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`

	// Memory
	MemoryMB      float64 `json:"memory_mb" yaml:"memory_mb"`
	MemoryPercent float64 `json:"memory_percent" yaml:"memory_percent"`

	// Network, cumulative since container start
	NetRxMB float64 `json:"net_rx_mb" yaml:"net_rx_mb"`
	NetTxMB float64 `json:"net_tx_mb" yaml:"net_tx_mb"`
}

// BytesToMB converts a byte counter to megabytes (MiB)
func BytesToMB(b uint64) float64 {
	return float64(b) / bytesPerMB
}

// Series holds the per-metric value sequences accumulated during a run.
// Values are only ever appended.
type Series struct {
	CPU    []float64
	Memory []float64
}

// Append adds one sample to the sequences
func (s *Series) Append(sample Sample) {
	s.CPU = append(s.CPU, sample.CPUPercent)
	s.Memory = append(s.Memory, sample.MemoryMB)
}

// Len returns the number of samples collected
func (s Series) Len() int {
	return len(s.CPU)
}

// Tail returns the last n values of seq without copying. A non-positive n
// or a short sequence returns seq as is.
func Tail(seq []float64, n int) []float64 {
	if n <= 0 || len(seq) <= n {
		return seq
	}
	return seq[len(seq)-n:]
}
