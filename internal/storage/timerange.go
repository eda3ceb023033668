package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/rusenback/docker-profiler/internal/errors"
)

// TimeRange represents different history window options
type TimeRange int

const (
	Range30Min TimeRange = iota
	Range1Hour
	Range6Hour
	Range1Day
	Range1Week
)

// TimeRanges lists every range in ascending order
var TimeRanges = []TimeRange{Range30Min, Range1Hour, Range6Hour, Range1Day, Range1Week}

func (t TimeRange) String() string {
	switch t {
	case Range30Min:
		return "30min"
	case Range1Hour:
		return "1hour"
	case Range6Hour:
		return "6hours"
	case Range1Day:
		return "1day"
	case Range1Week:
		return "1week"
	default:
		return "unknown"
	}
}

// Duration returns the time duration for the range
func (t TimeRange) Duration() time.Duration {
	switch t {
	case Range30Min:
		return 30 * time.Minute
	case Range1Hour:
		return 1 * time.Hour
	case Range6Hour:
		return 6 * time.Hour
	case Range1Day:
		return 24 * time.Hour
	case Range1Week:
		return 7 * 24 * time.Hour
	default:
		return 30 * time.Minute
	}
}

// BucketSize is the aggregation bucket in seconds; 0 means full resolution
func (t TimeRange) BucketSize() int64 {
	switch t {
	case Range1Hour:
		return 30
	case Range6Hour:
		return 300
	case Range1Day:
		return 600
	case Range1Week:
		return 3600
	default:
		return 0
	}
}

// ParseTimeRange parses the String form of a range
func ParseTimeRange(s string) (TimeRange, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	names := make([]string, 0, len(TimeRanges))
	for _, r := range TimeRanges {
		if r.String() == s {
			return r, nil
		}
		names = append(names, r.String())
	}
	return Range30Min, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown time range '%s'", s),
		"Use one of: "+strings.Join(names, ", "))
}
