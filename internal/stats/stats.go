// Package stats derives aggregate statistics from ordered slices of
// measurements. Everything here is a pure function of its input: the same
// slice always yields the same snapshot, so re-aggregating a stored log is
// idempotent.
package stats

import (
	"math"
	"sort"

	"github.com/wellsgz/vigil/internal/probe"
)

// Snapshot holds the aggregate statistics over a slice of measurements.
// Latency fields are nil when the slice is empty; there are no latency
// statistics over an empty set.
type Snapshot struct {
	Total        int      `json:"total_checks"`
	SuccessCount int      `json:"successful_checks"`
	FailCount    int      `json:"failed_checks"`
	SuccessRate  float64  `json:"success_rate"`
	AvgMs        *float64 `json:"avg_response_time_ms"`
	MedianMs     *float64 `json:"median_response_time_ms"`
	MinMs        *float64 `json:"min_response_time_ms"`
	MaxMs        *float64 `json:"max_response_time_ms"`
}

// Compute aggregates a slice of measurements in chronological order. Latency
// statistics cover every measurement, successes and failures alike: a timed
// out request contributes its full elapsed time, which materially moves the
// average and maximum and is exactly what the log is meant to show.
func Compute(measurements []probe.Measurement) Snapshot {
	s := Snapshot{Total: len(measurements)}
	if s.Total == 0 {
		return s
	}

	values := make([]float64, 0, len(measurements))
	for _, m := range measurements {
		if m.Success {
			s.SuccessCount++
		} else {
			s.FailCount++
		}
		values = append(values, m.ResponseTimeMs)
	}

	s.SuccessRate = float64(s.SuccessCount) / float64(s.Total) * 100

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	min := sorted[0]
	max := sorted[len(sorted)-1]
	avg := mean(values)
	med := median(sorted)

	s.MinMs = &min
	s.MaxMs = &max
	s.AvgMs = &avg
	s.MedianMs = &med

	return s
}

// Rounded returns a copy with the rounding discipline used in the published
// summary document: success rate to one decimal, latencies to two.
func (s Snapshot) Rounded() Snapshot {
	r := s
	r.SuccessRate = round(s.SuccessRate, 1)
	r.AvgMs = roundPtr(s.AvgMs)
	r.MedianMs = roundPtr(s.MedianMs)
	r.MinMs = roundPtr(s.MinMs)
	r.MaxMs = roundPtr(s.MaxMs)
	return r
}

// median expects its input sorted ascending: middle value for an odd count,
// arithmetic mean of the two middle values for an even count.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, 2)
	return &r
}
