package probe

import (
	"context"
	"math"
	"time"
)

// Measurement is the canonical record of a single check against a target.
// StatusCode and Error are pointers so that they serialize as null when the
// request never produced a response (transport failure, timeout) or when the
// check succeeded, respectively.
type Measurement struct {
	Timestamp      time.Time `json:"timestamp"`
	Name           string    `json:"name"`
	URL            string    `json:"url"`
	StatusCode     *int      `json:"status_code"`
	ResponseTimeMs float64   `json:"response_time_ms"`
	Success        bool      `json:"success"`
	Error          *string   `json:"error"`
}

// ErrorString returns the recorded error, or "" for a successful measurement.
func (m Measurement) ErrorString() string {
	if m.Error == nil {
		return ""
	}
	return *m.Error
}

// Probe performs a single check against a target and reports the outcome as
// a Measurement. Network-level failures are captured inside the Measurement;
// the returned error is reserved for configuration problems (for example a
// malformed URL) that prevent the check from being attempted at all.
type Probe interface {
	// Name returns the target name for this probe
	Name() string

	// URL returns the target URL
	URL() string

	// Execute runs one check and returns the result
	Execute(ctx context.Context) (Measurement, error)
}

// roundMs rounds a duration in milliseconds to two decimal places, the
// precision carried in the persisted result log.
func roundMs(d time.Duration) float64 {
	ms := float64(d.Microseconds()) / 1000.0
	return math.Round(ms*100) / 100
}
