// Package report turns the outcome of a measurement cycle into the published
// summary document and the human-readable console summary.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/wellsgz/vigil/internal/config"
	"github.com/wellsgz/vigil/internal/probe"
	"github.com/wellsgz/vigil/internal/stats"
)

// Version is stamped into the summary document.
const Version = "1.0"

// SummaryFilename is the name of the per-cycle summary document inside the
// data directory. Downstream publishing picks this file up unmodified.
const SummaryFilename = "results.json"

// CycleReport is the per-target outcome of one measurement cycle.
type CycleReport struct {
	Target      config.Target
	Measurement *probe.Measurement

	// Lifetime covers the full log, Recent the trailing window.
	Lifetime stats.Snapshot
	Recent   stats.Snapshot

	// RecentMeasurements is the trailing-window slice the Recent snapshot
	// was computed from.
	RecentMeasurements []probe.Measurement

	// Err is set when the cycle failed structurally for this target
	// (configuration problem, store failure). Probe failures are data, not
	// errors, and land in Measurement instead.
	Err error
}

// RecentValue is one trailing-window measurement in the summary document,
// kept small for graphing.
type RecentValue struct {
	Measurement    int     `json:"measurement"`
	Timestamp      string  `json:"timestamp"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	Success        bool    `json:"success"`
}

// TargetSummary is the per-target block of the summary document.
type TargetSummary struct {
	Name         string         `json:"name"`
	URL          string         `json:"url"`
	Lifetime     stats.Snapshot `json:"lifetime"`
	Recent       stats.Snapshot `json:"recent"`
	RecentValues []RecentValue  `json:"recent_values"`
	Error        string         `json:"error,omitempty"`
}

// Document is the summary written to results.json after every cycle.
type Document struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Version     string          `json:"version"`
	Targets     []TargetSummary `json:"targets"`
}

// BuildDocument assembles the summary document from the cycle's reports.
// Snapshots are rounded to the documented precision so consecutive documents
// diff cleanly.
func BuildDocument(reports []CycleReport) Document {
	doc := Document{
		GeneratedAt: time.Now().UTC(),
		Version:     Version,
		Targets:     make([]TargetSummary, 0, len(reports)),
	}

	for _, r := range reports {
		ts := TargetSummary{
			Name:     r.Target.Name,
			URL:      r.Target.URL,
			Lifetime: r.Lifetime.Rounded(),
			Recent:   r.Recent.Rounded(),
		}
		if r.Err != nil {
			ts.Error = r.Err.Error()
		}
		ts.RecentValues = make([]RecentValue, 0, len(r.RecentMeasurements))
		for i, m := range r.RecentMeasurements {
			ts.RecentValues = append(ts.RecentValues, RecentValue{
				Measurement:    i + 1,
				Timestamp:      m.Timestamp.Format(time.RFC3339),
				ResponseTimeMs: m.ResponseTimeMs,
				Success:        m.Success,
			})
		}
		doc.Targets = append(doc.Targets, ts)
	}

	return doc
}

// Render writes the human-readable cycle summary.
func Render(w io.Writer, reports []CycleReport) {
	for _, r := range reports {
		fmt.Fprintf(w, "%s (%s)\n", r.Target.Name, r.Target.URL)

		if r.Err != nil {
			fmt.Fprintf(w, "  error: %v\n\n", r.Err)
			continue
		}

		if m := r.Measurement; m != nil {
			if m.Success {
				fmt.Fprintf(w, "  check: ok, %d in %.2fms\n", *m.StatusCode, m.ResponseTimeMs)
			} else {
				fmt.Fprintf(w, "  check: FAILED (%s) after %.2fms\n", m.ErrorString(), m.ResponseTimeMs)
			}
		}

		renderSnapshot(w, "lifetime", r.Lifetime)
		renderSnapshot(w, fmt.Sprintf("last %d", r.Recent.Total), r.Recent)
		fmt.Fprintln(w)
	}
}

func renderSnapshot(w io.Writer, label string, s stats.Snapshot) {
	s = s.Rounded()
	if s.Total == 0 {
		fmt.Fprintf(w, "  %s: no measurements\n", label)
		return
	}
	fmt.Fprintf(w, "  %s: %d checks, %d ok, %d failed, %.1f%% success\n",
		label, s.Total, s.SuccessCount, s.FailCount, s.SuccessRate)
	fmt.Fprintf(w, "    latency: avg %.2fms, median %.2fms, min %.2fms, max %.2fms\n",
		*s.AvgMs, *s.MedianMs, *s.MinMs, *s.MaxMs)
}
