package tui

import (
	"time"

	"github.com/wellsgz/vigil/internal/collector"
	"github.com/wellsgz/vigil/internal/config"
	"github.com/wellsgz/vigil/internal/report"
)

// sparklineWidth is the number of recent checks drawn per target.
const sparklineWidth = 30

// Model holds the dashboard state: the latest cycle report per target and a
// short latency history for the sparklines.
type Model struct {
	coll    *collector.Collector
	targets []config.Target
	apiAddr string

	reports map[string]report.CycleReport
	// history keeps recent latencies per target; failed checks are stored
	// as -1 so the sparkline can mark them.
	history map[string][]float64

	resultsChan <-chan report.CycleReport

	width   int
	height  int
	started time.Time
}

// NewModel creates the dashboard model subscribed to the collector.
func NewModel(coll *collector.Collector, apiAddr string) Model {
	m := Model{
		coll:        coll,
		targets:     coll.Targets(),
		apiAddr:     apiAddr,
		reports:     make(map[string]report.CycleReport),
		history:     make(map[string][]float64),
		resultsChan: coll.Subscribe(),
		started:     time.Now(),
	}

	// Backfill sparklines from the persisted logs so the dashboard is not
	// empty until the first cycle of this session.
	for _, t := range m.targets {
		tail, err := coll.Store().ReadTail(t.Name, sparklineWidth)
		if err != nil {
			continue
		}
		for _, msr := range tail {
			m.history[t.Name] = append(m.history[t.Name], historyValue(msr.ResponseTimeMs, msr.Success))
		}
	}

	return m
}

// absorb folds one cycle report into the model.
func (m *Model) absorb(r report.CycleReport) {
	m.reports[r.Target.Name] = r

	if r.Measurement == nil {
		return
	}
	h := append(m.history[r.Target.Name], historyValue(r.Measurement.ResponseTimeMs, r.Measurement.Success))
	if len(h) > sparklineWidth {
		h = h[len(h)-sparklineWidth:]
	}
	m.history[r.Target.Name] = h
}

func historyValue(latencyMs float64, success bool) float64 {
	if !success {
		return -1
	}
	return latencyMs
}
