package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/wellsgz/vigil/internal/tui/components"
)

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" vigil "))
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("monitoring %d target(s) · up %s · api %s",
		len(m.targets),
		time.Since(m.started).Round(time.Second),
		m.apiAddr)))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-20s %-6s %10s %8s %10s %10s %10s %10s  %s",
		"TARGET", "STATE", "LAST", "RATE", "AVG", "MEDIAN", "MIN", "MAX", "RECENT")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, t := range m.targets {
		b.WriteString(TableRowStyle.Render(m.renderRow(t.Name)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("q: quit"))

	return b.String()
}

func (m Model) renderRow(name string) string {
	r, ok := m.reports[name]
	if !ok {
		return fmt.Sprintf("%-20s %s", truncate(name, 20), SubtitleStyle.Render("waiting for first check..."))
	}

	if r.Err != nil {
		return fmt.Sprintf("%-20s %s %s",
			truncate(name, 20),
			DownStyle.Render("ERR"),
			ErrorStyle.Render(truncate(r.Err.Error(), 60)))
	}

	state := UpStyle.Render("UP")
	last := "-"
	if msr := r.Measurement; msr != nil {
		if !msr.Success {
			state = DownStyle.Render("DOWN")
		}
		last = LatencyStyle(msr.ResponseTimeMs).Render(fmt.Sprintf("%.2fms", msr.ResponseTimeMs))
	}

	s := r.Lifetime.Rounded()
	spark := components.Sparkline(m.history[name], sparklineWidth)

	return fmt.Sprintf("%-20s %-6s %10s %s %10s %10s %10s %10s  %s",
		truncate(name, 20),
		state,
		last,
		RateStyle(s.SuccessRate).Render(fmt.Sprintf("%7.1f%%", s.SuccessRate)),
		latencyCell(s.AvgMs),
		latencyCell(s.MedianMs),
		latencyCell(s.MinMs),
		latencyCell(s.MaxMs),
		spark)
}

func latencyCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2fms", *v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
