package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters from lowest to highest
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	sparkNormalColor = lipgloss.Color("#06B6D4") // Cyan
	sparkFailColor   = lipgloss.Color("#EF4444") // Red
)

// Sparkline renders a latency sparkline. Values below zero mark failed
// checks and are drawn as red markers instead of bars.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}

	// Take last 'width' values
	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	// Find min/max for scaling, ignoring failure markers
	min, max := -1.0, -1.0
	for _, v := range values {
		if v >= 0 {
			if min < 0 || v < min {
				min = v
			}
			if max < 0 || v > max {
				max = v
			}
		}
	}

	failStyle := lipgloss.NewStyle().Foreground(sparkFailColor)

	// Every check in the window failed
	if min < 0 {
		return failStyle.Render(strings.Repeat("×", len(values))) + strings.Repeat(" ", width-len(values))
	}

	if max == min {
		max = min + 1
	}

	normalStyle := lipgloss.NewStyle().Foreground(sparkNormalColor)

	var result strings.Builder
	for _, v := range values {
		if v < 0 {
			result.WriteString(failStyle.Render("×"))
			continue
		}
		scaled := (v - min) / (max - min)
		idx := int(scaled * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		result.WriteString(normalStyle.Render(string(sparkBlocks[idx])))
	}

	if padding := width - len(values); padding > 0 {
		result.WriteString(strings.Repeat(" ", padding))
	}

	return result.String()
}
