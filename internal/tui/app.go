package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wellsgz/vigil/internal/collector"
)

// Run starts the dashboard and blocks until the user quits or the collector
// shuts down.
func Run(coll *collector.Collector, apiAddr string) error {
	model := NewModel(coll, apiAddr)
	defer coll.Unsubscribe(model.resultsChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
