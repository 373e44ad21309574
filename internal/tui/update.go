package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wellsgz/vigil/internal/report"
)

// ResultMsg carries one per-target cycle report into the update loop.
type ResultMsg report.CycleReport

// channelClosedMsg signals that the collector shut down the subscription.
type channelClosedMsg struct{}

// waitForResult returns a command that blocks on the next cycle report.
func waitForResult(ch <-chan report.CycleReport) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return ResultMsg(r)
	}
}

// Init starts listening for cycle reports.
func (m Model) Init() tea.Cmd {
	return waitForResult(m.resultsChan)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ResultMsg:
		m.absorb(report.CycleReport(msg))
		return m, waitForResult(m.resultsChan)

	case channelClosedMsg:
		return m, tea.Quit
	}

	return m, nil
}
