package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval is how often the spinner advances
const tickInterval = 100 * time.Millisecond

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
