package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pricelabs-dash/dashboard"
)

// tickMsg drives the cooldown countdown.
type tickMsg time.Time

// loadedMsg reports the end of an initial load or a refresh.
type loadedMsg struct {
	refresh bool
	err     error
}

// tick returns a command that sends a tickMsg after one second.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// load fetches through the dashboard off the UI goroutine.
func load(ctx context.Context, d *dashboard.Dashboard, refresh bool) tea.Cmd {
	return func() tea.Msg {
		if refresh {
			return loadedMsg{refresh: true, err: d.Refresh(ctx)}
		}
		return loadedMsg{err: d.Load(ctx)}
	}
}
