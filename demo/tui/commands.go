package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quoteme/demo/client"
)

// checkHealth pings the API once at startup.
func checkHealth(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return HealthCheckMsg{Err: c.Health(ctx)}
	}
}

// runCheck submits the candidate quote to the duplicate-check endpoint.
func runCheck(c *client.Client, quote, author string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := c.CheckDuplicate(ctx, quote, author)
		return CheckCompleteMsg{Result: result, Err: err}
	}
}
