package tui

import "quoteme/demo/client"

// Messages for the tea program

// HealthCheckMsg reports whether the API answered the startup ping.
type HealthCheckMsg struct {
	Err error
}

// CheckCompleteMsg is sent when a duplicate check finishes.
type CheckCompleteMsg struct {
	Result *client.DuplicateCheckResult
	Err    error
}
