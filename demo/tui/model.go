package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"quoteme/demo/client"
)

// State represents the application state machine
type State string

const (
	StateEditing  State = "editing"
	StateChecking State = "checking"
	StateResult   State = "result"
	StateError    State = "error"
)

// Field identifies which input currently has focus.
type Field int

const (
	FieldQuote Field = iota
	FieldAuthor
)

// Model represents the duplicate-check console state.
type Model struct {
	Client *client.Client

	State  State
	Active Field
	Quote  string
	Author string

	Result *client.DuplicateCheckResult
	Err    error

	Connected bool
	Checks    int
}

// NewModel creates a new TUI model
func NewModel(c *client.Client) Model {
	return Model{
		Client: c,
		State:  StateEditing,
		Active: FieldQuote,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return checkHealth(m.Client)
}
