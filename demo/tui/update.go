package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case HealthCheckMsg:
		m.Connected = msg.Err == nil
		return m, nil
	case CheckCompleteMsg:
		return m.handleCheckComplete(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	// A finished check returns to editing on any other key.
	if m.State == StateResult || m.State == StateError {
		m.State = StateEditing
		m.Result = nil
		m.Err = nil
		return m, nil
	}
	if m.State == StateChecking {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		if m.Active == FieldQuote {
			m.Active = FieldAuthor
		} else {
			m.Active = FieldQuote
		}
	case tea.KeyEnter:
		if strings.TrimSpace(m.Quote) == "" || strings.TrimSpace(m.Author) == "" {
			return m, nil
		}
		m.State = StateChecking
		m.Checks++
		return m, runCheck(m.Client, m.Quote, m.Author)
	case tea.KeyBackspace:
		field := m.activeField()
		if len(*field) > 0 {
			runes := []rune(*field)
			*field = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		*m.activeField() += " "
	case tea.KeyRunes:
		*m.activeField() += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) activeField() *string {
	if m.Active == FieldAuthor {
		return &m.Author
	}
	return &m.Quote
}

// handleCheckComplete processes duplicate-check completion
func (m Model) handleCheckComplete(msg CheckCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateResult
	m.Result = msg.Result
	return m, nil
}
