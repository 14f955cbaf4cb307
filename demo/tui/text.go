package tui

// UI Text Constants
const (
	TextFooterEditing = "Tab: switch field | Enter: check | Esc/Ctrl+C: quit"
)
