package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("💬 Quote Me Duplicate Checker"))
	b.WriteString("\n\n")

	if !m.Connected {
		b.WriteString(ErrorStyle.Render("❌ Not connected to API (is the server running?)"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderField("Quote", m.Quote, m.Active == FieldQuote))
	b.WriteString("\n")
	b.WriteString(m.renderField("Author", m.Author, m.Active == FieldAuthor))
	b.WriteString("\n\n")

	switch m.State {
	case StateChecking:
		b.WriteString(StatusStyle.Render("🔍 Checking for duplicates..."))
		b.WriteString("\n\n")
	case StateResult:
		b.WriteString(BoxStyle.Render(m.formatResult()))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press any key to check another quote"))
		b.WriteString("\n")
	case StateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press any key to try again"))
		b.WriteString("\n")
	default:
		b.WriteString(InfoStyle.Render(TextFooterEditing))
		b.WriteString("\n")
	}

	if m.Checks > 0 {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Checks run: %d", m.Checks)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderField(label, value string, active bool) string {
	style := InactiveFieldStyle
	if active {
		style = ActiveFieldStyle
		value += "▌"
	}
	return FieldLabelStyle.Render(label) + "\n" + style.Width(70).Render(value)
}

// formatResult renders the duplicate-check outcome box.
func (m Model) formatResult() string {
	var b strings.Builder

	if !m.Result.IsDuplicate {
		b.WriteString(HighlightStyle.Render("✅ No duplicates found"))
		b.WriteString("\n\nThis quote is safe to add.")
		return b.String()
	}

	b.WriteString(ErrorStyle.Render(fmt.Sprintf("🔄 %s", m.Result.Message)))
	b.WriteString("\n\n")

	for i, d := range m.Result.Duplicates {
		quote := d.Quote
		if len(quote) > 80 {
			quote = quote[:80] + "..."
		}
		b.WriteString(fmt.Sprintf("%d. \"%s\" - %s\n", i+1, quote, d.Author))
		b.WriteString(InfoStyle.Render(fmt.Sprintf("   reason: %s", d.MatchReason)))
		b.WriteString("\n")
	}

	if m.Result.DuplicateCount > len(m.Result.Duplicates) {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("\n...and %d more", m.Result.DuplicateCount-len(m.Result.Duplicates))))
	}

	return b.String()
}
