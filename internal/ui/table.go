package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders a result set grid. Styled output gets a rounded border
// and a colored header; plain output uses ASCII borders only.
func (u *UI) Table(columns []string, rows [][]string) string {
	t := table.New().
		Headers(columns...).
		Rows(rows...)

	if !u.shouldStyle() {
		cell := lipgloss.NewStyle().Padding(0, 1)
		return t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(row, col int) lipgloss.Style { return cell }).
			String()
	}

	return t.Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleMuted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTableHeader
			}
			return StyleTableCell
		}).
		String()
}

// NoRows renders the placeholder printed under an empty report.
func (u *UI) NoRows() string {
	return u.Muted("(no rows)")
}
