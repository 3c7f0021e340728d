package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressLine renders a one-shot completion bar such as
// "Reports  ████████░░ 8/10". Plain output drops the bar.
func (u *UI) ProgressLine(label string, done, total int) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("%-10s %d/%d", label+":", done, total)
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	if pct > 1 {
		pct = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(12)
	countStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	if done < total {
		countStyle = StyleWarning
	}

	return fmt.Sprintf("  %s %s %s",
		labelStyle.Render(label),
		bar.ViewAs(pct),
		countStyle.Render(fmt.Sprintf("%d/%d", done, total)),
	)
}
