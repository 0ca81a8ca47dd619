package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders an indeterminate-friendly bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForGoal returns red/orange/yellow/green as minutes approach the goal.
func ColorForGoal(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 1:
		return string(t.Green)
	case pct >= 0.5:
		return string(t.Yellow)
	case pct > 0:
		return string(t.Orange)
	default:
		return string(t.Red)
	}
}

// GoalFraction returns minutes/goal clamped to [0, 1].
func GoalFraction(minutes, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	pct := float64(minutes) / float64(goal)
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// GoalBar renders a labeled bar of today's minutes toward the daily goal.
func GoalBar(label string, minutes, goal, labelW, barWidth int) string {
	t := theme.Active

	pct := GoalFraction(minutes, goal)
	color := ColorForGoal(float64(minutes) / float64(max(goal, 1)))

	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		valueStyle.Render(fmt.Sprintf("%d/%d min", minutes, goal))
}
