package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []int, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := v * (len(sparkBlocks) - 1) / peak
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(sparkBlocks[idx])
	}

	return style.Render(buf.String())
}

// GoalChart renders a vertical bar chart of daily minutes with a dashed goal
// line. Bars at or above the goal use the green accent.
func GoalChart(values []int, labels []string, goal, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		return Sparkline(values, t.Accent)
	}

	ceiling := goal
	for _, v := range values {
		if v > ceiling {
			ceiling = v
		}
	}
	if ceiling <= 0 {
		ceiling = 1
	}

	yLabelW := len(fmt.Sprint(ceiling)) + 1
	chartW := width - yLabelW - 1

	n := len(values)
	if n > chartW {
		values = values[n-chartW:]
		if len(labels) == n {
			labels = labels[n-chartW:]
		}
		n = chartW
	}
	barW := 1
	if n > 0 && chartW/n >= 2 {
		barW = chartW/n - 1
		if barW > 4 {
			barW = 4
		}
	}
	gap := 0
	if barW > 1 || chartW/n >= 2 {
		gap = 1
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bg := lipgloss.NewStyle().Background(t.Surface)
	metStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	underStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	goalStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	// goalRow is the chart row the goal falls in, 1-based from the bottom.
	goalRow := 0
	if goal > 0 {
		goalRow = (goal*height + ceiling - 1) / ceiling
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		switch row {
		case height:
			label = fmt.Sprint(ceiling)
		case goalRow:
			label = fmt.Sprint(goal)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				if row == goalRow {
					b.WriteString(goalStyle.Render(strings.Repeat("╌", gap)))
				} else {
					b.WriteString(bg.Render(strings.Repeat(" ", gap)))
				}
			}
			barRows := (v*height + ceiling - 1) / ceiling
			style := underStyle
			if goal > 0 && v >= goal {
				style = metStyle
			}
			switch {
			case v > 0 && barRows >= row:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case row == goalRow:
				b.WriteString(goalStyle.Render(strings.Repeat("╌", barW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + max(0, n-1)*gap
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n && n > 0 {
		buf := []rune(strings.Repeat(" ", axisLen))
		lastEnd := -1
		for i, lbl := range labels {
			if lbl == "" {
				continue
			}
			pos := i * (barW + gap)
			end := pos + len([]rune(lbl))
			if pos <= lastEnd || end > axisLen {
				continue
			}
			copy(buf[pos:end], []rune(lbl))
			lastEnd = end
		}
		b.WriteString("\n")
		b.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))
	}

	return b.String()
}
