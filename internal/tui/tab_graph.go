package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/pipeline"
	"github.com/theirongolddev/zone5/internal/tui/components"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderGraphTab(cw int) string {
	t := theme.Active
	an := a.analysis
	if an == nil {
		return ""
	}

	g := an.Graph()

	// Two columns per week when there is room for the full year.
	cellW := 1
	if components.CardInnerWidth(cw) >= 4+2*len(g.Weeks) {
		cellW = 2
	}

	var b strings.Builder
	title := fmt.Sprintf("Zone 5 Contributions  %s to %s", g.Start, g.End)
	b.WriteString(components.ContentCard(title, components.Heatmap(g, cellW), cw))
	b.WriteString("\n")

	// Level key with the same thresholds the SVG uses.
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	levels := []struct {
		lvl   int
		label string
	}{
		{0, "no zone time"},
		{1, "1-7 min"},
		{2, "8-14 min"},
		{3, "15-22 min"},
		{4, "23+ min"},
	}
	counts := make([]int, len(levels))
	for _, week := range g.Weeks {
		for _, c := range week {
			if !c.Future {
				counts[pipeline.LevelFor(c.Minutes)]++
			}
		}
	}

	var key strings.Builder
	for i, l := range levels {
		swatch := lipgloss.NewStyle().Foreground(t.Heat[l.lvl]).Background(t.Surface).Render("■")
		key.WriteString(swatch + muted.Render(fmt.Sprintf(" %-14s", l.label)) +
			value.Render(fmt.Sprintf("%4s days", cli.FormatNumber(int64(counts[i])))))
		if i < len(levels)-1 {
			key.WriteString("\n")
		}
	}

	halves := components.LayoutRow(cw, 2)
	streaks := muted.Render("Current: ") + value.Render(pluralDays(an.Streaks.Current)) + "\n" +
		muted.Render("Longest: ") + value.Render(pluralDays(an.Streaks.Longest))
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Levels", key.String(), halves[0]),
		components.ContentCard("Streaks", streaks, halves[1]),
	}))

	return b.String()
}
