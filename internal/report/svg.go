package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/pipeline"
)

// Contribution graph palette, indexed by level.
var levelColors = [...]string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"}

const (
	svgBackground = "#0d1117"
	svgBorder     = "#30363d"
	svgText       = "#e6edf3"

	cellSize = 12
	cellGap  = 3
	cellStep = cellSize + cellGap
)

// LevelColor returns the fill color for a contribution level.
func LevelColor(level int) string {
	if level < 0 || level >= len(levelColors) {
		return levelColors[0]
	}
	return levelColors[level]
}

// RenderSVG draws the year of estimates ending today as a contribution graph.
func RenderSVG(est model.DailyEstimate, st model.Streaks, today model.DayKey, goal int) string {
	g := pipeline.BuildGraph(est, today)
	sum := pipeline.Summarize(est, goal)

	graphWidth := len(g.Weeks) * cellStep
	graphHeight := 7*cellStep + 60
	totalWidth := graphWidth + 100
	totalHeight := graphHeight + 40

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
  <style>
    .bg { fill: %s; }
    .text { fill: %s; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; font-size: 12px; }
    .title { font-size: 14px; font-weight: 600; }
    .stat { font-size: 11px; }
    .cell { stroke: %s; stroke-width: 1; }
  </style>
  <rect class="bg" width="%d" height="%d" rx="6"/>
  <text class="text title" x="20" y="25">Zone 5 Training - Last 12 Months</text>
  <text class="text stat" x="20" y="45">%d day streak (longest %d)  •  %d total minutes  •  %d days goal met (%d+ min)</text>
  <g transform="translate(20, 60)">
`,
		totalWidth, totalHeight, svgBackground, svgText, svgBorder,
		totalWidth, totalHeight,
		st.Current, st.Longest, sum.TotalMinutes, sum.DaysMeetingGoal, goal,
	)

	lastMonth := time.Month(0)
	for i, week := range g.Weeks {
		t, err := week[0].Date.Time(time.UTC)
		if err != nil {
			continue
		}
		if t.Month() != lastMonth {
			if i > 0 {
				fmt.Fprintf(&b, "    <text class=\"text stat\" x=\"%d\" y=\"-5\">%s</text>\n", i*cellStep, t.Month().String()[:3])
			}
			lastMonth = t.Month()
		}
	}

	for i, week := range g.Weeks {
		for j, cell := range week {
			fill := LevelColor(cell.Level)
			label := fmt.Sprintf("%s: %d minutes in zone", cell.Date, cell.Minutes)
			if cell.Future {
				fill = svgBackground
				label = "No data"
			}
			fmt.Fprintf(&b, "    <rect class=\"cell\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" rx=\"2\" fill=\"%s\"><title>%s</title></rect>\n",
				i*cellStep, j*cellStep, cellSize, cellSize, fill, html.EscapeString(label))
		}
	}

	fmt.Fprintf(&b, "  </g>\n  <g transform=\"translate(20, %d)\">\n", graphHeight+20)
	b.WriteString("    <text class=\"text stat\" x=\"0\" y=\"0\">Less</text>\n")
	for lvl := range levelColors {
		fmt.Fprintf(&b, "    <rect class=\"cell\" x=\"%d\" y=\"-10\" width=\"10\" height=\"10\" rx=\"2\" fill=\"%s\"/>\n", 35+lvl*15, levelColors[lvl])
	}
	b.WriteString("    <text class=\"text stat\" x=\"110\" y=\"0\">More</text>\n  </g>\n</svg>\n")

	return b.String()
}
