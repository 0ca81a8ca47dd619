package components

import (
	"strings"
	"time"

	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Heatmap renders a contribution graph as seven weekday rows.
// cellW is 1 or 2 columns per week; anything else is treated as 2.
func Heatmap(g model.Graph, cellW int) string {
	if len(g.Weeks) == 0 {
		return ""
	}
	t := theme.Active
	if cellW != 1 {
		cellW = 2
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	glyph := "■" + strings.Repeat(" ", cellW-1)

	var b strings.Builder

	// Month header: label the first week whose Sunday starts a new month.
	header := []rune(strings.Repeat(" ", len(g.Weeks)*cellW))
	lastMonth := time.Month(0)
	lastEnd := -1
	for wi, week := range g.Weeks {
		if len(week) == 0 {
			continue
		}
		d, err := week[0].Date.Time(time.UTC)
		if err != nil || d.Month() == lastMonth {
			continue
		}
		lastMonth = d.Month()
		pos := wi * cellW
		name := []rune(d.Format("Jan"))
		if pos <= lastEnd || pos+len(name) > len(header) {
			continue
		}
		copy(header[pos:], name)
		lastEnd = pos + len(name)
	}
	b.WriteString(bg.Render("    "))
	b.WriteString(muted.Render(string(header)))
	b.WriteString("\n")

	dayLabels := [7]string{"", "Mon", "", "Wed", "", "Fri", ""}
	for dow := 0; dow < 7; dow++ {
		b.WriteString(muted.Render(padRight(dayLabels[dow], 4)))
		for _, week := range g.Weeks {
			if dow >= len(week) || week[dow].Future {
				b.WriteString(bg.Render(strings.Repeat(" ", cellW)))
				continue
			}
			lvl := week[dow].Level
			if lvl < 0 || lvl >= len(t.Heat) {
				lvl = 0
			}
			b.WriteString(lipgloss.NewStyle().Foreground(t.Heat[lvl]).Background(t.Surface).Render(glyph))
		}
		b.WriteString("\n")
	}

	b.WriteString(bg.Render("    "))
	b.WriteString(muted.Render("Less "))
	for _, c := range t.Heat {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Background(t.Surface).Render("■ "))
	}
	b.WriteString(muted.Render("More"))

	return b.String()
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
