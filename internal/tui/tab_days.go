package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/tui/components"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// daysState tracks the Days tab list. The list is newest-first.
type daysState struct {
	cursor int
}

func (s *daysState) move(delta, n int) {
	s.cursor += delta
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// window returns the [start, end) rows to draw so the cursor stays visible.
func (s daysState) window(rows, n int) (start, end int) {
	if rows < 1 {
		rows = 1
	}
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	end = start + rows
	if end > n {
		end = n
	}
	return start, end
}

func (a App) renderDaysTab(cw, h int) string {
	t := theme.Active
	an := a.analysis
	if an == nil || len(an.Days) == 0 {
		return components.ContentCard("Days", "No heart-rate samples in the configured zone.", cw)
	}
	goal := an.Settings.DailyGoal

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	metStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	barW := innerW - 54
	if barW < 5 {
		barW = 5
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-10s  %-3s  %9s  %7s  %-11s  ", "Date", "Day", "Minutes", "Samples", "Window")))
	body.WriteString(headerStyle.Render("Goal"))
	body.WriteString("\n")

	// Newest first; rows fit the card minus border, title and header.
	days := an.Days
	n := len(days)
	ds := a.days
	start, end := ds.window(h-5, n)
	for i := start; i < end; i++ {
		d := days[n-1-i]
		weekday := ""
		if tm, err := d.Date.Time(an.Settings.Location); err == nil {
			weekday = cli.FormatDayOfWeek(int(tm.Weekday()))
		}
		window := "-"
		if d.Samples > 1 {
			window = d.First.In(an.Settings.Location).Format("15:04") + "-" + d.Last.In(an.Settings.Location).Format("15:04")
		}
		line := fmt.Sprintf("%-10s  %-3s  %9s  %7s  %-11s  ",
			d.Date, weekday, cli.FormatMinutes(d.Minutes), cli.FormatNumber(int64(d.Samples)), window)

		style := rowStyle
		if i == ds.cursor {
			style = selStyle
		}
		body.WriteString(style.Render(truncStr(line, innerW)))
		bar := int(components.GoalFraction(d.Minutes, goal) * float64(barW))
		marker := mutedStyle.Render(strings.Repeat("·", barW))
		if bar > 0 {
			marker = metStyle.Render(strings.Repeat("█", bar)) + mutedStyle.Render(strings.Repeat("·", barW-bar))
		}
		body.WriteString(marker)
		if d.Minutes >= goal {
			body.WriteString(metStyle.Render(" ✓"))
		}
		body.WriteString("\n")
	}

	title := fmt.Sprintf("Days (%d with zone time, %d at goal)", n, an.Summary.DaysMeetingGoal)
	return components.ContentCard(title, strings.TrimRight(body.String(), "\n"), cw)
}
