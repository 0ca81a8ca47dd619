package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/tui/components"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// overviewDays is how many trailing days the overview chart shows.
const overviewDays = 30

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	an := a.analysis
	if an == nil {
		return ""
	}
	sum := an.Summary
	goal := an.Settings.DailyGoal

	var b strings.Builder

	// Row 1: metric cards
	goalRate := 0.0
	if sum.TotalDays > 0 {
		goalRate = float64(sum.DaysMeetingGoal) / float64(sum.TotalDays)
	}
	cards := []components.Metric{
		{Label: "Today", Value: cli.FormatMinutes(an.TodayMinutes()), Delta: "goal " + cli.FormatMinutes(goal)},
		{Label: "Current streak", Value: pluralDays(an.Streaks.Current), Delta: "longest " + pluralDays(an.Streaks.Longest)},
		{Label: "Total", Value: cli.FormatMinutes(sum.TotalMinutes), Delta: fmt.Sprintf("%.1f min/day avg", sum.AverageMinutesPerDay)},
		{Label: "Goal days", Value: cli.FormatNumber(int64(sum.DaysMeetingGoal)), Delta: cli.FormatPercent(goalRate) + " of active days"},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: today's progress toward the goal
	innerW := components.CardInnerWidth(cw)
	barW := innerW - 22
	if barW < 10 {
		barW = 10
	}
	goalBody := components.GoalBar("Today", an.TodayMinutes(), goal, 6, barW)
	if an.TodayMinutes() >= goal {
		goalBody += "\n" + lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Render("Goal met today")
	}
	b.WriteString(components.ContentCard("Daily Goal", goalBody, cw))
	b.WriteString("\n")

	// Row 3: last 30 days
	values, labels := trailingDays(an.Estimate, an.Today, overviewDays)
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Zone 5 Minutes (%dd)", overviewDays),
		components.GoalChart(values, labels, goal, innerW, chartH),
		cw,
	))
	b.WriteString("\n")

	// Row 4: parse diagnostics
	if a.load != nil && a.load.Extract != nil {
		ex := a.load.Extract
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

		var body strings.Builder
		body.WriteString(muted.Render("Records read:  ") + value.Render(cli.FormatNumber(int64(ex.Records))) + "\n")
		body.WriteString(muted.Render("Heart rate:    ") + value.Render(cli.FormatNumber(int64(len(ex.HeartRate)))) + "\n")
		body.WriteString(muted.Render("Zone range:    ") + value.Render(an.Settings.Bounds.String()) + "\n")
		dropped := muted.Render("Dropped:       ") + value.Render("0")
		if ex.ParseErrors > 0 {
			dropped = muted.Render("Dropped:       ") + warn.Render(cli.FormatNumber(int64(ex.ParseErrors)))
		}
		body.WriteString(dropped)
		b.WriteString(components.ContentCard("Export", body.String(), cw))
	}

	return b.String()
}

// trailingDays returns n daily values ending today plus sparse axis labels
// marking the first column and each month start.
func trailingDays(est model.DailyEstimate, today model.DayKey, n int) ([]int, []string) {
	end, err := today.Time(time.UTC)
	if err != nil {
		return nil, nil
	}
	values := make([]int, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		d := end.AddDate(0, 0, i-n+1)
		values[i] = est[model.DayKeyOf(d, time.UTC)]
		switch {
		case i == 0, d.Day() == 1:
			labels[i] = d.Format("Jan 2")
		case i == n-1:
			labels[i] = "today"
		}
	}
	return values, labels
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
