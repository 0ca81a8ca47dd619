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

func (a App) renderActivityTab(cw int) string {
	t := theme.Active
	an := a.analysis
	if an == nil {
		return ""
	}
	act := an.Activity

	var b strings.Builder

	cards := []components.Metric{
		{Label: "Steps", Value: cli.FormatNumber(act.Steps), Delta: fmt.Sprintf("last %dd", pipeline.ActivityWindowDays)},
		{Label: "Active energy", Value: cli.FormatNumber(act.ActiveEnergyKcal) + " kcal", Delta: fmt.Sprintf("≈ %d active hours", act.ActiveHours())},
		{Label: "Workouts", Value: cli.FormatNumber(int64(act.Workouts)), Delta: "since " + act.Since.In(an.Settings.Location).Format("Jan 2")},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var gh strings.Builder
	switch {
	case a.gh == nil && !a.ghConfigured:
		gh.WriteString(muted.Render("Not configured. Set [github] username in config or GITHUB_ACTOR."))
	case a.gh == nil:
		gh.WriteString(muted.Render(a.spinner.View() + " Fetching weekly activity..."))
	default:
		s := a.gh.Stats
		rows := []struct {
			label string
			n     int
		}{
			{"Commits", s.Commits},
			{"Pull requests", s.PullRequests},
			{"Issues", s.Issues},
			{"Reviews", s.Reviews},
		}
		for _, r := range rows {
			gh.WriteString(muted.Render(fmt.Sprintf("%-15s", r.label)))
			gh.WriteString(value.Render(cli.FormatNumber(int64(r.n))))
			gh.WriteString("\n")
		}
		if !a.gh.Available() {
			gh.WriteString(warn.Render("Unavailable: " + a.gh.Err.Error()))
		} else {
			gh.WriteString(muted.Render("Fetched " + a.gh.FetchedAt.Format("15:04")))
		}
	}
	b.WriteString(components.ContentCard("GitHub (7d)", strings.TrimRight(gh.String(), "\n"), cw))

	return b.String()
}
