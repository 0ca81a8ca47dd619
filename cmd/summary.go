package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/pipeline"

	"github.com/spf13/cobra"
)

// sparkDays is the length of the trailing minutes sparkline.
const sparkDays = 30

var summaryCmd = &cobra.Command{
	Use:   "summary <export.xml>",
	Short: "Zone 5 totals, streaks and today's goal progress",
	Args:  exportArg,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	data, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	an := data.Analysis
	sum := an.Summary
	zs := an.Settings

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("ZONE 5  %.0f-%.0f bpm, goal %d min", zs.Bounds.Low, zs.Bounds.High, zs.DailyGoal)))
	fmt.Fprintln(w)

	if sum.TotalDays == 0 {
		fmt.Fprintln(w, "  No heart-rate samples fell inside the zone.")
		fmt.Fprintf(w, "  %s heart-rate samples were read.\n", cli.FormatNumber(int64(len(data.Load.Extract.HeartRate))))
		return nil
	}

	goalRate := float64(sum.DaysMeetingGoal) / float64(sum.TotalDays)

	rows := [][]string{
		{"Today", cli.FormatGoal(an.TodayMinutes(), zs.DailyGoal) + " min"},
		{"Current streak", pluralDays(an.Streaks.Current)},
		{"Longest streak", pluralDays(an.Streaks.Longest)},
		{"---"},
		{"Days in zone", cli.FormatNumber(int64(sum.TotalDays))},
		{"Total time", cli.FormatMinutes(sum.TotalMinutes)},
		{"Average/day", fmt.Sprintf("%.1f min", sum.AverageMinutesPerDay)},
		{"Days at goal", fmt.Sprintf("%d (%s)", sum.DaysMeetingGoal, cli.FormatPercent(goalRate))},
		{"---"},
		{"Heart-rate samples", cli.FormatNumber(int64(len(data.Load.Extract.HeartRate)))},
		{"Max heart rate", fmt.Sprintf("%d bpm", zs.MaxHeartRate)},
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Today    %s\n", cli.RenderProgressBar(an.TodayMinutes(), zs.DailyGoal, 30))
	fmt.Fprintf(w, "  %dd      %s\n", sparkDays, cli.RenderSparkline(trailingMinutes(an, sparkDays)))

	fmt.Fprintln(w)
	weekdays := weekdayMinutes(an.Days, zs.Location)
	maxMin := 0.0
	for _, m := range weekdays {
		maxMin = max(maxMin, float64(m))
	}
	for wd, m := range weekdays {
		fmt.Fprintln(w, cli.RenderHorizontalBar(cli.FormatDayOfWeek(wd), float64(m), maxMin, 40))
	}

	if pe := data.Load.Extract.ParseErrors; pe > 0 {
		fmt.Fprintf(stderr, "\n  %d malformed records were skipped\n", pe)
	}
	return nil
}

// trailingMinutes returns the estimate for each of the n days ending today,
// oldest first, with zeros for days without zone time.
func trailingMinutes(an *pipeline.Analysis, n int) []float64 {
	today, err := an.Today.Time(an.Settings.Location)
	if err != nil {
		return nil
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		day := model.DayKeyOf(today.AddDate(0, 0, i-n+1), an.Settings.Location)
		out[i] = float64(an.Estimate[day])
	}
	return out
}

// weekdayMinutes totals minutes by weekday, Sunday first.
func weekdayMinutes(days []model.ZoneDay, loc *time.Location) [7]int {
	var out [7]int
	for _, d := range days {
		t, err := d.Date.Time(loc)
		if err != nil {
			continue
		}
		out[t.Weekday()] += d.Minutes
	}
	return out
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
