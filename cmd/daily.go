package cmd

import (
	"fmt"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/model"

	"github.com/spf13/cobra"
)

var flagDays int

var dailyCmd = &cobra.Command{
	Use:   "daily <export.xml>",
	Short: "Per-day zone 5 minutes table",
	Args:  exportArg,
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().IntVarP(&flagDays, "days", "n", 30, "Show the most recent N days with zone time (0 = all)")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, args []string) error {
	data, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	an := data.Analysis

	days := lastDays(an.Days, flagDays)
	if len(days) == 0 {
		fmt.Fprintln(w, "\n  No zone 5 time found in this export.")
		return nil
	}

	title := "ZONE 5 DAILY  All days"
	if flagDays > 0 {
		title = fmt.Sprintf("ZONE 5 DAILY  Last %d active days", len(days))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(title))
	fmt.Fprintln(w)

	goal := an.Settings.DailyGoal
	rows := make([][]string, 0, len(days))
	// Newest first.
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		weekday := ""
		if t, err := d.Date.Time(an.Settings.Location); err == nil {
			weekday = cli.FormatDayOfWeek(int(t.Weekday()))
		}
		rows = append(rows, []string{
			d.Date.String(),
			weekday,
			cli.FormatMinutes(d.Minutes),
			cli.FormatNumber(int64(d.Samples)),
			cli.RenderGoalMarker(d.Minutes, goal),
		})
	}

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Minutes", "Samples", "Goal"},
		Rows:    rows,
	}))
	return nil
}

// lastDays returns the trailing n entries of days (all of them when n <= 0).
func lastDays(days []model.ZoneDay, n int) []model.ZoneDay {
	if n <= 0 || n >= len(days) {
		return days
	}
	return days[len(days)-n:]
}
