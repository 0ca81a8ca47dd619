package cmd

import (
	"fmt"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagActivityGitHub bool

var activityCmd = &cobra.Command{
	Use:   "activity <export.xml>",
	Short: "Steps, energy and workouts for the last week",
	Args:  exportArg,
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().BoolVar(&flagActivityGitHub, "github", false, "Also fetch weekly GitHub counts")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	data, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	act := data.Analysis.Activity

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("ACTIVITY  Last %d days", pipeline.ActivityWindowDays)))
	fmt.Fprintln(w)

	rows := [][]string{
		{"Steps", cli.FormatNumber(act.Steps)},
		{"Active energy", cli.FormatNumber(act.ActiveEnergyKcal) + " kcal"},
		{"Active hours", cli.FormatNumber(act.ActiveHours())},
		{"Workouts", cli.FormatNumber(int64(act.Workouts))},
	}

	if flagActivityGitHub {
		res := fetchGitHub(cmd.Context(), data.Config)
		rows = append(rows, []string{"---"})
		if res.Available() {
			rows = append(rows,
				[]string{"Commits", cli.FormatNumber(int64(res.Stats.Commits))},
				[]string{"Pull requests", cli.FormatNumber(int64(res.Stats.PullRequests))},
				[]string{"Issues closed", cli.FormatNumber(int64(res.Stats.Issues))},
				[]string{"Code reviews", cli.FormatNumber(int64(res.Stats.Reviews))},
			)
		} else {
			rows = append(rows, []string{"GitHub", fmt.Sprintf("unavailable (%v)", res.Err)})
		}
	}

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}
