package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/report"

	"github.com/spf13/cobra"
)

var flagSVG string

var graphCmd = &cobra.Command{
	Use:   "graph <export.xml>",
	Short: "Contribution graph of the last year of zone 5 days",
	Long: "Draw a year of zone 5 days as a contribution graph in the terminal,\n" +
		"or write it as an SVG image with --svg.",
	Args: exportArg,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&flagSVG, "svg", "", "Write the graph as SVG to this path (\"-\" for stdout)")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	data, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	an := data.Analysis
	w := cmd.OutOrStdout()

	if flagSVG != "" {
		svg := report.RenderSVG(an.Estimate, an.Streaks, an.Today, an.Settings.DailyGoal)
		if flagSVG == "-" {
			_, err := fmt.Fprint(w, svg)
			return err
		}
		if err := os.WriteFile(flagSVG, []byte(svg), 0o644); err != nil { //nolint:gosec // public image
			return fmt.Errorf("writing %s: %w", flagSVG, err)
		}
		if !flagQuiet {
			fmt.Fprintf(stderr, "  Wrote %s\n", flagSVG)
		}
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("ZONE 5  Last year"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderHeatmap(an.Graph()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Current streak: %s   Longest: %s\n", pluralDays(an.Streaks.Current), pluralDays(an.Streaks.Longest))
	return nil
}
