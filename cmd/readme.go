package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/github"
	"github.com/theirongolddev/zone5/internal/report"

	"github.com/spf13/cobra"
)

// githubTimeout bounds the whole weekly fetch.
const githubTimeout = 30 * time.Second

var (
	flagReadmePath string
	flagNoGitHub   bool
)

var readmeCmd = &cobra.Command{
	Use:   "readme <export.xml>",
	Short: "Update activity labels in a README",
	Long: "Replace the **Commits**, **Pull Requests**, **Issues Closed**, **Code Reviews**,\n" +
		"**Steps**, **Active Hours** and **Workout Sessions** values and the {{ date }}\n" +
		"token in a README. Everything else in the file is left untouched.",
	Args: exportArg,
	RunE: runReadme,
}

func init() {
	readmeCmd.Flags().StringVar(&flagReadmePath, "readme", "", "README to update (default from config, README.md)")
	readmeCmd.Flags().BoolVar(&flagNoGitHub, "no-github", false, "Skip the GitHub activity fetch and write zero counts")
	rootCmd.AddCommand(readmeCmd)
}

func runReadme(cmd *cobra.Command, args []string) error {
	data, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	path := flagReadmePath
	if path == "" {
		path = data.Config.Readme.Path
	}
	return updateReadme(cmd, path, data, flagNoGitHub)
}

// updateReadme fetches weekly GitHub stats (fail-soft) and rewrites the
// labelled values in path.
func updateReadme(cmd *cobra.Command, path string, data *runData, skipGitHub bool) error {
	var stats github.WeeklyStats
	if !skipGitHub {
		res := fetchGitHub(cmd.Context(), data.Config)
		if !res.Available() {
			if !flagQuiet {
				fmt.Fprintf(stderr, "  GitHub stats unavailable (%v), using zero counts\n", res.Err)
			}
		}
		stats = res.Stats
	}

	res, err := report.UpdateReadmeFile(path, report.ReadmeValues{
		GitHub:   stats,
		Activity: data.Analysis.Activity,
		Now:      now(),
	})
	if err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}

	if !flagQuiet {
		fmt.Fprintf(stderr, "  Updated %s: %d labels replaced\n", path, res.Replaced)
		if len(res.Missing) > 0 {
			fmt.Fprintf(stderr, "  Not found: %s\n", strings.Join(res.Missing, ", "))
		}
	}
	return nil
}

// fetchGitHub returns the weekly counts, or a fallback result carrying the
// reason when no username is configured or the API call fails.
func fetchGitHub(parent context.Context, cfg config.Config) github.WeeklyResult {
	client := github.NewClient(config.GetGitHubUsername(cfg), config.GetGitHubToken(cfg))
	if client == nil {
		return github.WeeklyResult{FetchedAt: now(), Err: github.ErrNoUsername}
	}
	if cfg.GitHub.BaseURL != "" {
		client = client.WithBaseURL(cfg.GitHub.BaseURL)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, githubTimeout)
	defer cancel()
	return client.FetchWeeklyStats(ctx, now())
}
