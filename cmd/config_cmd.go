// Package cmd implements the zone5 CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/zone5/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	fmt.Fprintf(w, "  Config file: %s\n", path)
	if flagConfig != "" || config.Exists() {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Zone]")
	zs, zerr := zoneConfig(cmd, cfg).Resolve()
	if zerr != nil {
		fmt.Fprintf(w, "    Invalid: %v\n", zerr)
	} else {
		fmt.Fprintf(w, "    Age:            %d (max HR %d)\n", zs.Age, zs.MaxHeartRate)
		fmt.Fprintf(w, "    Range:          %.0f-%.0f bpm\n", zs.Bounds.Low, zs.Bounds.High)
		fmt.Fprintf(w, "    Daily goal:     %d min\n", zs.DailyGoal)
		fmt.Fprintf(w, "    Time zone:      %s\n", zs.Location)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [GitHub]")
	if u := config.GetGitHubUsername(cfg); u != "" {
		fmt.Fprintf(w, "    Username: %s\n", u)
	} else {
		fmt.Fprintln(w, "    Username: not configured")
	}
	if tok := config.GetGitHubToken(cfg); tok != "" {
		fmt.Fprintf(w, "    Token:    %s\n", maskToken(tok))
	} else {
		fmt.Fprintln(w, "    Token:    not configured (60 requests/hour)")
	}
	if cfg.GitHub.BaseURL != "" {
		fmt.Fprintf(w, "    API:      %s\n", cfg.GitHub.BaseURL)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Output]")
	fmt.Fprintf(w, "    Artifact: %s (%s)\n", cfg.Output.Path, cfg.Output.Format)
	fmt.Fprintf(w, "    README:   %s\n", cfg.Readme.Path)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Daemon]")
	fmt.Fprintf(w, "    Listen:   %s\n", cfg.Daemon.Addr)
	fmt.Fprintf(w, "    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Appearance]")
	fmt.Fprintf(w, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Run `zone5 setup` to reconfigure.")
	return nil
}

func maskToken(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
