package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	// A broken file is replaced, not fatal.
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "  Ignoring unreadable config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := vals.Apply(&cfg); err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.Path()
		err = config.Save(cfg)
	} else {
		err = config.SaveTo(path, cfg)
	}
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Saved to %s\n", path)
	fmt.Fprintln(w, "  Run `zone5 setup` anytime to reconfigure.")
	fmt.Fprintln(w)
	return nil
}
