package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/zone5/internal/tui"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagTUIRefresh time.Duration

var tuiCmd = &cobra.Command{
	Use:   "tui <export.xml>",
	Short: "Launch interactive TUI dashboard",
	Args:  exportArg,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&flagTUIRefresh, "refresh", 0, "Re-read the export at this interval (default from config, 0 disables)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	refresh := flagTUIRefresh
	if !cmd.Flags().Changed("refresh") {
		refresh = time.Duration(cfg.Daemon.IntervalSec) * time.Second
	}

	app := tui.NewApp(tui.Options{
		ExportPath:      args[0],
		Zone:            zoneConfig(cmd, cfg),
		UseCache:        !flagNoCache,
		RefreshInterval: refresh,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
