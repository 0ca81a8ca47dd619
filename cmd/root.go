package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/pipeline"
	"github.com/theirongolddev/zone5/internal/report"
	"github.com/theirongolddev/zone5/internal/source"
	"github.com/theirongolddev/zone5/internal/store"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitError     = 1
	exitNotFound  = 2
	exitMalformed = 3
)

var (
	flagConfig   string
	flagAge      int
	flagZoneLow  float64
	flagZoneHigh float64
	flagGoal     int
	flagTZ       string
	flagNoCache  bool
	flagQuiet    bool

	flagOutput string
	flagFormat string
	flagReadme string
)

// stderr receives progress and warnings; tests swap it out.
var stderr io.Writer = os.Stderr

// now is the run's reference clock.
var now = time.Now

var rootCmd = &cobra.Command{
	Use:   "zone5 <export.xml>",
	Short: "Zone 5 heart-rate minutes from an Apple Health export",
	Long: "Read an Apple Health export, estimate the minutes spent in heart-rate zone 5\n" +
		"on each day, and write the result as a JSON or YAML data file.",
	Args:          exportArg,
	RunE:          runRoot,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// usageError marks argument errors that should be followed by usage text.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// exportArg requires exactly one positional argument: the export path.
func exportArg(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 1:
		return nil
	case 0:
		return usageError{"missing path to export.xml"}
	default:
		return usageError{fmt.Sprintf("expected one export path, got %d arguments", len(args))}
	}
}

// Execute is the main entry point called from main.go.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command tree and maps the outcome to an exit code.
func run(args []string) int {
	// cobra reads os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	c, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "Error: %s\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprint(stderr, c.UsageString())
	}
	return exitCode(err)
}

// exitCode maps whole-input failures to their exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, source.ErrSourceNotFound):
		return exitNotFound
	case errors.Is(err, source.ErrSourceMalformed):
		return exitMalformed
	default:
		return exitError
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/zone5/config.toml)")
	pf.IntVar(&flagAge, "age", 0, "Age used to derive max heart rate (220 - age)")
	pf.Float64Var(&flagZoneLow, "zone-low", 0, "Zone lower bound in bpm (default 90% of max)")
	pf.Float64Var(&flagZoneHigh, "zone-high", 0, "Zone upper bound in bpm (default max)")
	pf.IntVar(&flagGoal, "goal", 0, "Daily goal in minutes")
	pf.StringVar(&flagTZ, "tz", "", "IANA time zone for calendar days (default local)")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the extraction cache, reparse the export")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")

	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Artifact path (default from config, zone5-data.json)")
	rootCmd.Flags().StringVar(&flagFormat, "format", "", "Artifact format: json or yaml (default from extension)")
	rootCmd.Flags().StringVar(&flagReadme, "readme", "", "Also update activity labels in this README")
}

// loadConfig reads the config file named by --config, or the default one.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

// zoneConfig applies explicitly set flags on top of the config file.
func zoneConfig(cmd *cobra.Command, cfg config.Config) config.ZoneConfig {
	z := cfg.Zone
	flags := cmd.Flags()
	if flags.Changed("age") {
		z.Age = flagAge
	}
	if flags.Changed("zone-low") {
		z.LowBPM = flagZoneLow
	}
	if flags.Changed("zone-high") {
		z.HighBPM = flagZoneHigh
	}
	if flags.Changed("goal") {
		z.DailyGoalMinutes = flagGoal
	}
	if flags.Changed("tz") {
		z.Timezone = flagTZ
	}
	return z
}

// runData is everything a command needs after the shared load path.
type runData struct {
	Config   config.Config
	Load     *pipeline.LoadResult
	CacheHit bool
	Analysis *pipeline.Analysis
}

// loadData is the shared data loading path used by all commands.
// Uses the SQLite extraction cache unless --no-cache is set.
func loadData(cmd *cobra.Command, exportPath string) (*runData, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	zs, err := zoneConfig(cmd, cfg).Resolve()
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(stderr, "  Reading %s...\n", exportPath)
	}

	progressFn := func(records int) {
		if !flagQuiet {
			fmt.Fprintf(stderr, "\r  Parsing [%s records]", cli.FormatNumber(int64(records)))
		}
	}

	lr, hit, err := loadExtract(exportPath, progressFn)
	if err != nil {
		return nil, err
	}

	ex := lr.Extract
	if !flagQuiet {
		how := "Parsed"
		if hit {
			how = "Loaded from cache:"
		}
		fmt.Fprintf(stderr, "\r  %s %s heart-rate samples in %s    \n",
			how,
			cli.FormatNumber(int64(len(ex.HeartRate))),
			lr.Duration.Round(time.Millisecond),
		)
		if ex.ParseErrors > 0 {
			fmt.Fprintf(stderr, "  %s malformed records skipped\n", cli.FormatNumber(int64(ex.ParseErrors)))
		}
	}

	return &runData{
		Config:   cfg,
		Load:     lr,
		CacheHit: hit,
		Analysis: pipeline.Analyze(ex, zs, now()),
	}, nil
}

// loadExtract tries the cache first and falls back to a full parse when the
// cache cannot be opened or read. Source errors are never retried.
func loadExtract(path string, progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, bool, error) {
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(path, cache, progressFn)
			if err == nil {
				return &cr.LoadResult, cr.CacheHit, nil
			}
			if errors.Is(err, source.ErrSourceNotFound) || errors.Is(err, source.ErrSourceMalformed) {
				return nil, false, err
			}
			if !flagQuiet {
				fmt.Fprintf(stderr, "\n  Cache error, falling back to full parse\n")
			}
		}
	}

	lr, err := pipeline.Load(path, progressFn)
	if err != nil {
		return nil, false, err
	}
	return lr, false, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	data, err := loadData(cmd, args[0])
	if err != nil {
		return err
	}
	an := data.Analysis

	out := flagOutput
	if out == "" {
		out = data.Config.Output.Path
	}
	format := flagFormat
	if format == "" && !cmd.Flags().Changed("output") {
		format = data.Config.Output.Format
	}
	if format == "" {
		format = report.FormatFromPath(out)
	}

	artifact := report.BuildArtifact(an.Estimate, an.Summary, an.Streaks, an.Settings, now())
	if out == "-" {
		if err := report.WriteArtifact(cmd.OutOrStdout(), artifact, format); err != nil {
			return err
		}
	} else if err := report.WriteArtifactFile(out, artifact, format); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	if flagReadme != "" {
		if err := updateReadme(cmd, flagReadme, data, false); err != nil {
			return err
		}
	}

	if !flagQuiet && out != "-" {
		sum := an.Summary
		fmt.Fprintf(stderr, "  Wrote %s: %d days, %s total, %d at goal, streak %d\n",
			out, sum.TotalDays, cli.FormatMinutes(sum.TotalMinutes), sum.DaysMeetingGoal, an.Streaks.Current)
	}
	return nil
}
