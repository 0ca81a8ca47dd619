package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the first-run form fields as the user typed them.
type SetupValues struct {
	Age            string
	Goal           string
	Timezone       string
	GitHubUsername string
	ReadmePath     string
	Theme          string
}

// SetupValuesFrom seeds the form from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	age := cfg.Zone.Age
	if age <= 0 {
		age = config.DefaultAge
	}
	goal := cfg.Zone.DailyGoalMinutes
	if goal <= 0 {
		goal = config.DefaultDailyGoal
	}
	return SetupValues{
		Age:            strconv.Itoa(age),
		Goal:           strconv.Itoa(goal),
		Timezone:       cfg.Zone.Timezone,
		GitHubUsername: cfg.GitHub.Username,
		ReadmePath:     cfg.Readme.Path,
		Theme:          theme.ByName(cfg.Appearance.Theme).Name,
	}
}

// Apply validates v and writes it into cfg. cfg is left untouched on error.
func (v SetupValues) Apply(cfg *config.Config) error {
	age, err := strconv.Atoi(strings.TrimSpace(v.Age))
	if err != nil {
		return fmt.Errorf("age: %w", err)
	}
	goal, err := strconv.Atoi(strings.TrimSpace(v.Goal))
	if err != nil {
		return fmt.Errorf("daily goal: %w", err)
	}
	// Zero means "default" in the config file; the form requires a value.
	if age < 1 || goal < 1 {
		return fmt.Errorf("%w: age and daily goal must be positive", config.ErrInvalidZone)
	}

	zone := cfg.Zone
	zone.Age = age
	zone.DailyGoalMinutes = goal
	zone.Timezone = strings.TrimSpace(v.Timezone)
	if _, err := zone.Resolve(); err != nil {
		return err
	}

	cfg.Zone = zone
	cfg.GitHub.Username = strings.TrimSpace(v.GitHubUsername)
	if p := strings.TrimSpace(v.ReadmePath); p != "" {
		cfg.Readme.Path = p
	}
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	return nil
}

// NewSetupForm builds the first-run form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to zone5").
				Description("A few settings and you're ready.\nRun `zone5 setup` anytime to change them."),
			huh.NewInput().
				Title("Age").
				Description("Max heart rate is estimated as 220 - age; zone 5 starts at 90% of it.").
				Value(&vals.Age).
				Validate(intInRange(1, 219)),
			huh.NewInput().
				Title("Daily goal (minutes)").
				Value(&vals.Goal).
				Validate(intInRange(1, 24*60)),
			huh.NewInput().
				Title("Time zone").
				Description("IANA name such as Europe/Berlin. Leave empty to use the system zone.").
				Value(&vals.Timezone).
				Validate(validTimezone),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub username").
				Description("Used for weekly commit and PR counts. Optional.").
				Value(&vals.GitHubUsername),
			huh.NewInput().
				Title("README path").
				Description("File whose activity labels `zone5 readme` updates.").
				Value(&vals.ReadmePath),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

func intInRange(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func validTimezone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown time zone %q", s)
	}
	return nil
}
