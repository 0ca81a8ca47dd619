// Package report renders zone estimates as a data artifact, README
// substitutions and an SVG contribution graph.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/model"
)

// Artifact encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an artifact format other than json or yaml.
var ErrUnknownFormat = errors.New("report: unknown artifact format")

// Artifact is the published data file. Achievements are encoded in
// ascending date order by both encoders.
type Artifact struct {
	LastUpdate   string         `json:"lastUpdate" yaml:"lastUpdate"`
	Zone5Range   string         `json:"zone5Range" yaml:"zone5Range"`
	MaxHeartRate int            `json:"maxHeartRate" yaml:"maxHeartRate"`
	UserAge      int            `json:"userAge" yaml:"userAge"`
	DailyGoal    int            `json:"dailyGoal" yaml:"dailyGoal"`
	Statistics   Statistics     `json:"statistics" yaml:"statistics"`
	Streaks      StreakCounts   `json:"streaks" yaml:"streaks"`
	Achievements map[string]int `json:"achievements" yaml:"achievements"`
}

// Statistics mirrors model.Summary under the artifact's field names.
type Statistics struct {
	TotalDays      int     `json:"totalDays" yaml:"totalDays"`
	TotalMinutes   int     `json:"totalMinutes" yaml:"totalMinutes"`
	DaysWithGoal   int     `json:"daysWithGoal" yaml:"daysWithGoal"`
	AverageMinutes float64 `json:"averageMinutes" yaml:"averageMinutes"`
}

// StreakCounts mirrors model.Streaks.
type StreakCounts struct {
	Current int `json:"current" yaml:"current"`
	Longest int `json:"longest" yaml:"longest"`
}

// BuildArtifact assembles the artifact for one run.
func BuildArtifact(est model.DailyEstimate, sum model.Summary, st model.Streaks, zs config.ZoneSettings, now time.Time) Artifact {
	achievements := make(map[string]int, len(est))
	for day, minutes := range est {
		achievements[day.String()] = minutes
	}

	return Artifact{
		LastUpdate:   now.UTC().Format(time.RFC3339),
		Zone5Range:   zs.Bounds.String(),
		MaxHeartRate: zs.MaxHeartRate,
		UserAge:      zs.Age,
		DailyGoal:    zs.DailyGoal,
		Statistics: Statistics{
			TotalDays:      sum.TotalDays,
			TotalMinutes:   sum.TotalMinutes,
			DaysWithGoal:   sum.DaysMeetingGoal,
			AverageMinutes: sum.AverageMinutesPerDay,
		},
		Streaks:      StreakCounts{Current: st.Current, Longest: st.Longest},
		Achievements: achievements,
	}
}

// WriteArtifact encodes a as JSON (two-space indent) or YAML. An empty
// format means JSON.
func WriteArtifact(w io.Writer, a Artifact, format string) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteArtifactFile writes the artifact to path, replacing any existing file.
// The file is written next to its destination and renamed into place.
func WriteArtifactFile(path string, a Artifact, format string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".zone5-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := WriteArtifact(tmp, a, format); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // artifact is meant to be published
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// FormatFromPath guesses the encoding from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
