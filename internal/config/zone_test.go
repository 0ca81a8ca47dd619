package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolve_DerivesBoundsFromAge(t *testing.T) {
	s, err := ZoneConfig{Age: 30}.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.MaxHeartRate != 190 {
		t.Errorf("MaxHeartRate = %d, want 190", s.MaxHeartRate)
	}
	if s.Bounds.Low != 171 || s.Bounds.High != 190 {
		t.Errorf("Bounds = %+v, want 171-190", s.Bounds)
	}
	if s.DailyGoal != DefaultDailyGoal {
		t.Errorf("DailyGoal = %d, want %d", s.DailyGoal, DefaultDailyGoal)
	}
	if got := s.Bounds.String(); got != "171-190 bpm" {
		t.Errorf("Bounds.String() = %q, want %q", got, "171-190 bpm")
	}
}

func TestResolve_ExplicitBoundsWin(t *testing.T) {
	s, err := ZoneConfig{Age: 40, LowBPM: 150, HighBPM: 165, DailyGoalMinutes: 20, Timezone: "UTC"}.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Bounds != (ZoneBounds{Low: 150, High: 165}) {
		t.Errorf("Bounds = %+v", s.Bounds)
	}
	if s.MaxHeartRate != 180 {
		t.Errorf("MaxHeartRate = %d, want 180", s.MaxHeartRate)
	}
	if s.Location.String() != "UTC" {
		t.Errorf("Location = %s, want UTC", s.Location)
	}
}

func TestResolve_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  ZoneConfig
	}{
		{"low above high", ZoneConfig{LowBPM: 180, HighBPM: 170}},
		{"negative low", ZoneConfig{LowBPM: -5, HighBPM: 170}},
		{"negative goal", ZoneConfig{DailyGoalMinutes: -1}},
		{"unknown zone", ZoneConfig{Timezone: "Mars/Olympus_Mons"}},
		{"absurd age", ZoneConfig{Age: 250}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Resolve()
			if !errors.Is(err, ErrInvalidZone) {
				t.Fatalf("err = %v, want ErrInvalidZone", err)
			}
		})
	}
}

func TestZoneBounds_ContainsIsClosed(t *testing.T) {
	b := ZoneBounds{Low: 171, High: 190}
	for _, v := range []float64{171, 180, 190} {
		if !b.Contains(v) {
			t.Errorf("Contains(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{170.9, 190.1, 0} {
		if b.Contains(v) {
			t.Errorf("Contains(%v) = true, want false", v)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone5", "config.toml")

	cfg := DefaultConfig()
	cfg.Zone.Age = 42
	cfg.GitHub.Username = "octocat"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Zone.Age != 42 || got.GitHub.Username != "octocat" {
		t.Errorf("loaded %+v", got)
	}
	if got.Output.Path != "zone5-data.json" {
		t.Errorf("Output.Path = %q, want default preserved", got.Output.Path)
	}
}

func TestLoadFrom_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Zone.DailyGoalMinutes != DefaultDailyGoal {
		t.Errorf("DailyGoalMinutes = %d", cfg.Zone.DailyGoalMinutes)
	}
}

func TestGetGitHubToken_EnvWins(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	cfg := DefaultConfig()
	cfg.GitHub.Token = "from-config"
	if got := GetGitHubToken(cfg); got != "from-env" {
		t.Errorf("GetGitHubToken = %q, want from-env", got)
	}
}
