package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/github"
	"github.com/theirongolddev/zone5/internal/model"
)

var testNow = time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

func testSettings() config.ZoneSettings {
	return config.ZoneSettings{
		Age:          30,
		MaxHeartRate: 190,
		Bounds:       config.ZoneBounds{Low: 171, High: 190},
		DailyGoal:    15,
		Location:     time.UTC,
	}
}

func testArtifact() Artifact {
	est := model.DailyEstimate{"2025-06-02": 20, "2025-06-01": 16, "2025-05-30": 3}
	sum := model.Summary{TotalDays: 3, TotalMinutes: 39, DaysMeetingGoal: 2, AverageMinutesPerDay: 13}
	return BuildArtifact(est, sum, model.Streaks{Current: 0, Longest: 2}, testSettings(), testNow)
}

func TestWriteArtifact_JSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArtifact(&buf, testArtifact(), FormatJSON))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	for _, key := range []string{"lastUpdate", "zone5Range", "maxHeartRate", "userAge", "dailyGoal", "statistics", "streaks", "achievements"} {
		require.Contains(t, raw, key)
	}
	require.Equal(t, "2025-06-10T14:30:00Z", raw["lastUpdate"])
	require.Equal(t, "171-190 bpm", raw["zone5Range"])
	require.EqualValues(t, 190, raw["maxHeartRate"])

	stats := raw["statistics"].(map[string]any)
	for _, key := range []string{"totalDays", "totalMinutes", "daysWithGoal", "averageMinutes"} {
		require.Contains(t, stats, key)
	}
	require.EqualValues(t, 2, stats["daysWithGoal"])

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "{\n  \"lastUpdate\""), "two-space indent")
	i1 := strings.Index(out, `"2025-05-30"`)
	i2 := strings.Index(out, `"2025-06-01"`)
	i3 := strings.Index(out, `"2025-06-02"`)
	require.True(t, i1 < i2 && i2 < i3, "achievements ascending by date")
}

func TestWriteArtifact_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArtifact(&buf, testArtifact(), FormatYAML))

	var got Artifact
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, testArtifact(), got)
	require.Contains(t, buf.String(), "zone5Range: 171-190 bpm")
}

func TestWriteArtifact_UnknownFormat(t *testing.T) {
	require.ErrorIs(t, WriteArtifact(&bytes.Buffer{}, testArtifact(), "xml"), ErrUnknownFormat)
}

func TestBuildArtifact_Empty(t *testing.T) {
	a := BuildArtifact(model.DailyEstimate{}, model.Summary{}, model.Streaks{}, testSettings(), testNow)
	require.NotNil(t, a.Achievements)

	var buf bytes.Buffer
	require.NoError(t, WriteArtifact(&buf, a, FormatJSON))
	require.Contains(t, buf.String(), `"achievements": {}`)
}

func TestWriteArtifactFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "zone5-data.yaml")
	require.Equal(t, FormatYAML, FormatFromPath(path))
	require.NoError(t, WriteArtifactFile(path, testArtifact(), FormatFromPath(path)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "dailyGoal: 15")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file cleaned up")
}

func readmeValues() ReadmeValues {
	return ReadmeValues{
		GitHub:   github.WeeklyStats{Commits: 12, PullRequests: 3, Issues: 2, Reviews: 5},
		Activity: model.ActivityTotals{Steps: 52000, ActiveEnergyKcal: 2150, Workouts: 4},
		Now:      testNow,
	}
}

func TestSubstituteReadme_StepsIsByteIdentical(t *testing.T) {
	doc := "# Me\n\n- **Steps**: 0\n\nfooter\n"
	out, res := SubstituteReadme(doc, readmeValues())
	require.Equal(t, "# Me\n\n- **Steps**: 52,000\n\nfooter\n", out)
	require.Equal(t, 1, res.Replaced)
	require.Contains(t, res.Missing, "Commits")
}

func TestSubstituteReadme_AllLabels(t *testing.T) {
	doc := strings.Join([]string{
		"## This week",
		"- **Commits**: 0",
		"- **Pull Requests**: 7",
		"- **Issues Closed**: 1",
		"- **Code Reviews**: 0",
		"- **Steps**: 10,000 (goal)",
		"- **Active Hours**: 3h",
		"- **Workout Sessions**: none",
		"",
		"_Updated {{ date }}_",
		"",
	}, "\n")

	out, res := SubstituteReadme(doc, readmeValues())
	require.Empty(t, res.Missing)
	require.Equal(t, 8, res.Replaced)
	require.Equal(t, strings.Join([]string{
		"## This week",
		"- **Commits**: 12",
		"- **Pull Requests**: 3",
		"- **Issues Closed**: 2",
		"- **Code Reviews**: 5",
		"- **Steps**: 52,000",
		"- **Active Hours**: 21h",
		"- **Workout Sessions**: 4",
		"",
		"_Updated 2025-06-10 14:30 UTC_",
		"",
	}, "\n"), out)
}

func TestSubstituteReadme_CounterNeedsDigits(t *testing.T) {
	doc := "**Commits**: many\n"
	out, res := SubstituteReadme(doc, readmeValues())
	require.Equal(t, doc, out)
	require.Contains(t, res.Missing, "Commits")
}

func TestSubstituteReadme_NoLabels(t *testing.T) {
	doc := "nothing to see\r\nhere"
	out, res := SubstituteReadme(doc, readmeValues())
	require.Equal(t, doc, out)
	require.Len(t, res.Missing, 8)
	require.Zero(t, res.Replaced)
}

func TestSubstituteReadme_RepeatedLabel(t *testing.T) {
	doc := "{{ date }} and {{ date }}"
	out, _ := SubstituteReadme(doc, readmeValues())
	require.Equal(t, "2025-06-10 14:30 UTC and 2025-06-10 14:30 UTC", out)
}

func TestUpdateReadmeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte("**Workout Sessions**: 0\n"), 0o640))

	res, err := UpdateReadmeFile(path, readmeValues())
	require.NoError(t, err)
	require.Equal(t, 1, res.Replaced)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "**Workout Sessions**: 4\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	_, err = UpdateReadmeFile(filepath.Join(t.TempDir(), "missing.md"), readmeValues())
	require.Error(t, err)
}

func TestRenderSVG(t *testing.T) {
	est := model.DailyEstimate{"2025-06-10": 16, "2025-06-09": 30, "2025-06-01": 4}
	svg := RenderSVG(est, model.Streaks{Current: 2, Longest: 2}, "2025-06-10", 15)

	require.True(t, strings.HasPrefix(svg, `<?xml version="1.0" encoding="UTF-8"?>`))
	require.True(t, strings.HasSuffix(svg, "</svg>\n"))
	require.Equal(t, 53*7+5, strings.Count(svg, `<rect class="cell"`))
	require.Contains(t, svg, "2 day streak (longest 2)")
	require.Contains(t, svg, "50 total minutes")
	require.Contains(t, svg, "2 days goal met (15+ min)")
	require.Contains(t, svg, `fill="#26a641"><title>2025-06-10: 16 minutes in zone</title>`)
	require.Contains(t, svg, `fill="#39d353"><title>2025-06-09: 30 minutes in zone</title>`)
	require.Contains(t, svg, `fill="#0e4429"><title>2025-06-01: 4 minutes in zone</title>`)
	require.Contains(t, svg, ">Jun</text>")
}

func TestLevelColor(t *testing.T) {
	require.Equal(t, "#161b22", LevelColor(0))
	require.Equal(t, "#39d353", LevelColor(4))
	require.Equal(t, "#161b22", LevelColor(9))
}
