package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/source"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "extract.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func fixtureResult() *source.ExtractResult {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.FixedZone("PDT", -7*3600))
	return &source.ExtractResult{
		HeartRate: []model.Sample{
			{Time: base, Value: 175, Source: "Watch"},
			{Time: base.Add(5 * time.Minute), Value: 172.5, Source: "Watch"},
		},
		Steps:  []model.Sample{{Time: base, Value: 1200, Source: "Phone"}},
		Energy: []model.Sample{{Time: base, Value: 35.5, Source: "Watch"}},
		Workouts: []model.Workout{{
			Start:        base.Add(-time.Hour),
			End:          base.Add(-15 * time.Minute),
			ActivityType: "HKWorkoutActivityTypeRunning",
			Source:       "Watch",
		}},
		Records:     7,
		Ignored:     1,
		ParseErrors: 1,
	}
}

func TestCache_SaveLoadExport(t *testing.T) {
	c := openTestCache(t)
	fi := FileInfo{Path: "/data/export.xml", MtimeNs: 42, SizeBytes: 1024}
	want := fixtureResult()

	require.NoError(t, c.SaveExport(fi, want))

	tracked, ok, err := c.GetTrackedFile(fi.Path)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fi, tracked)

	got, err := c.LoadExport(fi.Path)
	require.NoError(t, err)
	require.Equal(t, want.Records, got.Records)
	require.Equal(t, want.Ignored, got.Ignored)
	require.Equal(t, want.ParseErrors, got.ParseErrors)
	require.Len(t, got.HeartRate, 2)
	require.Len(t, got.Steps, 1)
	require.Len(t, got.Energy, 1)
	require.Len(t, got.Workouts, 1)

	for i, s := range got.HeartRate {
		require.True(t, s.Time.Equal(want.HeartRate[i].Time), "sample %d time", i)
		require.Equal(t, want.HeartRate[i].Value, s.Value)
		require.Equal(t, "Watch", s.Source)
	}
	require.Equal(t, time.UTC, got.HeartRate[0].Time.Location())
	require.Equal(t, 45*time.Minute, got.Workouts[0].Duration())
	require.Equal(t, "HKWorkoutActivityTypeRunning", got.Workouts[0].ActivityType)
}

func TestCache_SaveReplacesPreviousEntry(t *testing.T) {
	c := openTestCache(t)
	path := "/data/export.xml"

	require.NoError(t, c.SaveExport(FileInfo{Path: path, MtimeNs: 1, SizeBytes: 10}, fixtureResult()))

	smaller := &source.ExtractResult{
		HeartRate: []model.Sample{{Time: time.Unix(1_700_000_000, 0), Value: 180}},
		Records:   1,
	}
	require.NoError(t, c.SaveExport(FileInfo{Path: path, MtimeNs: 2, SizeBytes: 20}, smaller))

	tracked, ok, err := c.GetTrackedFile(path)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), tracked.MtimeNs)

	n, err := c.SampleCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := c.LoadExport(path)
	require.NoError(t, err)
	require.Len(t, got.HeartRate, 1)
	require.Empty(t, got.Workouts)
}

func TestCache_Untracked(t *testing.T) {
	c := openTestCache(t)

	_, ok, err := c.GetTrackedFile("/nope.xml")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = c.LoadExport("/nope.xml")
	require.ErrorIs(t, err, ErrNotCached)
}

func TestCache_DeleteExport(t *testing.T) {
	c := openTestCache(t)
	path := "/data/export.xml"
	require.NoError(t, c.SaveExport(FileInfo{Path: path, MtimeNs: 1, SizeBytes: 1}, fixtureResult()))

	require.NoError(t, c.DeleteExport(path))

	n, err := c.SampleCount()
	require.NoError(t, err)
	require.Zero(t, n)
	_, ok, err := c.GetTrackedFile(path)
	require.NoError(t, err)
	require.False(t, ok)
}
