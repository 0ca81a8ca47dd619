package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/source"
)

// ActivityWindowDays is the look-back window for weekly activity totals.
const ActivityWindowDays = 7

// LoadResult holds the output of the extraction stage.
type LoadResult struct {
	Path     string // resolved export.xml or archive
	Extract  *source.ExtractResult
	Duration time.Duration
}

// ProgressFunc is called during loading with the number of records read so far.
type ProgressFunc = source.ProgressFunc

// Load resolves path and extracts every tracked record from it.
func Load(path string, progressFn ProgressFunc) (*LoadResult, error) {
	start := time.Now()

	resolved, err := source.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	res, err := source.ParseFile(resolved, progressFn)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resolved, err)
	}

	return &LoadResult{
		Path:     resolved,
		Extract:  res,
		Duration: time.Since(start),
	}, nil
}

// Analysis is everything derived from one extraction for one set of zone
// settings. It is recomputed from scratch on every run.
type Analysis struct {
	Settings config.ZoneSettings
	Today    model.DayKey
	Days     []model.ZoneDay
	Estimate model.DailyEstimate
	Summary  model.Summary
	Streaks  model.Streaks
	Activity model.ActivityTotals
}

// Analyze runs classification, aggregation and summarisation over res.
func Analyze(res *source.ExtractResult, zs config.ZoneSettings, now time.Time) *Analysis {
	a := &Analysis{
		Settings: zs,
		Today:    model.DayKeyOf(now, zs.Location),
	}

	var hr []model.Sample
	if res != nil {
		hr = res.HeartRate
	}
	a.Days = AggregateZoneDays(hr, zs.Bounds, zs.Location)
	a.Estimate = make(model.DailyEstimate, len(a.Days))
	for _, d := range a.Days {
		a.Estimate[d.Date] = d.Minutes
	}
	a.Summary = Summarize(a.Estimate, zs.DailyGoal)
	a.Streaks = Streaks(a.Estimate, zs.DailyGoal, a.Today)
	a.Activity = RecentActivity(res, now, ActivityWindowDays)
	return a
}

// TodayMinutes returns today's estimate, 0 when today has no in-zone sample.
func (a *Analysis) TodayMinutes() int {
	return a.Estimate[a.Today]
}

// Graph builds the contribution graph ending today.
func (a *Analysis) Graph() model.Graph {
	return BuildGraph(a.Estimate, a.Today)
}
