// Package pipeline turns extracted samples into daily zone estimates and the
// statistics derived from them.
package pipeline

import (
	"math"
	"time"

	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/source"
)

// Summarize computes the headline counters of an estimate. The average is
// rounded to one decimal place and is 0 when there are no days.
func Summarize(est model.DailyEstimate, goalMinutes int) model.Summary {
	var s model.Summary
	for _, minutes := range est {
		s.TotalDays++
		s.TotalMinutes += minutes
		if minutes >= goalMinutes {
			s.DaysMeetingGoal++
		}
	}
	if s.TotalDays > 0 {
		avg := float64(s.TotalMinutes) / float64(s.TotalDays)
		s.AverageMinutesPerDay = math.Round(avg*10) / 10
	}
	return s
}

// Streaks computes runs of consecutive goal days. The current streak ends
// today, or yesterday while today's goal is still open.
func Streaks(est model.DailyEstimate, goalMinutes int, today model.DayKey) model.Streaks {
	met := func(k model.DayKey) bool {
		return est[k] >= goalMinutes && est[k] > 0
	}

	var st model.Streaks
	run := 0
	var prev time.Time
	for _, k := range est.Keys() {
		if !met(k) {
			run = 0
			continue
		}
		t, err := k.Time(time.UTC)
		if err != nil {
			run = 0
			continue
		}
		if run > 0 && prev.AddDate(0, 0, 1).Equal(t) {
			run++
		} else {
			run = 1
		}
		prev = t
		if run > st.Longest {
			st.Longest = run
		}
	}

	day, err := today.Time(time.UTC)
	if err != nil {
		return st
	}
	if !met(model.DayKeyOf(day, time.UTC)) {
		day = day.AddDate(0, 0, -1)
	}
	for met(model.DayKeyOf(day, time.UTC)) {
		st.Current++
		day = day.AddDate(0, 0, -1)
	}
	return st
}

// RecentActivity totals steps, active energy and workouts whose start time
// falls within the last days days before now.
func RecentActivity(res *source.ExtractResult, now time.Time, days int) model.ActivityTotals {
	since := now.AddDate(0, 0, -days)
	totals := model.ActivityTotals{Since: since}
	if res == nil {
		return totals
	}

	var steps, energy float64
	for _, s := range FilterByTime(res.Steps, since, now) {
		steps += s.Value
	}
	for _, s := range FilterByTime(res.Energy, since, now) {
		energy += s.Value
	}
	for _, w := range res.Workouts {
		if !w.Start.Before(since) && !w.Start.After(now) {
			totals.Workouts++
		}
	}

	totals.Steps = int64(steps)
	totals.ActiveEnergyKcal = int64(energy)
	return totals
}

// FilterByTime returns samples whose time falls within [since, until].
// A zero bound is open.
func FilterByTime(samples []model.Sample, since, until time.Time) []model.Sample {
	if since.IsZero() && until.IsZero() {
		return samples
	}

	var result []model.Sample
	for _, s := range samples {
		if !since.IsZero() && s.Time.Before(since) {
			continue
		}
		if !until.IsZero() && s.Time.After(until) {
			continue
		}
		result = append(result, s)
	}
	return result
}
