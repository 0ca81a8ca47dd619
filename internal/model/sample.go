// Package model defines domain types for zone5 samples and derived metrics.
package model

import "time"

// Metric is the Apple Health type identifier of a quantity record.
type Metric string

// Quantity record types the extractor understands.
const (
	MetricHeartRate    Metric = "HKQuantityTypeIdentifierHeartRate"
	MetricStepCount    Metric = "HKQuantityTypeIdentifierStepCount"
	MetricActiveEnergy Metric = "HKQuantityTypeIdentifierActiveEnergyBurned"
)

// Sample is a single timestamped reading (bpm, step count or kcal).
// Samples are created once by the extractor and never mutated.
type Sample struct {
	Time   time.Time
	Value  float64
	Source string
}

// Workout is a recorded training session.
type Workout struct {
	Start        time.Time
	End          time.Time
	ActivityType string
	Source       string
}

// Duration returns the wall-clock length of the workout.
func (w Workout) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// DayKeyLayout is the calendar-date layout used for day keys.
const DayKeyLayout = "2006-01-02"

// DayKey is a calendar date ("2006-01-02") in the run's reference time zone.
type DayKey string

// DayKeyOf truncates t to its calendar date in loc. A nil loc means UTC.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.UTC
	}
	return DayKey(t.In(loc).Format(DayKeyLayout))
}

// Time returns midnight of the day in loc.
func (k DayKey) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DayKeyLayout, string(k), loc)
}

func (k DayKey) String() string {
	return string(k)
}
