package model

import (
	"sort"
	"time"
)

// DailyEstimate maps a day to its estimated in-zone minutes.
// Days without a qualifying sample are absent, never zero.
type DailyEstimate map[DayKey]int

// Keys returns the days in ascending order.
func (e DailyEstimate) Keys() []DayKey {
	keys := make([]DayKey, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ZoneDay holds the in-zone detail for a single calendar day.
type ZoneDay struct {
	Date    DayKey
	Minutes int
	Samples int // qualifying samples
	First   time.Time
	Last    time.Time
}

// Summary holds the counters derived from a DailyEstimate.
type Summary struct {
	TotalDays            int
	TotalMinutes         int
	DaysMeetingGoal      int
	AverageMinutesPerDay float64
}

// Streaks holds consecutive goal-day runs.
type Streaks struct {
	Current int
	Longest int
}

// ActivityTotals holds step, energy and workout totals for a recent window.
type ActivityTotals struct {
	Since            time.Time
	Steps            int64
	ActiveEnergyKcal int64
	Workouts         int
}

// ActiveHours is the README's coarse "active hours" figure: kcal / 100.
func (a ActivityTotals) ActiveHours() int64 {
	return a.ActiveEnergyKcal / 100
}

// GraphCell is one day of the contribution graph.
type GraphCell struct {
	Date    DayKey
	Minutes int
	Level   int  // 0-4
	Future  bool // padding after today
}

// Graph is a year of contribution cells grouped into Sunday-first weeks.
type Graph struct {
	Weeks [][]GraphCell
	Start DayKey
	End   DayKey
}
