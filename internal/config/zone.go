package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Zone defaults: a 30 year old targeting zone 5 for 15 minutes a day.
const (
	DefaultAge       = 30
	DefaultDailyGoal = 15

	zoneLowFraction = 0.90
)

// ErrInvalidZone is wrapped by every zone validation failure.
var ErrInvalidZone = errors.New("config: invalid zone")

// ZoneBounds is an inclusive [Low, High] heart-rate range.
type ZoneBounds struct {
	Low  float64
	High float64
}

// Contains reports whether v lies within the closed interval.
func (b ZoneBounds) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// String renders the bounds as "<low>-<high> bpm".
func (b ZoneBounds) String() string {
	return fmt.Sprintf("%s-%s bpm", formatBPM(b.Low), formatBPM(b.High))
}

// Validate checks 0 <= Low <= High and that both are finite.
func (b ZoneBounds) Validate() error {
	if math.IsNaN(b.Low) || math.IsNaN(b.High) || math.IsInf(b.Low, 0) || math.IsInf(b.High, 0) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidZone)
	}
	if b.Low < 0 {
		return fmt.Errorf("%w: low bound %v is negative", ErrInvalidZone, b.Low)
	}
	if b.Low > b.High {
		return fmt.Errorf("%w: low bound %v exceeds high bound %v", ErrInvalidZone, b.Low, b.High)
	}
	return nil
}

// ZoneSettings is the resolved, immutable zone configuration for one run.
type ZoneSettings struct {
	Age          int
	MaxHeartRate int
	Bounds       ZoneBounds
	DailyGoal    int
	Location     *time.Location
}

// MaxHeartRateForAge is the classic 220 - age estimate.
func MaxHeartRateForAge(age int) int {
	return 220 - age
}

// Resolve derives missing bounds from the age, loads the time zone and
// validates the result.
func (z ZoneConfig) Resolve() (ZoneSettings, error) {
	age := z.Age
	if age <= 0 {
		age = DefaultAge
	}
	if age >= 220 {
		return ZoneSettings{}, fmt.Errorf("%w: age %d out of range", ErrInvalidZone, age)
	}
	maxHR := MaxHeartRateForAge(age)

	bounds := ZoneBounds{Low: z.LowBPM, High: z.HighBPM}
	if bounds.Low == 0 {
		bounds.Low = math.Round(float64(maxHR) * zoneLowFraction)
	}
	if bounds.High == 0 {
		bounds.High = float64(maxHR)
	}
	if err := bounds.Validate(); err != nil {
		return ZoneSettings{}, err
	}

	goal := z.DailyGoalMinutes
	if goal == 0 {
		goal = DefaultDailyGoal
	}
	if goal < 1 {
		return ZoneSettings{}, fmt.Errorf("%w: daily goal must be at least 1 minute", ErrInvalidZone)
	}

	loc := time.Local
	if z.Timezone != "" {
		l, err := time.LoadLocation(z.Timezone)
		if err != nil {
			return ZoneSettings{}, fmt.Errorf("%w: time zone %q: %v", ErrInvalidZone, z.Timezone, err)
		}
		loc = l
	}

	return ZoneSettings{
		Age:          age,
		MaxHeartRate: maxHR,
		Bounds:       bounds,
		DailyGoal:    goal,
		Location:     loc,
	}, nil
}

func formatBPM(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
