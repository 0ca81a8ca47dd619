package source

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/zone5/internal/model"
)

var (
	// ErrSourceNotFound indicates the export path is missing or cannot be opened.
	ErrSourceNotFound = errors.New("source: export not found")
	// ErrSourceMalformed indicates the export's XML structure cannot be parsed.
	ErrSourceMalformed = errors.New("source: export is not well-formed XML")
)

// Element names in an Apple Health export.
const (
	elemRecord  = "Record"
	elemWorkout = "Workout"
)

// maxKeptErrors bounds how many per-record errors ExtractResult retains.
// ParseErrors always counts all of them.
const maxKeptErrors = 50

// RecordParseError describes one dropped record.
type RecordParseError struct {
	Line    int
	Element string
	Field   string
	Value   string
	Err     error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("line %d: %s %s=%q: %v", e.Line, e.Element, e.Field, e.Value, e.Err)
}

func (e *RecordParseError) Unwrap() error {
	return e.Err
}

// ExtractResult holds the samples pulled out of one export.
type ExtractResult struct {
	HeartRate []model.Sample
	Steps     []model.Sample
	Energy    []model.Sample
	Workouts  []model.Workout

	Records     int // Record and Workout elements examined
	Ignored     int // records of a type zone5 does not track
	ParseErrors int
	Errors      []*RecordParseError
}

// Accepted returns how many records became samples or workouts.
func (r *ExtractResult) Accepted() int {
	return len(r.HeartRate) + len(r.Steps) + len(r.Energy) + len(r.Workouts)
}

func (r *ExtractResult) drop(err *RecordParseError) {
	r.ParseErrors++
	if len(r.Errors) < maxKeptErrors {
		r.Errors = append(r.Errors, err)
	}
}

func (r *ExtractResult) add(metric model.Metric, s model.Sample) {
	switch metric {
	case model.MetricHeartRate:
		r.HeartRate = append(r.HeartRate, s)
	case model.MetricStepCount:
		r.Steps = append(r.Steps, s)
	case model.MetricActiveEnergy:
		r.Energy = append(r.Energy, s)
	}
}
