// Package source extracts samples from Apple Health export files.
package source

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/zone5/internal/model"
)

// ProgressFunc is called every progressEvery records with the running count.
type ProgressFunc func(records int)

const progressEvery = 10_000

// Timestamp layouts seen in exports. A trailing "Z" is handled by RFC 3339;
// values without an offset are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var errNoRoot = errors.New("no root element")

// ParseFile resolves path (an export.xml, an export directory or export.zip)
// and extracts its records.
func ParseFile(path string, progressFn ProgressFunc) (*ExtractResult, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return Parse(rc, progressFn)
}

// Parse streams an export document and extracts heart-rate, step, energy
// and workout records. Malformed individual records are dropped and
// recorded in the result; only a broken document structure is an error.
func Parse(r io.Reader, progressFn ProgressFunc) (*ExtractResult, error) {
	dec := xml.NewDecoder(bufio.NewReaderSize(r, 256*1024))

	res := &ExtractResult{}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		switch se.Name.Local {
		case elemRecord:
			res.Records++
			line, _ := dec.InputPos()
			metric, sample, perr := parseRecord(se, line)
			switch {
			case perr != nil:
				res.drop(perr)
			case metric == "":
				res.Ignored++
			default:
				res.add(metric, sample)
			}
		case elemWorkout:
			res.Records++
			line, _ := dec.InputPos()
			w, perr := parseWorkout(se, line)
			if perr != nil {
				res.drop(perr)
			} else {
				res.Workouts = append(res.Workouts, w)
			}
		default:
			continue
		}

		if progressFn != nil && res.Records%progressEvery == 0 {
			progressFn(res.Records)
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, errNoRoot)
	}
	if progressFn != nil {
		progressFn(res.Records)
	}
	return res, nil
}

// parseRecord returns an empty metric for record types that are not tracked.
func parseRecord(se xml.StartElement, line int) (model.Metric, model.Sample, *RecordParseError) {
	metric := model.Metric(attr(se, "type"))
	switch metric {
	case model.MetricHeartRate, model.MetricStepCount, model.MetricActiveEnergy:
	default:
		return "", model.Sample{}, nil
	}

	fail := func(field, value string, err error) (model.Metric, model.Sample, *RecordParseError) {
		return "", model.Sample{}, &RecordParseError{Line: line, Element: elemRecord, Field: field, Value: value, Err: err}
	}

	rawDate := attr(se, "startDate")
	ts, err := ParseTimestamp(rawDate)
	if err != nil {
		return fail("startDate", rawDate, err)
	}

	rawValue := attr(se, "value")
	v, err := parseValue(rawValue)
	if err != nil {
		return fail("value", rawValue, err)
	}

	source := attr(se, "sourceName")
	if source == "" {
		source = "Unknown"
	}

	return metric, model.Sample{Time: ts, Value: v, Source: source}, nil
}

func parseWorkout(se xml.StartElement, line int) (model.Workout, *RecordParseError) {
	fail := func(field, value string, err error) (model.Workout, *RecordParseError) {
		return model.Workout{}, &RecordParseError{Line: line, Element: elemWorkout, Field: field, Value: value, Err: err}
	}

	rawStart := attr(se, "startDate")
	start, err := ParseTimestamp(rawStart)
	if err != nil {
		return fail("startDate", rawStart, err)
	}
	rawEnd := attr(se, "endDate")
	end, err := ParseTimestamp(rawEnd)
	if err != nil {
		return fail("endDate", rawEnd, err)
	}
	if end.Before(start) {
		return fail("endDate", rawEnd, errors.New("ends before it starts"))
	}

	return model.Workout{
		Start:        start,
		End:          end,
		ActivityType: attr(se, "workoutActivityType"),
		Source:       attr(se, "sourceName"),
	}, nil
}

// ParseTimestamp parses the ISO-8601-like timestamps found in exports.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// parseValue accepts finite, non-negative numbers only.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	if v < 0 {
		return 0, errors.New("negative")
	}
	return v, nil
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// FileInfo identifies a concrete export file on disk for cache validation.
type FileInfo struct {
	Path      string
	MtimeNs   int64
	SizeBytes int64
}

// Stat resolves path and returns the identity of the underlying file.
func Stat(path string) (FileInfo, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	return FileInfo{
		Path:      resolved,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}, nil
}
