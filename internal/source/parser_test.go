package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/zone5/internal/model"
)

const exportHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE HealthData [
<!ELEMENT HealthData (ExportDate,Me,(Record|Workout)*)>
<!ATTLIST HealthData locale CDATA #REQUIRED>
]>
<HealthData locale="en_US">
 <ExportDate value="2025-06-02 08:00:00 +0000"/>
`

// writeExport wraps records in a HealthData document and returns its path.
func writeExport(t *testing.T, records ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "export.xml")
	doc := exportHeader + strings.Join(records, "\n") + "\n</HealthData>\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func hr(date, value string) string {
	return `<Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" unit="count/min" startDate="` +
		date + `" endDate="` + date + `" value="` + value + `"/>`
}

func TestParseFile_HeartRate(t *testing.T) {
	path := writeExport(t,
		hr("2025-06-01 10:00:00 +0000", "175"),
		hr("2025-06-01T10:05:00Z", "172"),
		`<Record type="HKQuantityTypeIdentifierHeartRate" startDate="2025-06-01 10:16:00 +0000" value="180">
  <MetadataEntry key="HKMetadataKeyHeartRateMotionContext" value="1"/>
 </Record>`,
	)

	result, err := ParseFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.HeartRate) != 3 {
		t.Fatalf("HeartRate = %d samples, want 3", len(result.HeartRate))
	}
	if result.HeartRate[0].Source != "Watch" {
		t.Errorf("Source = %q, want Watch", result.HeartRate[0].Source)
	}
	if result.HeartRate[2].Source != "Unknown" {
		t.Errorf("missing sourceName = %q, want Unknown", result.HeartRate[2].Source)
	}
	want := time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC)
	if !result.HeartRate[1].Time.Equal(want) {
		t.Errorf("Z timestamp = %v, want %v", result.HeartRate[1].Time, want)
	}
	if result.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", result.ParseErrors)
	}
}

func TestParseFile_ActivityRecords(t *testing.T) {
	path := writeExport(t,
		`<Record type="HKQuantityTypeIdentifierStepCount" startDate="2025-06-01 09:00:00 +0000" value="1200"/>`,
		`<Record type="HKQuantityTypeIdentifierActiveEnergyBurned" startDate="2025-06-01 09:00:00 +0000" value="35.5"/>`,
		`<Record type="HKQuantityTypeIdentifierBodyMass" startDate="2025-06-01 09:00:00 +0000" value="80"/>`,
		`<Workout workoutActivityType="HKWorkoutActivityTypeRunning" startDate="2025-06-01 07:00:00 +0000" endDate="2025-06-01 07:45:00 +0000"/>`,
	)

	result, err := ParseFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Steps) != 1 || result.Steps[0].Value != 1200 {
		t.Errorf("Steps = %+v", result.Steps)
	}
	if len(result.Energy) != 1 || result.Energy[0].Value != 35.5 {
		t.Errorf("Energy = %+v", result.Energy)
	}
	if result.Ignored != 1 {
		t.Errorf("Ignored = %d, want 1", result.Ignored)
	}
	if len(result.Workouts) != 1 {
		t.Fatalf("Workouts = %d, want 1", len(result.Workouts))
	}
	w := result.Workouts[0]
	if w.ActivityType != "HKWorkoutActivityTypeRunning" || w.Duration() != 45*time.Minute {
		t.Errorf("Workout = %+v (duration %v)", w, w.Duration())
	}
	if result.Records != 4 {
		t.Errorf("Records = %d, want 4", result.Records)
	}
}

func TestParseFile_MalformedRecords(t *testing.T) {
	path := writeExport(t,
		hr("not a date", "170"),
		hr("2025-06-01 10:00:00 +0000", "fast"),
		hr("2025-06-01 10:00:00 +0000", "-4"),
		hr("2025-06-01 10:00:00 +0000", "NaN"),
		`<Record type="HKQuantityTypeIdentifierHeartRate" startDate="2025-06-01 10:00:00 +0000"/>`,
		`<Workout startDate="2025-06-01 08:00:00 +0000" endDate="2025-06-01 07:00:00 +0000"/>`,
		hr("2025-06-01 10:01:00 +0000", "180"),
	)

	result, err := ParseFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Malformed records are dropped, not fatal.
	if len(result.HeartRate) != 1 {
		t.Errorf("HeartRate = %d, want 1", len(result.HeartRate))
	}
	if result.ParseErrors != 6 {
		t.Errorf("ParseErrors = %d, want 6", result.ParseErrors)
	}
	if len(result.Errors) != 6 {
		t.Fatalf("Errors kept = %d, want 6", len(result.Errors))
	}
	if result.Errors[0].Field != "startDate" || result.Errors[1].Field != "value" {
		t.Errorf("fields = %q, %q", result.Errors[0].Field, result.Errors[1].Field)
	}
	if result.Errors[0].Line == 0 {
		t.Error("expected a line number on the first error")
	}
	if result.Errors[5].Element != elemWorkout {
		t.Errorf("Element = %q, want Workout", result.Errors[5].Element)
	}
}

func TestParseFile_KeptErrorsBounded(t *testing.T) {
	records := make([]string, 0, maxKeptErrors+10)
	for i := 0; i < maxKeptErrors+10; i++ {
		records = append(records, hr("garbage", "1"))
	}
	result, err := ParseFile(writeExport(t, records...), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ParseErrors != maxKeptErrors+10 {
		t.Errorf("ParseErrors = %d", result.ParseErrors)
	}
	if len(result.Errors) != maxKeptErrors {
		t.Errorf("Errors kept = %d, want %d", len(result.Errors), maxKeptErrors)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.xml"), nil)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestParseFile_MalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `<HealthData><Record type="x"`},
		{"unclosed root", `<HealthData><Record type="x"/>`},
		{"empty", ``},
		{"not xml", `{"heartRates": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc), nil)
			if !errors.Is(err, ErrSourceMalformed) {
				t.Fatalf("err = %v, want ErrSourceMalformed", err)
			}
		})
	}
}

func TestParseFile_Directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "apple_health_export")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	doc := exportHeader + hr("2025-06-01 10:00:00 +0000", "175") + "\n</HealthData>\n"
	if err := os.WriteFile(filepath.Join(sub, "export.xml"), []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := ParseFile(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.HeartRate) != 1 {
		t.Errorf("HeartRate = %d, want 1", len(result.HeartRate))
	}
}

func TestParseFile_Zip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("apple_health_export/export.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc := exportHeader + hr("2025-06-01 10:00:00 +0000", "175") + "\n" + hr("2025-06-01 10:10:00 +0000", "176") + "\n</HealthData>\n"
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	result, err := ParseFile(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.HeartRate) != 2 {
		t.Errorf("HeartRate = %d, want 2", len(result.HeartRate))
	}
}

func TestParse_Progress(t *testing.T) {
	var calls []int
	_, err := Parse(strings.NewReader(exportHeader+hr("2025-06-01 10:00:00 +0000", "100")+"</HealthData>"), func(n int) {
		calls = append(calls, n)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Errorf("progress calls = %v, want [1]", calls)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01T10:00:00Z", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-06-01T10:00:00+02:00", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{"2025-06-01 10:00:00 -0700", time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)},
		{"2025-06-01 10:00:00", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-06-01T10:00:00.250Z", time.Date(2025, 6, 1, 10, 0, 0, 250_000_000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "yesterday", "2025-13-01T00:00:00Z", "2025-06-01"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Errorf("ParseTimestamp(%q) succeeded, want error", bad)
		}
	}
}

func TestRecordParseError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	err := error(&RecordParseError{Line: 3, Element: elemRecord, Field: "value", Value: "x", Err: base})
	if !errors.Is(err, base) {
		t.Error("RecordParseError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Error() = %q", err.Error())
	}
}

// FuzzParse checks the extractor never panics and never emits a sample
// the classifier contract forbids.
func FuzzParse(f *testing.F) {
	f.Add([]byte(exportHeader + hr("2025-06-01 10:00:00 +0000", "175") + "</HealthData>"))
	f.Add([]byte(`<HealthData><Record type="HKQuantityTypeIdentifierHeartRate" startDate="x" value="1e309"/></HealthData>`))
	f.Add([]byte(`<HealthData><Workout startDate="2025-06-01T00:00:00Z" endDate="2024-06-01T00:00:00Z"/></HealthData>`))
	f.Add([]byte(`<HealthData`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		result, err := Parse(bytes.NewReader(data), nil)
		if err != nil {
			return
		}
		for _, set := range [][]model.Sample{result.HeartRate, result.Steps, result.Energy} {
			for _, s := range set {
				if s.Value < 0 || math.IsNaN(s.Value) {
					t.Fatalf("invalid sample value %v", s.Value)
				}
			}
		}
		for _, w := range result.Workouts {
			if w.End.Before(w.Start) {
				t.Fatalf("workout ends before it starts: %+v", w)
			}
		}
	})
}
