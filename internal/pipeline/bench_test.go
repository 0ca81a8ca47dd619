package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/source"
	"github.com/theirongolddev/zone5/internal/store"
)

// writeSyntheticExport writes a year of heart-rate samples, one every
// five minutes during a daily hour-long session.
func writeSyntheticExport(b *testing.B) string {
	b.Helper()
	path := filepath.Join(b.TempDir(), "export.xml")
	f, err := os.Create(path)
	if err != nil {
		b.Fatal(err)
	}
	w := bufio.NewWriter(f)
	_, _ = fmt.Fprintln(w, `<?xml version="1.0" encoding="UTF-8"?>`)
	_, _ = fmt.Fprintln(w, `<HealthData locale="en_US">`)

	day := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	for d := 0; d < 365; d++ {
		for m := 0; m < 60; m += 5 {
			ts := day.AddDate(0, 0, d).Add(time.Duration(m) * time.Minute)
			_, _ = fmt.Fprintf(w,
				` <Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" startDate="%s" value="%d"/>`+"\n",
				ts.Format("2006-01-02 15:04:05 -0700"), 150+m/2)
		}
	}
	_, _ = fmt.Fprintln(w, `</HealthData>`)
	if err := w.Flush(); err != nil {
		b.Fatal(err)
	}
	if err := f.Close(); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkLoad(b *testing.B) {
	path := writeSyntheticExport(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := Load(path, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}

func BenchmarkAggregateZoneMinutes(b *testing.B) {
	res, err := source.ParseFile(writeSyntheticExport(b), nil)
	if err != nil {
		b.Fatal(err)
	}
	bounds := config.ZoneBounds{Low: 171, High: 190}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		est := AggregateZoneMinutes(res.HeartRate, bounds, time.UTC)
		_ = Summarize(est, 15)
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	path := writeSyntheticExport(b)

	cache, err := store.Open(filepath.Join(b.TempDir(), "extract.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr, err := LoadWithCache(path, cache, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = cr
	}
}

