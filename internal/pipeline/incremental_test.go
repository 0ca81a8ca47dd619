package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/zone5/internal/source"
	"github.com/theirongolddev/zone5/internal/store"
)

const tinyExport = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_US">
 <Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" startDate="2025-06-01 10:00:00 +0000" value="175"/>
 <Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" startDate="2025-06-01 10:16:00 +0000" value="180"/>
 <Record type="HKQuantityTypeIdentifierStepCount" sourceName="Phone" startDate="2025-06-01 09:00:00 +0000" value="800"/>
</HealthData>
`

func writeTinyExport(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "export.xml")
	if err := os.WriteFile(path, []byte(tinyExport), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTinyExport(t, t.TempDir())

	lr, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lr.Path != path {
		t.Errorf("Path = %s, want %s", lr.Path, path)
	}
	if len(lr.Extract.HeartRate) != 2 || len(lr.Extract.Steps) != 1 {
		t.Errorf("extract = %+v", lr.Extract)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.xml"), nil); !errors.Is(err, source.ErrSourceNotFound) {
		t.Errorf("missing: err = %v, want ErrSourceNotFound", err)
	}

	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte("<HealthData><Record"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad, nil); !errors.Is(err, source.ErrSourceMalformed) {
		t.Errorf("malformed: err = %v, want ErrSourceMalformed", err)
	}
}

func TestLoadWithCache_HitAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeTinyExport(t, dir)

	cache, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.CacheHit {
		t.Error("first load should miss")
	}

	second, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.CacheHit {
		t.Error("second load should hit")
	}
	if len(second.Extract.HeartRate) != 2 || len(second.Extract.Steps) != 1 {
		t.Errorf("cached extract = %+v", second.Extract)
	}
	if !second.Extract.HeartRate[1].Time.Equal(first.Extract.HeartRate[1].Time) {
		t.Error("cached timestamps differ from parsed ones")
	}

	// Touching the file invalidates the entry.
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	third, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.CacheHit {
		t.Error("modified export should be re-parsed")
	}
}

func TestCachePath_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if got := CachePath(); got != filepath.Join("/tmp/xdg-cache", "zone5", "extract.db") {
		t.Errorf("CachePath = %s", got)
	}
}
