// Package store provides a SQLite-backed cache of extracted export records.
// Only raw samples are cached; zone estimates are always recomputed.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotCached is returned by LoadExport for an export with no cache entry.
var ErrNotCached = errors.New("store: export not cached")

// Cache provides SQLite-backed extraction caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo identifies the export a cache entry was built from.
type FileInfo struct {
	Path      string
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFile returns the tracked identity of path, if any.
func (c *Cache) GetTrackedFile(path string) (FileInfo, bool, error) {
	fi := FileInfo{Path: path}
	err := c.db.QueryRow("SELECT mtime_ns, size_bytes FROM exports WHERE file_path = ?", path).
		Scan(&fi.MtimeNs, &fi.SizeBytes)
	if errors.Is(err, sql.ErrNoRows) {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, err
	}
	return fi, true, nil
}

// SaveExport replaces the cached records of an export in one transaction.
func (c *Cache) SaveExport(fi FileInfo, res *source.ExtractResult) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades to samples and workouts.
	if _, err := tx.Exec("DELETE FROM exports WHERE file_path = ?", fi.Path); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO exports
		(file_path, mtime_ns, size_bytes, records, ignored, parse_errors, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fi.Path, fi.MtimeNs, fi.SizeBytes, res.Records, res.Ignored, res.ParseErrors, now,
	)
	if err != nil {
		return err
	}

	sampleStmt, err := tx.Prepare(`INSERT INTO samples (file_path, metric, ts_ns, value, source)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = sampleStmt.Close() }()

	sets := []struct {
		metric  model.Metric
		samples []model.Sample
	}{
		{model.MetricHeartRate, res.HeartRate},
		{model.MetricStepCount, res.Steps},
		{model.MetricActiveEnergy, res.Energy},
	}
	for _, set := range sets {
		for _, s := range set.samples {
			if _, err := sampleStmt.Exec(fi.Path, string(set.metric), s.Time.UnixNano(), s.Value, s.Source); err != nil {
				return err
			}
		}
	}

	for _, w := range res.Workouts {
		_, err = tx.Exec(`INSERT INTO workouts (file_path, activity_type, start_ns, end_ns, source)
			VALUES (?, ?, ?, ?, ?)`,
			fi.Path, w.ActivityType, w.Start.UnixNano(), w.End.UnixNano(), w.Source,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadExport reads the cached extraction of path. Sample times come back in
// UTC; per-record error details are not cached, only their count.
func (c *Cache) LoadExport(path string) (*source.ExtractResult, error) {
	res := &source.ExtractResult{}
	err := c.db.QueryRow("SELECT records, ignored, parse_errors FROM exports WHERE file_path = ?", path).
		Scan(&res.Records, &res.Ignored, &res.ParseErrors)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(`SELECT metric, ts_ns, value, source FROM samples
		WHERE file_path = ? ORDER BY rowid`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var metric string
		var tsNs int64
		var src sql.NullString
		var s model.Sample
		if err := rows.Scan(&metric, &tsNs, &s.Value, &src); err != nil {
			return nil, err
		}
		s.Time = time.Unix(0, tsNs).UTC()
		s.Source = src.String

		switch model.Metric(metric) {
		case model.MetricHeartRate:
			res.HeartRate = append(res.HeartRate, s)
		case model.MetricStepCount:
			res.Steps = append(res.Steps, s)
		case model.MetricActiveEnergy:
			res.Energy = append(res.Energy, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	wrows, err := c.db.Query(`SELECT activity_type, start_ns, end_ns, source FROM workouts
		WHERE file_path = ? ORDER BY rowid`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wrows.Close() }()

	for wrows.Next() {
		var activity, src sql.NullString
		var startNs, endNs int64
		if err := wrows.Scan(&activity, &startNs, &endNs, &src); err != nil {
			return nil, err
		}
		res.Workouts = append(res.Workouts, model.Workout{
			Start:        time.Unix(0, startNs).UTC(),
			End:          time.Unix(0, endNs).UTC(),
			ActivityType: activity.String,
			Source:       src.String,
		})
	}

	return res, wrows.Err()
}

// DeleteExport removes an export and its records from the cache.
func (c *Cache) DeleteExport(path string) error {
	_, err := c.db.Exec("DELETE FROM exports WHERE file_path = ?", path)
	return err
}

// SampleCount returns the number of cached samples across all exports.
func (c *Cache) SampleCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count)
	return count, err
}
