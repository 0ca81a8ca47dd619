package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/zone5/internal/source"
	"github.com/theirongolddev/zone5/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHit bool
}

// LoadWithCache returns the cached extraction when the export's mtime and
// size are unchanged, and otherwise re-parses it and refreshes the cache.
// A cache write failure is not fatal; the fresh result is still returned.
func LoadWithCache(path string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	start := time.Now()

	info, err := source.Stat(path)
	if err != nil {
		return nil, err
	}

	tracked, ok, err := cache.GetTrackedFile(info.Path)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if ok && tracked.MtimeNs == info.MtimeNs && tracked.SizeBytes == info.SizeBytes {
		res, err := cache.LoadExport(info.Path)
		if err == nil {
			return &CachedLoadResult{
				LoadResult: LoadResult{Path: info.Path, Extract: res, Duration: time.Since(start)},
				CacheHit:   true,
			}, nil
		}
	}

	res, err := source.ParseFile(info.Path, progressFn)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", info.Path, err)
	}
	_ = cache.SaveExport(store.FileInfo{
		Path:      info.Path,
		MtimeNs:   info.MtimeNs,
		SizeBytes: info.SizeBytes,
	}, res)

	return &CachedLoadResult{
		LoadResult: LoadResult{Path: info.Path, Extract: res, Duration: time.Since(start)},
	}, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "zone5")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "zone5")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "extract.db")
}
