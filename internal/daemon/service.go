// Package daemon provides the long-running export watcher and its HTTP API.
package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/pipeline"
	"github.com/theirongolddev/zone5/internal/report"
	"github.com/theirongolddev/zone5/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	ExportPath   string
	Settings     config.ZoneSettings
	UseCache     bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *slog.Logger
}

// Snapshot is a compact zone state for status/event payloads.
type Snapshot struct {
	At               time.Time `json:"at"`
	RunID            string    `json:"run_id"`
	Today            string    `json:"today"`
	TodayMinutes     int       `json:"today_minutes"`
	TotalDays        int       `json:"total_days"`
	TotalMinutes     int       `json:"total_minutes"`
	DaysMeetingGoal  int       `json:"days_meeting_goal"`
	AverageMinutes   float64   `json:"average_minutes"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	HeartRateSamples int       `json:"heart_rate_samples"`
	ParseErrors      int       `json:"parse_errors"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	TodayMinutes    int `json:"today_minutes"`
	TotalDays       int `json:"total_days"`
	TotalMinutes    int `json:"total_minutes"`
	DaysMeetingGoal int `json:"days_meeting_goal"`
	CurrentStreak   int `json:"current_streak"`
}

func (d Delta) isZero() bool {
	return d == Delta{}
}

// Event types.
const (
	EventSnapshot  = "snapshot"
	EventZoneDelta = "zone_delta"
	EventGoalMet   = "goal_met"
)

// Event is emitted whenever the zone snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	ExportPath      string    `json:"export_path"`
	ZoneRange       string    `json:"zone_range"`
	DailyGoal       int       `json:"daily_goal"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	log     *slog.Logger
	metrics *Metrics
	now     func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	analysis    *pipeline.Analysis
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 60 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Settings.Location == nil {
		cfg.Settings.Location = time.Local
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		cfg:       cfg,
		log:       logger.With("component", "daemon"),
		metrics:   NewMetrics(),
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the daemon's HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.metrics.instrument("/healthz", s.handleHealth))
	mux.HandleFunc("/v1/status", s.metrics.instrument("/v1/status", s.handleStatus))
	mux.HandleFunc("/v1/report", s.metrics.instrument("/v1/report", s.handleReport))
	mux.HandleFunc("/v1/graph.svg", s.metrics.instrument("/v1/graph.svg", s.handleGraph))
	mux.HandleFunc("/v1/events", s.metrics.instrument("/v1/events", s.handleEvents))
	mux.HandleFunc("/v1/stream", s.metrics.instrument("/v1/stream", s.handleStream))
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info("daemon started",
		"addr", s.cfg.Addr,
		"export", s.cfg.ExportPath,
		"interval", s.cfg.Interval,
		"zone", s.cfg.Settings.Bounds.String(),
	)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("daemon stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	start := time.Now()
	runID := uuid.NewString()

	lr, cacheHit, err := s.load()
	s.metrics.observePoll(time.Since(start), err, cacheHit)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = s.now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Error("poll failed", "run_id", runID, "error", err)
		return
	}

	now := s.now()
	a := pipeline.Analyze(lr.Extract, s.cfg.Settings, now)
	snap := snapshotFromAnalysis(a, lr.Extract.ParseErrors, runID, now)
	s.apply(a, snap)

	s.log.Debug("poll complete",
		"run_id", runID,
		"duration", time.Since(start),
		"cache_hit", cacheHit,
		"today_minutes", snap.TodayMinutes,
		"total_days", snap.TotalDays,
	)
}

func (s *Service) load() (*pipeline.LoadResult, bool, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.ExportPath, cache, nil)
			if loadErr == nil {
				return &cr.LoadResult, cr.CacheHit, nil
			}
		}
	}

	result, err := pipeline.Load(s.cfg.ExportPath, nil)
	if err != nil {
		return nil, false, err
	}
	return result, false, nil
}

// apply stores a fresh analysis and publishes the matching event.
func (s *Service) apply(a *pipeline.Analysis, snap Snapshot) {
	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.analysis = a
	s.lastPollAt = snap.At
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: snap.At,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      eventTypeFor(prev, snap, s.cfg.Settings.DailyGoal),
			Timestamp: snap.At,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	s.metrics.setSnapshot(snap)
	if publish {
		s.publishEvent(ev)
	}
}

// eventTypeFor reports goal_met the first time today's minutes cross the goal.
func eventTypeFor(prev, curr Snapshot, goal int) string {
	if prev.Today == curr.Today && prev.TodayMinutes < goal && curr.TodayMinutes >= goal {
		return EventGoalMet
	}
	return EventZoneDelta
}

func snapshotFromAnalysis(a *pipeline.Analysis, parseErrors int, runID string, at time.Time) Snapshot {
	samples := 0
	for _, d := range a.Days {
		samples += d.Samples
	}
	return Snapshot{
		At:               at,
		RunID:            runID,
		Today:            a.Today.String(),
		TodayMinutes:     a.TodayMinutes(),
		TotalDays:        a.Summary.TotalDays,
		TotalMinutes:     a.Summary.TotalMinutes,
		DaysMeetingGoal:  a.Summary.DaysMeetingGoal,
		AverageMinutes:   a.Summary.AverageMinutesPerDay,
		CurrentStreak:    a.Streaks.Current,
		LongestStreak:    a.Streaks.Longest,
		HeartRateSamples: samples,
		ParseErrors:      parseErrors,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		TodayMinutes:    curr.TodayMinutes - prev.TodayMinutes,
		TotalDays:       curr.TotalDays - prev.TotalDays,
		TotalMinutes:    curr.TotalMinutes - prev.TotalMinutes,
		DaysMeetingGoal: curr.DaysMeetingGoal - prev.DaysMeetingGoal,
		CurrentStreak:   curr.CurrentStreak - prev.CurrentStreak,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ExportPath:      s.cfg.ExportPath,
		ZoneRange:       s.cfg.Settings.Bounds.String(),
		DailyGoal:       s.cfg.Settings.DailyGoal,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) currentAnalysis() *pipeline.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	a := s.currentAnalysis()
	if a == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	format := r.URL.Query().Get("format")
	art := report.BuildArtifact(a.Estimate, a.Summary, a.Streaks, a.Settings, s.snapshotStatus().Summary.At)

	var buf bytes.Buffer
	if err := report.WriteArtifact(&buf, art, format); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if format == report.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) handleGraph(w http.ResponseWriter, _ *http.Request) {
	a := s.currentAnalysis()
	if a == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = io.WriteString(w, report.RenderSVG(a.Estimate, a.Streaks, a.Today, a.Settings.DailyGoal))
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
