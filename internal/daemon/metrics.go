package daemon

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's Prometheus collectors. Each Service owns its
// own registry so several services can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	pollsTotal   *prometheus.CounterVec
	pollDuration prometheus.Histogram
	cacheHits    prometheus.Counter
	httpRequests *prometheus.CounterVec

	todayMinutes   prometheus.Gauge
	totalDays      prometheus.Gauge
	totalMinutes   prometheus.Gauge
	goalDays       prometheus.Gauge
	averageMinutes prometheus.Gauge
	streak         *prometheus.GaugeVec
	samples        prometheus.Gauge
	parseErrors    prometheus.Gauge
}

// NewMetrics creates and registers the daemon collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zone5_polls_total",
			Help: "Export polls by result (ok, error).",
		}, []string{"result"}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "zone5_poll_duration_seconds",
			Help:    "Time to load and analyse the export.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zone5_cache_hits_total",
			Help: "Polls served from the extraction cache.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zone5_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		todayMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zone5_today_minutes",
			Help: "Estimated in-zone minutes today.",
		}),
		totalDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zone5_days_total",
			Help: "Days with at least one in-zone sample.",
		}),
		totalMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zone5_minutes_total",
			Help: "Estimated in-zone minutes across all days.",
		}),
		goalDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zone5_goal_days_total",
			Help: "Days meeting the daily goal.",
		}),
		averageMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zone5_average_minutes",
			Help: "Average in-zone minutes per day with data.",
		}),
		streak: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zone5_streak_days",
			Help: "Goal streak length (current, longest).",
		}, []string{"kind"}),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zone5_heart_rate_samples",
			Help: "Heart-rate samples in the last extraction.",
		}),
		parseErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zone5_parse_errors",
			Help: "Records dropped in the last extraction.",
		}),
	}

	m.registry.MustRegister(
		m.pollsTotal,
		m.pollDuration,
		m.cacheHits,
		m.httpRequests,
		m.todayMinutes,
		m.totalDays,
		m.totalMinutes,
		m.goalDays,
		m.averageMinutes,
		m.streak,
		m.samples,
		m.parseErrors,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observePoll(d time.Duration, err error, cacheHit bool) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pollsTotal.WithLabelValues(result).Inc()
	m.pollDuration.Observe(d.Seconds())
	if cacheHit {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) setSnapshot(s Snapshot) {
	m.todayMinutes.Set(float64(s.TodayMinutes))
	m.totalDays.Set(float64(s.TotalDays))
	m.totalMinutes.Set(float64(s.TotalMinutes))
	m.goalDays.Set(float64(s.DaysMeetingGoal))
	m.averageMinutes.Set(s.AverageMinutes)
	m.streak.WithLabelValues("current").Set(float64(s.CurrentStreak))
	m.streak.WithLabelValues("longest").Set(float64(s.LongestStreak))
	m.samples.Set(float64(s.HeartRateSamples))
	m.parseErrors.Set(float64(s.ParseErrors))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// instrument counts requests to route by response status.
func (m *Metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.httpRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	}
}
