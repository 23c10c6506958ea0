package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Mood engine metrics
	SongsClassified        prometheus.Counter
	MoodQueriesTotal       prometheus.CounterVec
	JourneysPlanned        prometheus.CounterVec
	UsageIncrementFailures prometheus.Counter

	// Presence metrics
	PresenceConnections prometheus.GaugeVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			SongsClassified: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "mood_songs_classified_total",
					Help: "Songs run through the mood classifier at ingestion",
				},
			),
			MoodQueriesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mood_queries_total",
					Help: "Songs-by-mood queries served, labeled by mood",
				},
				[]string{"mood"},
			),
			JourneysPlanned: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mood_journeys_planned_total",
					Help: "Journey playlists assembled, labeled by start and end mood",
				},
				[]string{"start", "end"},
			),
			UsageIncrementFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "mood_template_usage_increment_failures_total",
					Help: "Template usage counter writes that failed and were swallowed",
				},
			),
			PresenceConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "presence_connections",
					Help: "Open listening-room presence connections, labeled by mood room",
				},
				[]string{"room"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it on first use
func Get() *Metrics {
	return Initialize()
}
