package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climbtracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climbtracker_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climbtracker_sessions_created_total",
			Help: "Total number of climbing sessions logged",
		},
	)

	ClimbsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climbtracker_climbs_recorded_total",
			Help: "Total number of climbs inserted",
		},
	)

	FeedCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climbtracker_feed_cache_hits_total",
			Help: "Feed reads served from an existing cache entry",
		},
	)

	FeedCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climbtracker_feed_cache_misses_total",
			Help: "Feed reads that had to warm the cache from Postgres",
		},
	)

	WorkerEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climbtracker_worker_events_total",
			Help: "Activity stream events handled by workers",
		},
		[]string{"type", "outcome"},
	)

	EventsPublishFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climbtracker_events_publish_failed_total",
			Help: "Activity events that could not be written to the stream",
		},
		[]string{"type"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordWorkerEvent records the outcome of handling one stream event.
func RecordWorkerEvent(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	WorkerEventsTotal.WithLabelValues(eventType, outcome).Inc()
}
