// Package observability owns the Prometheus collectors.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activeflow",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "activeflow",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activeflow",
		Name:      "workouts_created_total",
		Help:      "Workouts accepted, by type tag.",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, workoutsCreated)
}

// ObserveRequest records one served request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordWorkoutCreated(workoutType string) {
	if workoutType == "" {
		workoutType = "unknown"
	}
	workoutsCreated.WithLabelValues(workoutType).Inc()
}
