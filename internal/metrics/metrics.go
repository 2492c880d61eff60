package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_store_query_duration_seconds",
			Help:    "Duration of MongoDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_store_query_errors_total",
			Help: "Total number of failed MongoDB operations",
		},
		[]string{"collection", "operation"},
	)

	TogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_toggles_total",
			Help: "Like and subscription toggles by resulting state",
		},
		[]string{"kind", "state"},
	)

	MediaOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_media_operations_total",
			Help: "Media delegate uploads and deletes by outcome",
		},
		[]string{"operation", "outcome"},
	)

	MediaBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vidtube_media_breaker_state",
			Help: "Media circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidtube_ws_connections",
			Help: "Currently connected websocket clients",
		},
	)
)

func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveStore records one MongoDB operation. Use it with defer:
//
//	defer metrics.ObserveStore("videos", "aggregate", time.Now(), &err)
func ObserveStore(collection, operation string, start time.Time, errp *error) {
	StoreQueryDuration.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
	if errp != nil && *errp != nil {
		StoreQueryErrors.WithLabelValues(collection, operation).Inc()
	}
}

func RecordToggle(kind string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	TogglesTotal.WithLabelValues(kind, state).Inc()
}

func RecordMedia(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	MediaOperations.WithLabelValues(operation, outcome).Inc()
}
