package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	TimelinesBuiltTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "authlog_timelines_built_total",
			Help: "Total number of attempt timelines built",
		},
	)

	UnknownCodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authlog_unknown_codes_total",
			Help: "Total number of events rejected for an unknown or mismatched status and group type",
		},
		[]string{"kind"},
	)

	StatsCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authlog_stats_cache_lookups_total",
			Help: "Stats cache lookups by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics with the default registry.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(TimelinesBuiltTotal)
		prometheus.MustRegister(UnknownCodesTotal)
		prometheus.MustRegister(StatsCacheLookupsTotal)
	})
}
