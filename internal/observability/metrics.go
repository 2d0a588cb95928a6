package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal counts lookup service answers by endpoint and outcome.
	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pwned_checks_total",
		Help: "Breach checks served, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pwned_upstream_request_duration_seconds",
		Help:    "Latency of range API requests by status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	RangeCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pwned_range_cache_total",
		Help: "Range cache lookups by result.",
	}, []string{"result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pwned_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
)
