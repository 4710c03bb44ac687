package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_directory_lookups_total",
			Help: "Total number of post directory lookups",
		},
		[]string{"by", "result"},
	)

	PostDirectorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "post_directory_posts",
			Help: "Number of posts loaded into the directory",
		},
	)

	SignUpSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_submissions_total",
			Help: "Total number of sign-up submissions by outcome",
		},
		[]string{"outcome"},
	)

	SignUpBoundaryDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signup_boundary_duration_seconds",
			Help:    "Duration of sign-up boundary calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)
