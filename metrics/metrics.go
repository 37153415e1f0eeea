package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pricelabs-dash/models"
)

var (
	// Upstream (PriceLabs) calls
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricelabs_upstream_requests_total",
			Help: "Total upstream listings calls by status code (or \"error\" for transport failures)",
		},
		[]string{"status"},
	)

	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricelabs_upstream_request_duration_seconds",
			Help:    "Duration of upstream listings calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RateLimitRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricelabs_ratelimit_remaining",
			Help: "Last x-ratelimit-remaining value reported upstream",
		},
	)

	RateLimitLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricelabs_ratelimit_limit",
			Help: "Last x-ratelimit-limit value reported upstream",
		},
	)

	// Dashboard state
	DashboardLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_loads_total",
			Help: "Dashboard data loads by kind (initial, refresh) and outcome",
		},
		[]string{"kind", "outcome"},
	)

	DashboardGroups = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_groups",
			Help: "Number of groups in the current dashboard data",
		},
	)

	// HTTP surface
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route pattern, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// ObserveRateLimit records whichever rate limit headers parse as numbers.
func ObserveRateLimit(info models.RateLimitInfo) {
	if v, err := strconv.ParseFloat(info.Remaining, 64); err == nil {
		RateLimitRemaining.Set(v)
	}
	if v, err := strconv.ParseFloat(info.Limit, 64); err == nil {
		RateLimitLimit.Set(v)
	}
}

// RecordHTTP counts one finished request.
func RecordHTTP(route, method string, status int, seconds float64) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(seconds)
}
