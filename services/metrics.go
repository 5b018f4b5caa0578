package services

import "github.com/prometheus/client_golang/prometheus"

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "GitHub GraphQL calls by outcome",
		},
		[]string{"outcome"},
	)
	upstreamRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of GitHub GraphQL calls",
			Buckets: prometheus.DefBuckets,
		},
	)
	calendarCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_cache_lookups_total",
			Help: "Contribution calendar cache lookups",
		},
		[]string{"result"},
	)
	badgesRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_rendered_total",
			Help: "Rendered badges by theme and layout",
		},
		[]string{"theme", "layout"},
	)
)

// InitPrometheus registers the service metrics. Call this once from main.
func InitPrometheus() {
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(upstreamRequestDuration)
	prometheus.MustRegister(calendarCacheLookups)
	prometheus.MustRegister(badgesRendered)
}
