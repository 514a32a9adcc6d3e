package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MessagesStoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_stored_total",
			Help: "Total number of messages appended to chat logs.",
		},
	)

	RelayFramesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_frames_total",
			Help: "Total number of frames fanned out by the realtime relay.",
		},
	)

	LinksRepairedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_links_repaired_total",
			Help: "Total number of one-sided contact links repaired.",
		},
	)
)

// Register installs all collectors on the default registry.
func Register() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		MessagesStoredTotal,
		RelayFramesTotal,
		LinksRepairedTotal,
	)
}
