package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	FetchesTotal        *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	ArticlesSkipped     *prometheus.CounterVec
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_fetches_total",
			Help: "Total number of article fetch attempts.",
		},
		[]string{"status", "error_kind"}, // status: success, error
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "article_fetch_duration_seconds",
			Help:    "Duration of article fetch operations.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"domain"},
	)

	ArticlesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_skipped_total",
			Help: "Articles skipped without a fetch attempt.",
		},
		[]string{"reason"}, // duplicate, too_old, limit_reached
	)
}
