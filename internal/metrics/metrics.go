// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Uploads counts image uploads by backend and result.
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artfolio",
		Name:      "uploads_total",
		Help:      "Image uploads by backend and result.",
	}, []string{"backend", "result"})

	// UploadDuration observes upload latency by backend.
	UploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "artfolio",
		Name:      "upload_duration_seconds",
		Help:      "Image upload latency by backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend"})

	// StoreOps counts record store operations by collection, operation and result.
	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artfolio",
		Name:      "store_operations_total",
		Help:      "Record store operations by collection, operation and result.",
	}, []string{"collection", "op", "result"})

	// HTTPRequests counts handled requests by route, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artfolio",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "artfolio",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// Result 将错误折算为 ok/error 标签
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
