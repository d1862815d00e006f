package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// PostsCreated counts posts created since process start.
	PostsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_posts_created_total",
			Help: "Total number of posts created",
		},
	)

	// PostsDeleted counts posts deleted since process start.
	PostsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_posts_deleted_total",
			Help: "Total number of posts deleted",
		},
	)

	// ImagesSwept counts orphaned image files removed by the sweep job.
	ImagesSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "images_swept_total",
			Help: "Total number of orphaned image files removed by the sweeper",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, PostsCreated, PostsDeleted, ImagesSwept)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /feed/post/123 -> /feed/post/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}
