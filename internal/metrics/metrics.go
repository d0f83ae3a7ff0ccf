// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the listening activity it records.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundhall_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soundhall_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "soundhall_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Listening activity
	PlaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "soundhall_plays_total",
			Help: "Total number of recorded play events",
		},
	)

	RatingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundhall_ratings_total",
			Help: "Total number of rating submissions",
		},
		[]string{"result"}, // "created", "updated"
	)

	// Catalog
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundhall_uploads_total",
			Help: "Total number of stored media uploads",
		},
		[]string{"kind"}, // "audio", "album_picture", "playlist_picture", "profile_picture", "track_image"
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "soundhall_upload_bytes_total",
			Help: "Total bytes written for media uploads",
		},
	)

	DeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundhall_deletions_total",
			Help: "Total number of catalog deletions by category",
		},
		[]string{"category"},
	)
)

func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordPlay() {
	PlaysTotal.Inc()
}

func RecordRating(created bool) {
	result := "updated"
	if created {
		result = "created"
	}
	RatingsTotal.WithLabelValues(result).Inc()
}

func RecordUpload(kind string, size int64) {
	UploadsTotal.WithLabelValues(kind).Inc()
	UploadBytes.Add(float64(size))
}

func RecordDeletion(category string) {
	DeletionsTotal.WithLabelValues(category).Inc()
}

// Middleware records request count and latency labelled by the matched chi
// route pattern, so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		APIActiveRequests.Inc()
		defer APIActiveRequests.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordAPIRequest(r.Method, routePattern(r), strconv.Itoa(status), time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
