// Package observability exposes Prometheus metrics for the web app.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matclub",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method and status class.",
	}, []string{"method", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matclub",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	checkinsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matclub",
		Subsystem: "attendance",
		Name:      "checkins_total",
		Help:      "Check-in attempts, by outcome.",
	}, []string{"outcome"})

	activeSessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matclub",
		Subsystem: "auth",
		Name:      "sessions_cleaned_timestamp_seconds",
		Help:      "Unix timestamp of the last session cleanup sweep.",
	})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, checkinsTotal, activeSessionsGauge)
}

// Check-in outcomes.
const (
	CheckInOK        = "ok"
	CheckInDuplicate = "duplicate"
	CheckInRejected  = "rejected"
	CheckInError     = "error"
)

// RecordCheckIn counts a check-in attempt by outcome.
func RecordCheckIn(outcome string) {
	checkinsTotal.WithLabelValues(outcome).Inc()
}

// RecordSessionCleanup updates the session cleanup watermark gauge.
func RecordSessionCleanup(ts time.Time) {
	activeSessionsGauge.Set(float64(ts.Unix()))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments an HTTP handler with request count and latency
// metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		statusClass := strconv.Itoa(rec.status/100) + "xx"
		httpRequestsTotal.WithLabelValues(r.Method, statusClass).Inc()
		httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
