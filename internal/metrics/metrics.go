package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetrack",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codetrack",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "codetrack",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	// RemindersSent counts reminder mails by kind ("before" or "start") and outcome.
	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetrack",
		Name:      "reminder_mails_total",
		Help:      "Reminder mails attempted by the task sweep",
	}, []string{"kind", "outcome"})

	// SweepDuration observes how long one reminder sweep takes.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "codetrack",
		Name:      "reminder_sweep_duration_seconds",
		Help:      "Duration of a reminder sweep tick",
		Buckets:   prometheus.DefBuckets,
	})

	// SweepsSkipped counts ticks that did not run because another replica held the lease.
	SweepsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codetrack",
		Name:      "reminder_sweeps_skipped_total",
		Help:      "Reminder sweeps skipped because the lease was held elsewhere",
	})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request metrics labelled by chi route pattern, which
// keeps ids out of the label set.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
