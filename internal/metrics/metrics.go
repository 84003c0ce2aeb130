// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "creator_support",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_support",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creator_support",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	signups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "creator_support",
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Total number of accounts created.",
		},
	)

	signins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_support",
			Subsystem: "auth",
			Name:      "signins_total",
			Help:      "Sign-in attempts by outcome.",
		},
		[]string{"outcome"},
	)

	donations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "creator_support",
			Subsystem: "donations",
			Name:      "created_total",
			Help:      "Total number of donations recorded.",
		},
	)

	donationAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "creator_support",
			Subsystem: "donations",
			Name:      "amount_total",
			Help:      "Sum of donated amounts.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		signups,
		signins,
		donations,
		donationAmount,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request as in flight.
func RequestStarted() { httpInFlight.Inc() }

// RequestFinished records a completed request.
func RequestFinished(method, path, status string, seconds float64) {
	httpInFlight.Dec()
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordSignup counts a created account.
func RecordSignup() { signups.Inc() }

// RecordSignin counts a sign-in attempt with outcome "success" or "failure".
func RecordSignin(outcome string) { signins.WithLabelValues(outcome).Inc() }

// RecordDonation counts a donation and adds its amount.
func RecordDonation(amount float64) {
	donations.Inc()
	if amount > 0 {
		donationAmount.Add(amount)
	}
}
