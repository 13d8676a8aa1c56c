package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics instruments the API on a private registry so that handlers built in
// tests do not collide on the default one.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	previews *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matchday",
				Name:      "http_requests_total",
				Help:      "Total number of API requests by handler, method and status code",
			},
			[]string{"handler", "method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "matchday",
				Name:      "http_request_duration_seconds",
				Help:      "API request latency by handler",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"handler", "method", "code"},
		),
		previews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "matchday",
				Name:      "risk_previews_total",
				Help:      "Uploaded risk workbooks by outcome",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(m.requests, m.duration, m.previews)
	return m
}

// instrument wraps next with request counting and latency observation under
// the given handler label.
func (m *metrics) instrument(name string, next http.HandlerFunc) http.Handler {
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(
		m.duration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels), next),
	)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
