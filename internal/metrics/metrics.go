// Package metrics holds the Prometheus collectors shared by the services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcast_http_requests_total",
		Help: "HTTP requests served, by service, method, route and status.",
	}, []string{"service", "method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podcast_http_request_duration_seconds",
		Help:    "HTTP request latency by service, method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "method", "route"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcast_cache_lookups_total",
		Help: "Generation cache lookups by kind and result (hit, miss, stale, error).",
	}, []string{"kind", "result"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podcast_generation_duration_seconds",
		Help:    "Time spent in each generation stage (script, research, audio).",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"kind", "stage"})

	SpeechSegments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podcast_speech_segments_total",
		Help: "Synthesized podcast turns by outcome.",
	}, []string{"outcome"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
