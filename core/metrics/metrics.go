// Package metrics exposes Prometheus metrics for the static file server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "autoindex"

// Metrics holds the collectors registered on one registry.
// It satisfies static.Recorder.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	lookupsTotal        *prometheus.CounterVec
	listingsTotal       *prometheus.CounterVec
	listingEntries      *prometheus.HistogramVec
	listingDuration     *prometheus.HistogramVec
}

// New registers the collectors on reg. Passing nil uses a fresh registry,
// which keeps tests isolated from the global default one.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		lookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Path lookups by verdict and whether the result was shared with a concurrent request",
			},
			[]string{"verdict", "shared"},
		),
		listingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listings_total",
				Help:      "Generated directory listings",
			},
			[]string{"format"},
		),
		listingEntries: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "listing_entries",
				Help:      "Number of entries per generated listing",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"format"},
		),
		listingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "listing_duration_seconds",
				Help:      "Time to enumerate and stat a directory",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),
	}
}

// Handler returns the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request metric.
func (m *Metrics) RecordHTTPRequest(method string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveLookup records one path resolution outcome.
func (m *Metrics) ObserveLookup(verdict string, shared bool) {
	m.lookupsTotal.WithLabelValues(verdict, strconv.FormatBool(shared)).Inc()
}

// ObserveListing records one generated listing.
func (m *Metrics) ObserveListing(format string, entries int, took time.Duration) {
	m.listingsTotal.WithLabelValues(format).Inc()
	m.listingEntries.WithLabelValues(format).Observe(float64(entries))
	m.listingDuration.WithLabelValues(format).Observe(took.Seconds())
}
