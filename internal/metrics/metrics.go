// Package metrics registers the Prometheus collectors of the calculator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for price lookup outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeCacheHit    = "cache_hit"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftcalc_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "craftcalc_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// Price lookup metrics
var (
	PriceLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftcalc_price_lookups_total",
			Help: "Price lookups by outcome",
		},
		[]string{"outcome"},
	)

	PriceLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "craftcalc_price_lookup_duration_seconds",
			Help:    "Latency of upstream price lookups",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	PricesUpdatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftcalc_prices_updated_total",
			Help: "Item prices written after a refresh",
		},
		[]string{"line"},
	)
)

// ObservePriceLookup records one upstream lookup
func ObservePriceLookup(outcome string, took time.Duration) {
	PriceLookupsTotal.WithLabelValues(outcome).Inc()
	PriceLookupDuration.Observe(took.Seconds())
}
