// Package metrics defines Prometheus metrics for korzina.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "korzina"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "health_up",
		Help:      "1 when the last health check reached the offer store, 0 otherwise.",
	})
)

// Search metrics.
var (
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of shop searches including the catalog load.",
		Buckets:   prometheus.DefBuckets,
	})

	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of shop searches by outcome.",
	}, []string{"outcome"})

	ItemsMatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_matched_total",
		Help:      "Shopping list items in winning solutions by match kind.",
	}, []string{"kind"})

	SellersEvaluated = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sellers_evaluated",
		Help:      "Number of sellers evaluated per search.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// Offer store metrics.
var (
	OffersLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "offers_loaded",
		Help:      "Number of offers in the last catalog snapshot.",
	})

	StoreErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed offer store calls.",
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_hits_total",
		Help:      "Catalog snapshot cache hits.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_misses_total",
		Help:      "Catalog snapshot cache misses.",
	})
)

// Search outcome label values.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)
