// Package metrics provides Prometheus metrics for the stamp catalog.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rwreynolds/stampcollect/internal/models"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stamp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stamp_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stamp_http_rate_limited_total",
			Help: "Requests rejected by the API rate limiter",
		},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stamp_store_operation_duration_seconds",
			Help:    "Time spent in stamp store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stamp_store_errors_total",
			Help: "Stamp store operations that returned a storage error",
		},
		[]string{"operation"},
	)

	// Search Cache Metrics
	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stamp_search_cache_hits_total",
			Help: "Search cache hit count",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stamp_search_cache_misses_total",
			Help: "Search cache miss count",
		},
	)

	// Collection Metrics
	CollectionStampsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stamp_collection_stamps_total",
			Help: "Total number of stamp records in the collection",
		},
	)

	CollectionStampsByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stamp_collection_stamps_by_state",
			Help: "Number of stamp records by used/mint state",
		},
		[]string{"state"}, // "used" or "mint"
	)

	CollectionCountries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stamp_collection_countries",
			Help: "Number of distinct countries in the collection",
		},
	)

	CollectionCatalogValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stamp_collection_catalog_value",
			Help: "Total catalog value of the collection",
		},
	)

	CollectionWantListItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stamp_collection_want_list_items",
			Help: "Number of records flagged as wanted",
		},
	)

	CollectionForSaleItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stamp_collection_for_sale_items",
			Help: "Number of records flagged for sale",
		},
	)
)

// SetCollectionStats publishes a statistics snapshot to the collection gauges.
// The catalog value is exported as a float; it is for dashboards only.
func SetCollectionStats(stats models.CollectionStats) {
	CollectionStampsTotal.Set(float64(stats.TotalStamps))
	CollectionStampsByState.WithLabelValues("used").Set(float64(stats.UsedStamps))
	CollectionStampsByState.WithLabelValues("mint").Set(float64(stats.MintStamps))
	CollectionCountries.Set(float64(stats.Countries))
	CollectionCatalogValue.Set(stats.TotalCatalogValue.InexactFloat64())
	CollectionWantListItems.Set(float64(stats.WantListItems))
	CollectionForSaleItems.Set(float64(stats.ForSaleItems))
}
