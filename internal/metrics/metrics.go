// Package metrics Prometheus 指标定义
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of tag/ingredient cache hits",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of tag/ingredient cache misses",
		},
	)

	RecipeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_events_total",
			Help: "Recipe lifecycle events by type and publish result",
		},
		[]string{"type", "result"},
	)

	SearchFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_search_db_fallbacks_total",
			Help: "Searches served by the database because the index was unavailable or failed",
		},
	)
)

// RecordAPIRequest 记录一次 API 请求
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup 记录目录缓存命中情况
func RecordCacheLookup(hit bool) {
	if hit {
		CatalogCacheHits.Inc()
		return
	}
	CatalogCacheMisses.Inc()
}

// RecordRecipeEvent 记录事件发布结果
func RecordRecipeEvent(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	RecipeEventsTotal.WithLabelValues(eventType, result).Inc()
}
