package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_completed_total",
		Help: "Total number of successfully completed checkouts",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	CheckoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "End-to-end checkout processing latency",
		Buckets: prometheus.DefBuckets,
	})

	CartValidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_validations_total",
		Help: "Total number of validate-only cart checks",
	})

	OrdersRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_recorded_total",
		Help: "Total number of orders appended to user histories",
	})

	UsersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_created_total",
		Help: "Total number of user accounts created on first checkout",
	})

	ExternalCatalogRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "external_catalog_request_duration_seconds",
		Help:    "Latency of Fake Store API requests",
		Buckets: prometheus.DefBuckets,
	})

	ExternalCatalogFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "external_catalog_failures_total",
		Help: "Total number of failed Fake Store API requests",
	})

	ProductCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_cache_hits_total",
		Help: "Product listing cache lookups by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
