package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmiq_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// MarketCacheHits counts market price cache hits.
	MarketCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmiq_market_cache_hits_total",
		Help: "Total number of market price cache hits",
	})

	// MarketCacheMisses counts market price cache misses.
	MarketCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmiq_market_cache_misses_total",
		Help: "Total number of market price cache misses",
	})

	// MarketCacheEvictions counts LRU evictions from the market price cache.
	MarketCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmiq_market_cache_evictions_total",
		Help: "Total number of LRU evictions from the market price cache",
	})

	// UpstreamFailures counts proxied upstream request failures by service and kind.
	UpstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmiq_upstream_failures_total",
		Help: "Total number of upstream request failures by service and failure kind",
	}, []string{"service", "kind"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The underlying collectors register with the default registry, so repeated
// calls return the first instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware returns the request instrumentation handler for a
// previously initialized Prometheus middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
