package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartOperationsTotal counts cart mutations by operation and outcome.
	CartOperationsTotal *prometheus.CounterVec
	// DeliveryQuotesTotal counts delivery fee quotes by outcome.
	DeliveryQuotesTotal *prometheus.CounterVec
	// OrderSummariesTotal counts rendered order hand-off messages by service type.
	OrderSummariesTotal *prometheus.CounterVec
	// CatalogCacheTotal counts catalog lookups served from cache or upstream.
	CatalogCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartOperationsTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Count of cart operations by outcome.",
		}, []string{"op", "result"}))
		DeliveryQuotesTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_quotes_total",
			Help:      "Count of delivery fee quotes by outcome.",
		}, []string{"result"}))
		OrderSummariesTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_summaries_total",
			Help:      "Count of order summaries handed off, by service type.",
		}, []string{"service"}))
		CatalogCacheTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Count of catalog lookups by cache result.",
		}, []string{"result"}))
	})
}

// IncCartOperation records a cart operation outcome when metrics are registered.
func IncCartOperation(op, result string) {
	if CartOperationsTotal != nil {
		CartOperationsTotal.WithLabelValues(op, result).Inc()
	}
}

// IncDeliveryQuote records a delivery quote outcome when metrics are registered.
func IncDeliveryQuote(result string) {
	if DeliveryQuotesTotal != nil {
		DeliveryQuotesTotal.WithLabelValues(result).Inc()
	}
}

// IncOrderSummary records a rendered order summary when metrics are registered.
func IncOrderSummary(service string) {
	if OrderSummariesTotal != nil {
		OrderSummariesTotal.WithLabelValues(service).Inc()
	}
}

// IncCatalogCache records a catalog cache hit or miss when metrics are registered.
func IncCatalogCache(result string) {
	if CatalogCacheTotal != nil {
		CatalogCacheTotal.WithLabelValues(result).Inc()
	}
}
