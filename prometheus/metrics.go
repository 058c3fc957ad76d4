package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"billing-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	StatusCodeCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category", "method", "path"},
	)

	// Authentication metrics
	AuthAttemptsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "billing_auth_attempts_total",
		Help: "Total number of authentication attempts",
	})

	AuthSuccessCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "billing_auth_success_total",
		Help: "Total number of successful authentications",
	})

	AuthErrorsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "billing_auth_errors_total",
		Help: "Total number of authentication errors",
	})

	// Database operation metrics
	DbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Domain metrics
	InventoryOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_inventory_operations_total",
			Help: "Total number of inventory operations",
		},
		[]string{"operation"},
	)

	BillOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_bill_operations_total",
			Help: "Total number of bill operations",
		},
		[]string{"operation"},
	)

	PurchaseOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_purchase_operations_total",
			Help: "Total number of purchase operations",
		},
		[]string{"operation"},
	)

	PaymentUpdatesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_payment_updates_total",
			Help: "Total number of payment status updates",
		},
		[]string{"document", "status"},
	)

	RevenueTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "billing_revenue_total",
		Help: "Sum of generated bill totals including GST",
	})

	StockLevelGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "billing_stock_items",
			Help: "Number of inventory items per stock level",
		},
		[]string{"level"},
	)
)

var (
	registerOnce sync.Once
	serviceName  = "billing"
)

// InitMetrics registers all collectors with the default registry. Calling it
// more than once is harmless.
func InitMetrics(cfg *config.Config) {
	registerOnce.Do(func() {
		if cfg != nil && cfg.Metrics.Prefix != "" {
			serviceName = cfg.Metrics.Prefix
		}
		prometheus.MustRegister(
			HttpRequestsTotal,
			HttpRequestDuration,
			StatusCodeCategoryCounter,
			AuthAttemptsCounter,
			AuthSuccessCounter,
			AuthErrorsCounter,
			DbOperationDuration,
			InventoryOperationsCounter,
			BillOperationsCounter,
			PurchaseOperationsCounter,
			PaymentUpdatesCounter,
			RevenueTotal,
			StockLevelGauge,
		)
	})
}

// ServiceName returns the service label used on HTTP metrics
func ServiceName() string {
	return serviceName
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

func RecordInventoryOperation(operation string) {
	InventoryOperationsCounter.WithLabelValues(operation).Inc()
}

func RecordBillOperation(operation string) {
	BillOperationsCounter.WithLabelValues(operation).Inc()
}

func RecordPurchaseOperation(operation string) {
	PurchaseOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordPaymentUpdate counts a status change on a bill or purchase
func RecordPaymentUpdate(document, status string) {
	PaymentUpdatesCounter.WithLabelValues(document, status).Inc()
}

// RecordRevenue adds a bill total to the revenue counter
func RecordRevenue(total decimal.Decimal) {
	if total.IsPositive() {
		RevenueTotal.Add(total.InexactFloat64())
	}
}

// SetStockLevels publishes the current low and out-of-stock counts
func SetStockLevels(low, outOfStock int) {
	StockLevelGauge.WithLabelValues("low").Set(float64(low))
	StockLevelGauge.WithLabelValues("out_of_stock").Set(float64(outOfStock))
}
