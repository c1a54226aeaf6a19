package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"storefront-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_register_total",
			Help: "Total number of customer registrations",
		},
	)

	// Domain resolution counter
	DomainResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_domain_resolutions_total",
			Help: "Total number of domain-to-product resolutions",
		},
		[]string{"result"}, // "hit" or "miss"
	)

	// Catalog operation counter by entity and operation
	CatalogOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_operations_total",
			Help: "Total number of catalog operations",
		},
		[]string{"entity", "operation"},
	)

	// Order operation counter
	OrderOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"}, // "create", "cancel", "status_update", "list", "access"
	)

	// User management operation counter
	UserOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_user_operations_total",
			Help: "Total number of user management operations",
		},
		[]string{"operation"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_info",
			Help: "Information about the storefront service",
		},
		[]string{"version", "environment"},
	)

	// Orders per product
	OrdersPerProductGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_orders_per_product",
			Help: "Number of orders per product",
		},
		[]string{"product_id"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(DomainResolutionCounter)
	prometheus.MustRegister(CatalogOperationCounter)
	prometheus.MustRegister(OrderOperationCounter)
	prometheus.MustRegister(UserOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)
	prometheus.MustRegister(OrdersPerProductGauge)
}

// InitMetrics records static service information from configuration
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{
		"version":     "1.0.0",
		"environment": cfg.Server.Env,
	}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens decrements the active tokens gauge
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordDomainResolution records a domain resolution outcome
func RecordDomainResolution(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	DomainResolutionCounter.With(prometheus.Labels{"result": result}).Inc()
}

// RecordCatalogOperation records a catalog operation by entity
func RecordCatalogOperation(entity, operation string) {
	CatalogOperationCounter.With(prometheus.Labels{"entity": entity, "operation": operation}).Inc()
}

// RecordOrderOperation records an order operation by type
func RecordOrderOperation(operation string) {
	OrderOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordUserOperation records a user management operation by type
func RecordUserOperation(operation string) {
	UserOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// UpdateOrdersPerProduct updates the orders per product gauge
func UpdateOrdersPerProduct(productID uint, count int) {
	OrdersPerProductGauge.With(prometheus.Labels{
		"product_id": strconv.FormatUint(uint64(productID), 10),
	}).Set(float64(count))
}
