package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printshop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printshop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printshop_orders_created_total",
			Help: "Orders created, by payment method",
		},
		[]string{"payment_method"},
	)

	PaymentsReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printshop_payments_reconciled_total",
			Help: "Orders flipped to paid, by confirmation source",
		},
		[]string{"source"},
	)

	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printshop_gateway_calls_total",
			Help: "Payment gateway calls, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	WalletCredits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printshop_wallet_credits_total",
			Help: "Completed wallet top-ups, by method",
		},
		[]string{"method"},
	)
)

// Middleware records request count and latency per matched route. statusOf
// resolves the status an error will be rendered with, since the error handler
// runs after this middleware returns.
func Middleware(statusOf func(error) int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		route := c.Route().Path
		code := strconv.Itoa(status)
		HTTPRequestsTotal.WithLabelValues(c.Method(), route, code).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), route, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func GatewayOutcome(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GatewayCalls.WithLabelValues(op, outcome).Inc()
}
