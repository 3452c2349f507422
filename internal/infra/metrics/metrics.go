// Package metrics exposes Prometheus collectors for the marketplace.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"agrimarket/config"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace   = "agrimarket"
	defaultPath = "/metrics"
)

// Collector owns a private registry so tests and multiple binaries never collide.
type Collector struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	orderLines     prometheus.Counter
	orderActions   *prometheus.CounterVec
	otpIssued      *prometheus.CounterVec
	publishFailure *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
		orderLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "lines_placed_total",
			Help:      "Order lines created by checkout.",
		}),
		orderActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "actions_total",
				Help:      "Seller and buyer decisions on order lines.",
			},
			[]string{"status"},
		),
		otpIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "otp_issued_total",
				Help:      "One-time passwords issued.",
			},
			[]string{"purpose"},
		),
		publishFailure: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "publish_failures_total",
				Help:      "Order events that could not be handed to the broker.",
			},
			[]string{"type"},
		),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.orderLines,
		c.orderActions,
		c.otpIssued,
		c.publishFailure,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return c
}

// AsMarketMetrics exposes the collector through the domain interface.
func AsMarketMetrics(c *Collector) service.MarketMetrics {
	return c
}

func (c *Collector) OrderLinesPlaced(count int) {
	c.orderLines.Add(float64(count))
}

func (c *Collector) OrderActioned(status string) {
	c.orderActions.WithLabelValues(status).Inc()
}

func (c *Collector) OTPIssued(purpose string) {
	c.otpIssued.WithLabelValues(purpose).Inc()
}

func (c *Collector) EventPublishFailed(eventType string) {
	c.publishFailure.WithLabelValues(eventType).Inc()
}

// RegisterDBStats exports connection pool statistics of db under the given name.
func (c *Collector) RegisterDBStats(db *sql.DB, name string) error {
	return errors.Wrap(c.registry.Register(collectors.NewDBStatsCollector(db, name)), "failed to register db stats collector")
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Mount exposes the registry on e when cfg enables it and reports whether it did.
func (c *Collector) Mount(e *echo.Echo, cfg *config.MetricsConfig) bool {
	if c == nil || cfg == nil || !cfg.Enabled {
		return false
	}

	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	e.GET(path, echo.WrapHandler(c.Handler()))

	return true
}

// Middleware records request count and latency per matched route.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				status = statusOf(err)
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			method := ctx.Request().Method
			c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			c.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// statusOf predicts the status the error handler will write, which runs after this middleware.
func statusOf(err error) int {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	return http.StatusInternalServerError
}
