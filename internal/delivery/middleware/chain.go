// Package middleware holds the echo middleware shared by the API and the notifier.
package middleware

import (
	"log/slog"

	"agrimarket/config"
	"agrimarket/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// UseBase installs the chain every server starts with. Order matters: the
// request ID must exist before the access log and metrics see the request.
func UseBase(e *echo.Echo, cfg *config.Config, logger *slog.Logger, collector *metrics.Collector) {
	e.Use(echomiddleware.Recover())
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger, cfg).Handle)
	if collector != nil {
		e.Use(collector.Middleware())
	}
	if limit := cfg.HTTP.MaxRequestBodySize; limit != "" {
		e.Use(echomiddleware.BodyLimit(limit))
	}
}
