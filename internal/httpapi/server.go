package httpapi

import (
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"time"
)

const serverName = "storefront-http"

// NewServer mounts the order routes, /metrics and /healthz.
func NewServer(h *Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// incoming trace context becomes the parent of the service spans
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(serverName)))
	e.Use(middleware.Recover())
	e.Use(observe(m, logger))

	e.POST("/orders", h.CreateOrder)
	e.GET("/orders", h.SearchOrders)
	e.GET("/orders/:id", h.GetOrder)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return e
}

func observe(m *metrics.Metrics, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			elapsed := time.Since(start)
			route := c.Path()

			if m != nil {
				m.ObserveRequest(route, strconv.Itoa(status), elapsed)
			}

			logger.Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("elapsed", elapsed),
			)

			return err
		}
	}
}
