package middleware

import (
	"myBrandStore/pkg/logger"
	"myBrandStore/pkg/metrics"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs each request and records its latency by route template.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start)
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(elapsed.Seconds())

			logger.Debug("request",
				"method", c.Request().Method,
				"route", route,
				"status", status,
				"duration_ms", elapsed.Milliseconds(),
			)

			return nil
		}
	}
}
