// Package middleware holds echo middleware.
package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// CharmLog logs every request through the global charmbracelet logger.
// Server errors are logged at error level, everything else at debug level.
func CharmLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"took", time.Since(start),
			}
			if status >= 500 {
				log.Error("request", append(fields, "err", err)...)
			} else {
				log.Debug("request", fields...)
			}
			return nil
		}
	}
}
