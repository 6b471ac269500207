package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediabridge/gateway/common/ratelimit"
)

// LoginRateLimit throttles login attempts per caller. The key is the
// basic-auth username when present, the client IP otherwise, so a
// credential-stuffing run against one account cannot hide behind many
// addresses. A nil limiter disables throttling.
func LoginRateLimit(limiter *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			key := c.RealIP()
			if username, _, ok := c.Request().BasicAuth(); ok && username != "" {
				key = username
			}

			if !limiter.Allow(c.Request().Context(), key) {
				return c.String(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}
