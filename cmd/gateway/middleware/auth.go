package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mediabridge/gateway/common/clients"
	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ClaimsKey is the context key for the authenticated caller's claims
const ClaimsKey ContextKey = "claims"

// TokenValidator turns a raw bearer token into claims
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (models.Claims, error)
}

// Authenticate resolves the bearer token on every request through the
// validator and stores the resulting claims in the echo context. Requests
// without a decodable identity never reach the handler.
func Authenticate(validator TokenValidator, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())

			claims, err := validator.Validate(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, clients.ErrUnauthenticated), errors.Is(err, models.ErrClaimsDecode):
					log.Debug("request rejected", "path", c.Path(), "error", err)
					return c.String(http.StatusUnauthorized, "invalid token")
				default:
					// Auth authority unreachable; don't leak detail
					log.Error("token validation failed upstream", "path", c.Path(), "error", err)
					return c.String(http.StatusInternalServerError, "internal server error")
				}
			}

			c.Set(string(ClaimsKey), claims)
			return next(c)
		}
	}
}

// GetClaims retrieves the authenticated claims from the request context
func GetClaims(c echo.Context) (models.Claims, bool) {
	claims, ok := c.Get(string(ClaimsKey)).(models.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	// Tolerate a bare token; the authority decides whether it's valid
	return strings.TrimSpace(header)
}
