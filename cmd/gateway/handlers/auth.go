package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediabridge/gateway/common/clients"
	"github.com/mediabridge/gateway/common/logger"
)

// CredentialDelegator forwards a login attempt to the auth authority
type CredentialDelegator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles credential delegation
type AuthHandler struct {
	delegator CredentialDelegator
	log       *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(delegator CredentialDelegator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		delegator: delegator,
		log:       log,
	}
}

// Login relays basic-auth credentials to the auth authority and returns
// its verdict unchanged: the opaque token body on success, the authority's
// own status and body on rejection.
// POST /login
func (h *AuthHandler) Login(c echo.Context) error {
	username, password, ok := c.Request().BasicAuth()
	if !ok {
		// No network call for requests that never carried credentials
		return c.String(http.StatusUnauthorized, "missing credentials")
	}

	token, err := h.delegator.Login(c.Request().Context(), username, password)
	if err != nil {
		var verdict *clients.LoginVerdict
		if errors.As(err, &verdict) {
			return c.String(verdict.Status, verdict.Body)
		}
		h.log.Error("login delegation failed", "user", username, "error", err)
		return c.String(http.StatusInternalServerError, "internal server error")
	}

	return c.String(http.StatusOK, token)
}
