package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediabridge/gateway/common/clients"
	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

// validatorFunc adapts a function to the TokenValidator interface
type validatorFunc func(ctx context.Context, rawToken string) (models.Claims, error)

func (f validatorFunc) Validate(ctx context.Context, rawToken string) (models.Claims, error) {
	return f(ctx, rawToken)
}

func runAuthenticated(t *testing.T, validator TokenValidator, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerCalled := false
	handler := Authenticate(validator, logger.New("error", "json"))(func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, handlerCalled
}

func TestAuthenticate_ValidToken(t *testing.T) {
	validator := validatorFunc(func(_ context.Context, rawToken string) (models.Claims, error) {
		assert.Equal(t, "tok123", rawToken)
		return models.Claims{Admin: true, Username: "alice"}, nil
	})

	rec, called := runAuthenticated(t, validator, "Bearer tok123")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	validator := validatorFunc(func(_ context.Context, rawToken string) (models.Claims, error) {
		if rawToken == "" {
			return models.Claims{}, fmt.Errorf("%w: missing token", clients.ErrUnauthenticated)
		}
		return models.Claims{}, nil
	})

	rec, called := runAuthenticated(t, validator, "")
	assert.False(t, called, "handler must not run without identity")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", rec.Body.String())
}

func TestAuthenticate_RejectedToken(t *testing.T) {
	validator := validatorFunc(func(context.Context, string) (models.Claims, error) {
		return models.Claims{}, clients.ErrUnauthenticated
	})

	rec, called := runAuthenticated(t, validator, "Bearer expired")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ClaimsDecodeFailure(t *testing.T) {
	validator := validatorFunc(func(context.Context, string) (models.Claims, error) {
		return models.Claims{}, models.ErrClaimsDecode
	})

	rec, called := runAuthenticated(t, validator, "Bearer tok123")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_UpstreamFailure(t *testing.T) {
	validator := validatorFunc(func(context.Context, string) (models.Claims, error) {
		return models.Claims{}, errors.New("connection refused")
	})

	rec, called := runAuthenticated(t, validator, "Bearer tok123")
	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetClaims(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := GetClaims(c)
	assert.False(t, ok)

	c.Set(string(ClaimsKey), models.Claims{Admin: true})
	claims, ok := GetClaims(c)
	require.True(t, ok)
	assert.True(t, claims.Admin)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer tok123", "tok123"},
		{"bearer tok123", "tok123"},
		{"tok123", "tok123"},
		{"Bearer   tok123  ", "tok123"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, bearerToken(req), "header %q", tt.header)
	}
}
