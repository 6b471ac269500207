package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediabridge/gateway/common/config"
	"github.com/mediabridge/gateway/common/logger"
	"github.com/mediabridge/gateway/common/models"
)

func newTestAuthClient(t *testing.T, handler http.HandlerFunc) *AuthClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Auth.Address = strings.TrimPrefix(srv.URL, "http://")
	cfg.Auth.Timeout = 2 * time.Second

	return NewAuthClient(cfg, logger.New("error", "json"))
}

func TestLogin_Success(t *testing.T) {
	client := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "secret", password)
		w.Write([]byte("tok123"))
	})

	token, err := client.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestLogin_VerdictPropagated(t *testing.T) {
	client := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("bad credentials"))
	})

	_, err := client.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)

	var verdict *LoginVerdict
	require.ErrorAs(t, err, &verdict)
	assert.Equal(t, http.StatusForbidden, verdict.Status)
	assert.Equal(t, "bad credentials", verdict.Body)
}

func TestLogin_Unreachable(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.Address = "127.0.0.1:1"
	cfg.Auth.Timeout = 200 * time.Millisecond
	client := NewAuthClient(cfg, logger.New("error", "json"))

	_, err := client.Login(context.Background(), "admin", "secret")
	require.Error(t, err)

	var verdict *LoginVerdict
	assert.False(t, errors.As(err, &verdict), "transport failures must not look like authority verdicts")
}

func TestValidate_AdminClaims(t *testing.T) {
	client := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"admin": true, "username": "alice"}`))
	})

	claims, err := client.Validate(context.Background(), "tok123")
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidate_MissingToken(t *testing.T) {
	called := false
	client := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Validate(context.Background(), "  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, called, "missing token must be rejected locally")
}

func TestValidate_RejectedByAuthority(t *testing.T) {
	client := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid token"))
	})

	_, err := client.Validate(context.Background(), "expired")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidate_UndecodableClaims(t *testing.T) {
	client := newTestAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"username": "no-admin-field"}`))
	})

	_, err := client.Validate(context.Background(), "tok123")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrClaimsDecode)
}
