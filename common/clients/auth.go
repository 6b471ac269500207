package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mediabridge/gateway/common/config"
	"github.com/mediabridge/gateway/common/models"
)

// Logger interface for auth client logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// ErrUnauthenticated is returned when a credential or token is missing,
// malformed, or rejected by the auth authority
var ErrUnauthenticated = errors.New("unauthenticated")

// LoginVerdict is the auth authority's non-200 answer to a login attempt.
// The gateway relays it to the caller unchanged.
type LoginVerdict struct {
	Status int
	Body   string
}

func (v *LoginVerdict) Error() string {
	return fmt.Sprintf("auth service rejected login: status=%d body=%s", v.Status, v.Body)
}

// AuthClient delegates credential checks and token introspection to the
// external auth authority. The gateway never mints or inspects tokens itself.
type AuthClient struct {
	loginURL    string
	validateURL string
	http        *http.Client
	logger      Logger
}

// NewAuthClient creates a client for the configured auth authority
func NewAuthClient(cfg *config.Config, logger Logger) *AuthClient {
	return &AuthClient{
		loginURL:    cfg.AuthLoginURL(),
		validateURL: cfg.AuthValidateURL(),
		http: &http.Client{
			Timeout: cfg.Auth.Timeout,
		},
		logger: logger,
	}
}

// Login forwards the basic-auth pair to the authority's login endpoint.
// A 200 answer yields the opaque token body verbatim. Any other answer is
// returned as a *LoginVerdict so the handler can relay status and body
// untouched. Transport failures are wrapped as plain errors.
func (c *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, nil)
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.SetBasicAuth(username, password)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("auth service unreachable", "url", c.loginURL, "error", err)
		return "", fmt.Errorf("auth service login: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("login rejected by auth service", "user", username, "status", resp.StatusCode)
		return "", &LoginVerdict{Status: resp.StatusCode, Body: string(body)}
	}

	c.logger.Info("login delegated successfully", "user", username)
	return string(body), nil
}

// Validate asks the authority to introspect a bearer token and decodes the
// claims it returns. Missing or rejected tokens map to ErrUnauthenticated,
// an unparseable claims payload to models.ErrClaimsDecode.
func (c *AuthClient) Validate(ctx context.Context, rawToken string) (models.Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return models.Claims{}, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.validateURL, nil)
	if err != nil {
		return models.Claims{}, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("auth service unreachable", "url", c.validateURL, "error", err)
		return models.Claims{}, fmt.Errorf("auth service validate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Claims{}, fmt.Errorf("read validate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("token rejected by auth service", "status", resp.StatusCode)
		return models.Claims{}, fmt.Errorf("%w: %s", ErrUnauthenticated, strings.TrimSpace(string(body)))
	}

	claims, err := models.DecodeClaims(body)
	if err != nil {
		c.logger.Error("auth service returned undecodable claims", "error", err)
		return models.Claims{}, err
	}

	return claims, nil
}
