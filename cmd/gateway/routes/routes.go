package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/mediabridge/gateway/cmd/gateway/container"
	"github.com/mediabridge/gateway/cmd/gateway/middleware"
)

// Register wires all gateway routes onto the echo instance
func Register(e *echo.Echo, ctn *container.Container) {
	log := ctn.Components.Logger

	// Login carries its own credentials; no bearer token required
	e.POST("/login", ctn.AuthHandler.Login, middleware.LoginRateLimit(ctn.LoginLimiter))

	// Health is unauthenticated for probes
	e.GET("/health", ctn.HealthHandler.Check)

	// Everything else requires a resolvable identity
	authed := e.Group("", middleware.Authenticate(ctn.AuthClient, log))
	authed.POST("/upload", ctn.MediaHandler.Upload)
	authed.GET("/download", ctn.MediaHandler.Download)
}
