package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediabridge/gateway/cmd/gateway/service"
	"github.com/mediabridge/gateway/common/logger"
)

// HealthHandler reports gateway liveness
type HealthHandler struct {
	pipeline *service.GatewayService
	log      *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pipeline *service.GatewayService, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		pipeline: pipeline,
		log:      log,
	}
}

// Check probes the blob store and queue connections synchronously.
// GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	if err := h.pipeline.Health(c.Request().Context()); err != nil {
		h.log.Error("health check failed", "error", err)
		return c.String(http.StatusServiceUnavailable, "Service Unavailable")
	}
	return c.String(http.StatusOK, "OK")
}
