package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbuddy/pkg/utils"
)

type HealthController struct {
	backend utils.BackendClientInterface
	logger  *zap.Logger
}

func NewHealthController(backend utils.BackendClientInterface, logger *zap.Logger) *HealthController {
	return &HealthController{backend: backend, logger: logger}
}

const (
	backendUp      = "up"
	backendDown    = "down"
	backendUnknown = "unknown"
)

// BackendHealthy is omitted when the backend cannot report liveness.
type healthStatus struct {
	Provider       string `json:"provider"`
	BackendStatus  string `json:"backend_status"`
	BackendHealthy *bool  `json:"backend_healthy,omitempty"`
	BackendError   string `json:"backend_error,omitempty"`
}

// GET /healthz
// The service stays usable without the backend, so a failed ping is reported, not fatal.
func (h *HealthController) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := healthStatus{Provider: h.backend.Provider()}
	message := "OK"
	err := h.backend.Ping(ctx)
	switch {
	case err == nil:
		healthy := true
		status.BackendStatus = backendUp
		status.BackendHealthy = &healthy
	case errors.Is(err, utils.ErrPingUnsupported):
		status.BackendStatus = backendUnknown
		message = "Generation backend does not report liveness; its status is unknown"
	default:
		h.logger.Warn("Backend ping failed", zap.Error(err))
		healthy := false
		status.BackendStatus = backendDown
		status.BackendHealthy = &healthy
		status.BackendError = err.Error()
		message = "Generation backend unavailable; itineraries will carry an error marker"
	}
	utils.RespondSuccess(c, status, message)
}
