// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/http/helpers"
	svc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/health"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response := c.service.Check(ctx)

	if response.Version != "" {
		w.Header().Set("X-Service-Version", response.Version)
	}
	status := http.StatusOK
	if response.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}

	logger.From(ctx).Debug("health check completed",
		logger.Layer("controller"),
		logger.Op("HealthController.Readyz"),
		logger.String("status", response.Status),
	)
	helpers.WriteJSON(w, status, response)
}

// Livez maneja GET /livez: el proceso responde.
func (c *HealthController) Livez(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
