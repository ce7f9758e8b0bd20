package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/controllers/health"
)

// RegisterHealthRoutes registra /readyz y /livez.
func RegisterHealthRoutes(r chi.Router, c *ctrl.HealthController) {
	r.Get("/readyz", c.Readyz)
	r.Get("/livez", c.Livez)
}
