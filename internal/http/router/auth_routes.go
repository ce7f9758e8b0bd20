package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/controllers/auth"
	mw "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/middlewares"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/rate"
)

// AuthRouterDeps contiene las dependencias para las rutas de auth.
type AuthRouterDeps struct {
	Controllers  *ctrl.Controllers
	Validator    mw.PrincipalValidator
	LoginLimiter rate.Limiter
}

// RegisterAuthRoutes registra las rutas bajo BasePath.
func RegisterAuthRoutes(r chi.Router, deps AuthRouterDeps) {
	c := deps.Controllers

	r.Route(BasePath, func(r chi.Router) {
		r.Use(mw.WithNoStore())

		// POST /user/token (rate limit por IP)
		r.With(mw.WithRateLimit(deps.LoginLimiter, mw.IPPathRateKey)).
			Post("/user/token", c.Token.Issue)

		// GET /user/token/validate
		r.Get("/user/token/validate", c.Validate.Validate)

		// GET /user/me (requiere principal)
		if deps.Validator != nil {
			r.With(mw.WithPrincipal(deps.Validator), mw.RequireUser()).
				Get("/user/me", c.Me.Me)
		}
	})
}
