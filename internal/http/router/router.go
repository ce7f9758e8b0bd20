// Package router arma el árbol de rutas HTTP del gateway sobre chi.
package router

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/controllers/auth"
	healthctrl "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/controllers/health"
	httperrors "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/errors"
	mw "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/middlewares"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/rate"
)

// BasePath del API de autenticación.
const BasePath = "/api/kcs_v1/v1/auth"

// Deps contiene todas las dependencias del router.
type Deps struct {
	AuthControllers  *authctrl.Controllers
	HealthController *healthctrl.HealthController

	// Validator alimenta el filtro WithPrincipal de las rutas protegidas.
	Validator mw.PrincipalValidator
	// LoginLimiter es opcional (nil = sin rate limit).
	LoginLimiter rate.Limiter
	// MetricsHandler es opcional (nil = sin /metrics).
	MetricsHandler http.Handler

	CORSAllowedOrigins []string
	// TrustedProxies habilita X-Forwarded-For solo para esos peers.
	TrustedProxies []*net.IPNet
}

// New devuelve el handler raíz con los middlewares globales aplicados.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithClientIP(deps.TrustedProxies),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(deps.CORSAllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.New(http.StatusNotFound, "NOT_FOUND", "Resource not found."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if deps.HealthController != nil {
		RegisterHealthRoutes(r, deps.HealthController)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	if deps.AuthControllers != nil {
		RegisterAuthRoutes(r, AuthRouterDeps{
			Controllers:  deps.AuthControllers,
			Validator:    deps.Validator,
			LoginLimiter: deps.LoginLimiter,
		})
	}
	return r
}
