package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
	httperrors "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/errors"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/jwt"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

// PrincipalValidator es lo que el filtro necesita del jwt.Validator.
type PrincipalValidator interface {
	ValidateForPrincipal(ctx context.Context, token string) (*jwt.AuthorizationView, *types.UserProfile, error)
}

// WithPrincipal es el filtro de requests: si el header trae "Bearer <token>" valida
// firma, expiración y subject contra el directorio y deja el principal en el contexto.
// Cualquier falla deja el request sin autenticar; no rechaza.
func WithPrincipal(v PrincipalValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, jwt.BearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			token, err := jwt.ExtractBearer(header)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			_, profile, err := v.ValidateForPrincipal(ctx, token)
			if err != nil {
				logger.From(ctx).Debug("bearer token ignored", logger.Reason(jwt.ValidationResult(err)))
				next.ServeHTTP(w, r)
				return
			}

			principal := types.NewPrincipal(*profile)
			ctx = WithPrincipalContext(ctx, principal)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.Username(principal.Username())))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rechaza con 401 los requests sin principal o con la cuenta deshabilitada.
func RequireUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil || !p.Enabled() {
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
