package middlewares

import (
	"context"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
)

type ctxKey string

const (
	ctxPrincipalKey ctxKey = "principal"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithPrincipalContext inyecta el principal autenticado.
func WithPrincipalContext(ctx context.Context, p *types.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetPrincipal devuelve nil si el request no está autenticado.
func GetPrincipal(ctx context.Context) *types.Principal {
	if p, ok := ctx.Value(ctxPrincipalKey).(*types.Principal); ok {
		return p
	}
	return nil
}

// GetRequestID devuelve "" si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return s
	}
	return ""
}
