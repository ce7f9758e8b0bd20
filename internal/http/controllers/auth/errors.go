package auth

import (
	"errors"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/claims"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/directory"
	httperrors "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/errors"
	svc "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/services/auth"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/jwt"
)

// mapError traduce errores de dominio: NotFound → 404, fallas de autorización → 401,
// el resto → 500.
func mapError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, directory.ErrNotFound):
		return httperrors.ErrUserNotFound.WithCause(err)
	case errors.Is(err, directory.ErrUpstream), errors.Is(err, directory.ErrEmptyUsername):
		return httperrors.ErrUpstream.WithCause(err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return httperrors.ErrTokenInvalid.WithCause(err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return httperrors.ErrTokenExpired.WithCause(err)
	case errors.Is(err, jwt.ErrInvalidSignature):
		return httperrors.ErrInvalidSignature.WithCause(err)
	case errors.Is(err, jwt.ErrMalformed):
		return httperrors.ErrTokenMalformed.WithCause(err)
	case errors.Is(err, jwt.ErrPrincipalMismatch):
		return httperrors.ErrPrincipalMismatch.WithCause(err)
	case errors.Is(err, svc.ErrNoPrincipal):
		return httperrors.ErrUnauthenticated
	case errors.Is(err, claims.ErrIncompleteProfile):
		return httperrors.ErrInternalServerError.WithDetail("incomplete user profile").WithCause(err)
	default:
		return httperrors.FromError(err)
	}
}
