// Package auth contiene el orquestador de autenticación: emisión y validación de tokens.
package auth

import (
	"context"
	"errors"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/claims"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/directory"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
	dto "github.com/pixel-mind-solutions-group/kcs-v1/internal/http/dto/auth"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/jwt"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/security/password"
)

// ErrMissingFields: userName o password vacíos.
var ErrMissingFields = errors.New("auth: missing required fields")

// AuthenticateService emite access tokens.
type AuthenticateService interface {
	Authenticate(ctx context.Context, in dto.TokenRequest) (*dto.TokenResult, error)
}

// ValidateService valida un header Authorization completo.
type ValidateService interface {
	Validate(ctx context.Context, bearerHeader string) (*jwt.AuthorizationView, error)
}

// PrincipalService arma la vista del principal autenticado.
type PrincipalService interface {
	Me(ctx context.Context, p *types.Principal) (*dto.PrincipalResponse, error)
}

// TokenValidator es el contrato del jwt.Validator que usa ValidateService.
type TokenValidator interface {
	Validate(ctx context.Context, token, expectedUsername string) (*jwt.AuthorizationView, error)
}

// Deps contiene las dependencias para crear los services auth. La clave de firma
// llega ya encapsulada en Codec.
type Deps struct {
	Directory directory.Fetcher
	Verifier  password.CredentialVerifier
	Builder   *claims.Builder
	Codec     *jwt.Codec
	Validator TokenValidator
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Authenticate AuthenticateService
	Validate     ValidateService
	Principal    PrincipalService
}

func NewServices(d Deps) Services {
	return Services{
		Authenticate: NewAuthenticateService(d),
		Validate:     NewValidateService(d.Validator),
		Principal:    NewPrincipalService(),
	}
}
