package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/directory"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/metrics"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

// BearerPrefix es el prefijo exacto (case-sensitive) del header Authorization.
const BearerPrefix = "Bearer "

// AuthorizationView es la respuesta del endpoint de validación. Se arma siempre con
// datos frescos del directorio, nunca con las claims embebidas en el token.
type AuthorizationView struct {
	Username         string              `json:"username"`
	Valid            bool                `json:"valid"`
	AuthorizeParties map[string][]string `json:"azp"`
	ScopeRoles       map[string]string   `json:"app_scope_with_role"`
}

// Validator recorre Received → Decoded → SignatureChecked → ExpiryChecked →
// SubjectChecked → Valid | Rejected. Sin reintentos: el primer rechazo termina el flujo.
type Validator struct {
	codec *Codec
	dir   directory.Fetcher
	now   func() time.Time
}

// NewValidator crea un validador. now puede ser nil (time.Now).
func NewValidator(codec *Codec, dir directory.Fetcher, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{codec: codec, dir: dir, now: now}
}

// ExtractBearer quita el prefijo "Bearer " del header. Ausencia de prefijo o token
// vacío → ErrTokenMalformed.
func ExtractBearer(header string) (string, error) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", ErrTokenMalformed
	}
	tok := strings.TrimSpace(header[len(BearerPrefix):])
	if tok == "" {
		return "", ErrTokenMalformed
	}
	return tok, nil
}

// Validate valida el token y, si expectedUsername != "", exige que el subject coincida.
func (v *Validator) Validate(ctx context.Context, token, expectedUsername string) (*AuthorizationView, error) {
	view, _, err := v.validate(ctx, token, expectedUsername)
	return view, err
}

// ValidateForPrincipal es la variante del filtro de requests: además de la vista
// devuelve el perfil recién leído para construir el principal.
func (v *Validator) ValidateForPrincipal(ctx context.Context, token string) (*AuthorizationView, *types.UserProfile, error) {
	return v.validate(ctx, token, "")
}

func (v *Validator) validate(ctx context.Context, token, expected string) (*AuthorizationView, *types.UserProfile, error) {
	log := logger.From(ctx).With(logger.Component("jwt"), logger.Op("Validate"))

	// Decoded → SignatureChecked
	claims, err := v.codec.Parse(token)
	if err != nil {
		observeValidation(err)
		log.Debug("token rejected", logger.Reason("codec"), logger.Err(err))
		return nil, nil, err
	}
	if claims.Subject == "" {
		err := fmt.Errorf("%w: empty subject", ErrMalformed)
		observeValidation(err)
		return nil, nil, err
	}

	// ExpiryChecked: now < exp estricto
	exp := claims.ExpiresAtTime()
	if exp.IsZero() || !v.now().Before(exp) {
		err := fmt.Errorf("%w: expired at %s", ErrTokenExpired, exp.UTC().Format(time.RFC3339))
		observeValidation(err)
		log.Debug("token rejected", logger.Reason("expired"), logger.Username(claims.Subject), logger.ExpiresAt(exp))
		return nil, nil, err
	}

	// SubjectChecked contra una lectura fresca del directorio
	profile, err := v.dir.Fetch(ctx, claims.Subject)
	if err != nil {
		observeValidation(err)
		log.Debug("token rejected", logger.Reason("directory"), logger.Username(claims.Subject), logger.Err(err))
		return nil, nil, err
	}
	if profile.Username != claims.Subject || (expected != "" && expected != claims.Subject) {
		err := fmt.Errorf("%w: subject %q", ErrPrincipalMismatch, claims.Subject)
		observeValidation(err)
		log.Debug("token rejected", logger.Reason("principal_mismatch"), logger.Username(claims.Subject))
		return nil, nil, err
	}

	observeValidation(nil)
	scopes := make(map[string]string, len(profile.ScopeRoles))
	for k, r := range profile.ScopeRoles {
		scopes[k] = r
	}
	return &AuthorizationView{
		Username:         profile.Username,
		Valid:            true,
		AuthorizeParties: profile.PartyRoles(),
		ScopeRoles:       scopes,
	}, profile, nil
}

// ValidationResult traduce el error de validación a la label de métricas.
func ValidationResult(err error) string {
	switch {
	case err == nil:
		return "valid"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrMalformed), errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrPrincipalMismatch):
		return "principal_mismatch"
	case errors.Is(err, directory.ErrNotFound):
		return "not_found"
	default:
		return "upstream_error"
	}
}

func observeValidation(err error) {
	metrics.TokenValidations.WithLabelValues(ValidationResult(err)).Inc()
}
