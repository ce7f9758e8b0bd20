// Package claims arma el ClaimSet canónico a partir del perfil del directorio.
package claims

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/jwt"
)

// ErrIncompleteProfile: faltan datos requeridos (username, nombre o apellido).
var ErrIncompleteProfile = errors.New("claims: incomplete profile")

const (
	DefaultIssuer    = "MLS"
	DefaultAccessTTL = 20 * time.Minute
)

// DefaultAllowedOrigins es el valor por defecto de la claim allowed-origins.
var DefaultAllowedOrigins = []string{"http://localhost:8083"}

// Options configura el builder; los valores vacíos toman los defaults.
type Options struct {
	Issuer         string
	AccessTTL      time.Duration
	AllowedOrigins []string
	Now            func() time.Time
}

// Builder es puro salvo por el reloj inyectado.
type Builder struct {
	issuer  string
	ttl     time.Duration
	origins []string
	now     func() time.Time
}

func NewBuilder(opts Options) *Builder {
	b := &Builder{
		issuer:  opts.Issuer,
		ttl:     opts.AccessTTL,
		origins: append([]string(nil), opts.AllowedOrigins...),
		now:     opts.Now,
	}
	if b.issuer == "" {
		b.issuer = DefaultIssuer
	}
	if b.ttl <= 0 {
		b.ttl = DefaultAccessTTL
	}
	if len(b.origins) == 0 {
		b.origins = append([]string(nil), DefaultAllowedOrigins...)
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// TTL expuesto para quien necesite reportar la expiración.
func (b *Builder) TTL() time.Duration { return b.ttl }

// Issuer es el valor del claim iss.
func (b *Builder) Issuer() string { return b.issuer }

// Build deriva el claim set. iat se trunca a segundos (precisión del wire) y
// exp = iat + TTL.
func (b *Builder) Build(profile *types.UserProfile) (jwt.ClaimSet, error) {
	if profile == nil || strings.TrimSpace(profile.Username) == "" {
		return jwt.ClaimSet{}, fmt.Errorf("%w: username", ErrIncompleteProfile)
	}
	if profile.FirstName == "" || profile.LastName == "" {
		return jwt.ClaimSet{}, fmt.Errorf("%w: first and last name required for %q", ErrIncompleteProfile, profile.Username)
	}

	iat := b.now().UTC().Truncate(time.Second)
	exp := iat.Add(b.ttl)

	scopes := make(map[string]string, len(profile.ScopeRoles))
	for k, v := range profile.ScopeRoles {
		scopes[k] = v
	}

	return jwt.ClaimSet{
		TokenType:        jwt.TokenTypeBearer,
		AllowedOrigins:   append([]string(nil), b.origins...),
		EmailVerified:    profile.IsEmailVerified(),
		AuthorizeParties: profile.PartyRoles(),
		Email:            profile.Email,
		Name:             profile.FirstName + " " + profile.LastName,
		ScopeRoles:       scopes,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   profile.Username,
			Issuer:    b.issuer,
			IssuedAt:  jwtv5.NewNumericDate(iat),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}, nil
}
