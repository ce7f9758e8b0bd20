package jwt

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// TokenTypeBearer es el valor fijo de la claim typ.
const TokenTypeBearer = "Bearer"

// ClaimSet es la representación firmable del access token.
// Las registered claims usadas son sub, iss, iat y exp.
type ClaimSet struct {
	TokenType        string              `json:"typ"`
	AllowedOrigins   []string            `json:"allowed-origins"`
	EmailVerified    bool                `json:"email_verified"`
	AuthorizeParties map[string][]string `json:"azp"`
	Email            string              `json:"email"`
	Name             string              `json:"name"`
	ScopeRoles       map[string]string   `json:"app_scope_with_role"`
	jwtv5.RegisteredClaims
}

// IssuedAtTime devuelve iat (zero si falta).
func (c *ClaimSet) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime devuelve exp (zero si falta).
func (c *ClaimSet) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
