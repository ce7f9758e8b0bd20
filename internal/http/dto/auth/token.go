// Package auth contiene los DTOs de los endpoints de token.
package auth

import "github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"

// Status de los envelopes de respuesta.
const StatusAccepted = "ACCEPTED"

// Mensajes que esperan los clientes existentes.
const (
	MessageAuthenticationAccepted = "Authentication accepted."
	MessageAuthorizationAccepted  = "Authorization accepted."
	MessagePrincipal              = "Authenticated principal."
)

// Envelope es la respuesta estándar {status, message, data}.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// TokenRequest es el body de POST /user/token.
type TokenRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// TokenResponse: refreshToken siempre viaja como null.
type TokenResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken *string `json:"refreshToken"`
}

// TokenResult es el resultado interno del service. Accepted=false es un rechazo de
// credenciales, no un error.
type TokenResult struct {
	Accepted    bool
	AccessToken string
}

// PrincipalResponse es la vista de GET /user/me.
type PrincipalResponse struct {
	Username              string            `json:"username"`
	Email                 string            `json:"email"`
	Name                  string            `json:"name"`
	EmailVerified         bool              `json:"emailVerified"`
	Enabled               bool              `json:"enabled"`
	AccountNonExpired     bool              `json:"accountNonExpired"`
	AccountNonLocked      bool              `json:"accountNonLocked"`
	CredentialsNonExpired bool              `json:"credentialsNonExpired"`
	Authorities           []types.Authority `json:"authorities"`
}
