package jwt

import "errors"

var (
	ErrSigningKey        = errors.New("jwt: invalid signing key")
	ErrInvalidSignature  = errors.New("jwt: invalid signature")
	ErrMalformed         = errors.New("jwt: malformed token")
	ErrTokenExpired      = errors.New("jwt: token expired")
	ErrPrincipalMismatch = errors.New("jwt: principal mismatch")
	// ErrTokenMalformed: header Authorization sin el prefijo "Bearer " o sin token.
	ErrTokenMalformed = errors.New("jwt: bearer token malformed")
)
