package jwt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm es el HMAC usado cuando la config no indica otro.
const DefaultAlgorithm = "HS256"

// minKeyLen por algoritmo: la clave debe tener al menos el tamaño del digest.
var minKeyLen = map[string]int{
	"HS256": 32,
	"HS384": 48,
	"HS512": 64,
}

// Codec firma y verifica tokens HMAC con una clave fija para toda la vida del proceso.
// Es inmutable tras NewCodec y seguro para uso concurrente.
type Codec struct {
	method *jwtv5.SigningMethodHMAC
	key    []byte
}

// NewCodec decodifica la clave base64 y valida su largo para alg ("" = HS256).
func NewCodec(secretB64, alg string) (*Codec, error) {
	alg = strings.ToUpper(strings.TrimSpace(alg))
	if alg == "" {
		alg = DefaultAlgorithm
	}
	minLen, ok := minKeyLen[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrSigningKey, alg)
	}
	key, err := DecodeSecret(secretB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	if len(key) < minLen {
		return nil, fmt.Errorf("%w: %s requires at least %d bytes, got %d", ErrSigningKey, alg, minLen, len(key))
	}
	m, _ := jwtv5.GetSigningMethod(alg).(*jwtv5.SigningMethodHMAC)
	return &Codec{method: m, key: key}, nil
}

// DecodeSecret acepta base64 estándar o url-safe, con o sin padding.
func DecodeSecret(secretB64 string) ([]byte, error) {
	s := strings.TrimSpace(secretB64)
	if s == "" {
		return nil, errors.New("empty secret")
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, errors.New("secret is not valid base64")
}

// Algorithm devuelve el nombre del algoritmo configurado.
func (c *Codec) Algorithm() string { return c.method.Alg() }

// Sign serializa y firma el claim set. El header lleva alg y typ=JWT.
func (c *Codec) Sign(claims ClaimSet) (string, error) {
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrMalformed)
	}
	tk := jwtv5.NewWithClaims(c.method, &claims)
	signed, err := tk.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningKey, err)
	}
	return signed, nil
}

// Parse verifica la firma y devuelve las claims tal cual. No valida exp/iat: la
// expiración es política del Validator y un token vencido se devuelve igual.
func (c *Codec) Parse(token string) (*ClaimSet, error) {
	var claims ClaimSet
	_, err := jwtv5.ParseWithClaims(strings.TrimSpace(token), &claims,
		func(*jwtv5.Token) (any, error) { return c.key, nil },
		jwtv5.WithValidMethods([]string{c.method.Alg()}),
		jwtv5.WithStrictDecoding(),
		jwtv5.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwtv5.ErrTokenSignatureInvalid),
			errors.Is(err, jwtv5.ErrSignatureInvalid),
			errors.Is(err, jwtv5.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return &claims, nil
}
