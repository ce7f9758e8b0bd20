// Package password agrupa los hashers de contraseñas y la verificación de credenciales
// contra el hash que entrega el directorio.
package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost coincide con el costo con el que el directorio guarda los hashes.
const DefaultBcryptCost = 14

var (
	ErrEmptyPassword     = errors.New("password: empty password")
	ErrUnknownHashFormat = errors.New("password: unknown hash format")
)

// Hasher genera y compara hashes de un algoritmo concreto.
type Hasher interface {
	Hash(plain string) (string, error)
	// Compare devuelve false (sin error) si la contraseña no coincide.
	Compare(hash, plain string) (bool, error)
	// Supports indica si el hash almacenado pertenece a este algoritmo.
	Supports(hash string) bool
}

// BcryptHasher usa golang.org/x/crypto/bcrypt con costo configurable.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", fmt.Errorf("password: bcrypt: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("password: bcrypt: %w", err)
	}
}

func (h *BcryptHasher) Supports(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

// MultiHasher despacha por el prefijo del hash almacenado. Hash usa el primero.
type MultiHasher struct {
	hashers []Hasher
}

// NewMultiHasher: el primer hasher es el preferido para generar hashes nuevos.
func NewMultiHasher(preferred Hasher, others ...Hasher) *MultiHasher {
	return &MultiHasher{hashers: append([]Hasher{preferred}, others...)}
}

func (m *MultiHasher) Hash(plain string) (string, error) {
	return m.hashers[0].Hash(plain)
}

func (m *MultiHasher) Compare(hash, plain string) (bool, error) {
	for _, h := range m.hashers {
		if h.Supports(hash) {
			return h.Compare(hash, plain)
		}
	}
	return false, ErrUnknownHashFormat
}

func (m *MultiHasher) Supports(hash string) bool {
	for _, h := range m.hashers {
		if h.Supports(hash) {
			return true
		}
	}
	return false
}

// NewHasher construye el hasher por nombre ("bcrypt" | "argon2id").
func NewHasher(algo string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algo)) {
	case "", "bcrypt":
		return NewBcryptHasher(bcryptCost), nil
	case "argon2id":
		return NewArgon2idHasher(DefaultArgon2Params), nil
	default:
		return nil, fmt.Errorf("password: unsupported algorithm %q", algo)
	}
}

var (
	_ Hasher = (*BcryptHasher)(nil)
	_ Hasher = (*MultiHasher)(nil)
)
