package directory

import "errors"

var (
	// ErrNotFound: el directorio no conoce al usuario.
	ErrNotFound = errors.New("directory: user not found")
	// ErrUpstream: la llamada falló, expiró o devolvió un envelope inválido.
	ErrUpstream = errors.New("directory: upstream error")
	// ErrEmptyUsername: precondición del caller.
	ErrEmptyUsername = errors.New("directory: empty username")
)
