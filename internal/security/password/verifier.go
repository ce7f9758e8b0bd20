package password

import (
	"context"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/directory"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/observability/logger"
)

// CredentialVerifier decide si el par username/password es válido. Un false sin error
// es un rechazo normal; los errores quedan para fallas del sistema o del directorio.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// DirectoryVerifier compara contra el hash que devuelve el directorio.
type DirectoryVerifier struct {
	dir    directory.Fetcher
	hasher Hasher
}

func NewDirectoryVerifier(dir directory.Fetcher, hasher Hasher) *DirectoryVerifier {
	return &DirectoryVerifier{dir: dir, hasher: hasher}
}

func (v *DirectoryVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	profile, err := v.dir.Fetch(ctx, username)
	if err != nil {
		return false, err
	}
	log := logger.From(ctx).With(logger.Component("password"), logger.Username(username))
	if profile.IsDisabled() {
		log.Debug("credentials rejected", logger.Reason("account_disabled"))
		return false, nil
	}
	if profile.Password == "" {
		log.Debug("credentials rejected", logger.Reason("no_password_hash"))
		return false, nil
	}
	ok, err := v.hasher.Compare(profile.Password, password)
	if err != nil {
		log.Warn("stored hash not comparable", logger.Err(err))
		return false, nil
	}
	if !ok {
		log.Debug("credentials rejected", logger.Reason("password_mismatch"))
	}
	return ok, nil
}

var _ CredentialVerifier = (*DirectoryVerifier)(nil)
