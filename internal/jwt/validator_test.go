package jwt

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/directory"
	"github.com/pixel-mind-solutions-group/kcs-v1/internal/domain/types"
)

type fakeDirectory struct {
	mu       sync.Mutex
	profiles map[string]types.UserProfile
	err      error
	calls    int
}

func (f *fakeDirectory) Fetch(_ context.Context, username string) (*types.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", directory.ErrNotFound, username)
	}
	return &p, nil
}

func aliceProfile() types.UserProfile {
	return types.UserProfile{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		AuthorizeParties: []types.AuthorizePartyMembership{
			{Party: "app1", Roles: []types.AuthorizePartyRole{{Role: "admin"}}},
		},
		ScopeRoles: map[string]string{"app1": "admin"},
	}
}

func newTestValidator(t *testing.T, now time.Time) (*Validator, *fakeDirectory) {
	t.Helper()
	dir := &fakeDirectory{profiles: map[string]types.UserProfile{"alice": aliceProfile()}}
	return NewValidator(mustCodec(t), dir, func() time.Time { return now }), dir
}

func signFor(t *testing.T, cl ClaimSet) string {
	t.Helper()
	tok, err := mustCodec(t).Sign(cl)
	require.NoError(t, err)
	return tok
}

func TestValidate_ValidUsesFreshDirectoryData(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	cl := sampleClaims(iat, 20*time.Minute)
	// claims embebidas distintas a las del directorio
	cl.AuthorizeParties = map[string][]string{"stale": {"old"}}
	cl.ScopeRoles = map[string]string{"stale": "old"}
	tok := signFor(t, cl)

	v, dir := newTestValidator(t, iat.Add(time.Minute))
	view, err := v.Validate(context.Background(), tok, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, dir.calls)
	assert.Equal(t, &AuthorizationView{
		Username:         "alice",
		Valid:            true,
		AuthorizeParties: map[string][]string{"app1": {"admin"}},
		ScopeRoles:       map[string]string{"app1": "admin"},
	}, view)
}

func TestValidate_Idempotent(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	tok := signFor(t, sampleClaims(iat, 20*time.Minute))
	v, dir := newTestValidator(t, iat.Add(time.Second))

	first, err := v.Validate(context.Background(), tok, "")
	require.NoError(t, err)
	second, err := v.Validate(context.Background(), tok, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, dir.calls, "directory is queried on every validation")
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	cl := sampleClaims(iat, 20*time.Minute)
	tok := signFor(t, cl)
	exp := cl.ExpiresAtTime()

	// exp == now + 1ms → aceptado
	v, _ := newTestValidator(t, exp.Add(-time.Millisecond))
	_, err := v.Validate(context.Background(), tok, "alice")
	require.NoError(t, err)

	// exp == now - 1ms → vencido, sin llamada al directorio
	v, dir := newTestValidator(t, exp.Add(time.Millisecond))
	_, err = v.Validate(context.Background(), tok, "alice")
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, 0, dir.calls)

	// exp == now → vencido (now < exp estricto)
	v, _ = newTestValidator(t, exp)
	_, err = v.Validate(context.Background(), tok, "alice")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_PrincipalMismatch(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	tok := signFor(t, sampleClaims(iat, time.Hour))

	v, _ := newTestValidator(t, iat)
	_, err := v.Validate(context.Background(), tok, "bob")
	assert.ErrorIs(t, err, ErrPrincipalMismatch)

	// el directorio devuelve otro username para el mismo subject (rename)
	v, dir := newTestValidator(t, iat)
	renamed := aliceProfile()
	renamed.Username = "alice2"
	dir.profiles["alice"] = renamed
	_, err = v.Validate(context.Background(), tok, "")
	assert.ErrorIs(t, err, ErrPrincipalMismatch)
}

func TestValidate_DirectoryErrorsPropagate(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	cl := sampleClaims(iat, time.Hour)
	cl.Subject = "ghost"
	tok := signFor(t, cl)

	v, _ := newTestValidator(t, iat)
	_, err := v.Validate(context.Background(), tok, "")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	v, dir := newTestValidator(t, iat)
	dir.err = fmt.Errorf("%w: boom", directory.ErrUpstream)
	_, err = v.Validate(context.Background(), signFor(t, sampleClaims(iat, time.Hour)), "")
	assert.ErrorIs(t, err, directory.ErrUpstream)
}

func TestValidate_CodecFailuresSkipDirectory(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	tok := signFor(t, sampleClaims(iat, time.Hour))
	v, dir := newTestValidator(t, iat)

	_, err := v.Validate(context.Background(), tamper(tok, 2), "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	_, err = v.Validate(context.Background(), "garbage", "")
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, 0, dir.calls)
}

func TestValidateForPrincipal_ReturnsProfile(t *testing.T) {
	iat := time.Now().Truncate(time.Second)
	v, _ := newTestValidator(t, iat)
	view, profile, err := v.ValidateForPrincipal(context.Background(), signFor(t, sampleClaims(iat, time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	require.NotNil(t, profile)
	assert.Equal(t, "Alice", profile.FirstName)
}

func TestExtractBearer(t *testing.T) {
	tok, err := ExtractBearer("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, h := range []string{"", "Token abc123", "bearer abc", "Bearer ", "Bearer    ", "Bearerabc"} {
		_, err := ExtractBearer(h)
		assert.ErrorIs(t, err, ErrTokenMalformed, h)
	}
}

func TestValidationResult(t *testing.T) {
	assert.Equal(t, "valid", ValidationResult(nil))
	assert.Equal(t, "expired", ValidationResult(fmt.Errorf("x: %w", ErrTokenExpired)))
	assert.Equal(t, "not_found", ValidationResult(directory.ErrNotFound))
	assert.Equal(t, "upstream_error", ValidationResult(directory.ErrUpstream))
}
