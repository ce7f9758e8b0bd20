package jwt

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func sampleClaims(iat time.Time, ttl time.Duration) ClaimSet {
	iat = iat.Truncate(time.Second)
	return ClaimSet{
		TokenType:        TokenTypeBearer,
		AllowedOrigins:   []string{"http://localhost:8083"},
		EmailVerified:    true,
		AuthorizeParties: map[string][]string{"app1": {"admin"}},
		Email:            "alice@example.com",
		Name:             "Alice Liddell",
		ScopeRoles:       map[string]string{"app1": "admin"},
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "MLS",
			IssuedAt:  jwtv5.NewNumericDate(iat),
			ExpiresAt: jwtv5.NewNumericDate(iat.Add(ttl)),
		},
	}
}

func mustCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, "")
	require.NoError(t, err)
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := mustCodec(t)
	in := sampleClaims(time.Now(), 20*time.Minute)

	tok, err := c.Sign(in)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	out, err := c.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, in.Subject, out.Subject)
	assert.Equal(t, in.Issuer, out.Issuer)
	assert.Equal(t, in.TokenType, out.TokenType)
	assert.Equal(t, in.AllowedOrigins, out.AllowedOrigins)
	assert.Equal(t, in.EmailVerified, out.EmailVerified)
	assert.Equal(t, in.AuthorizeParties, out.AuthorizeParties)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.ScopeRoles, out.ScopeRoles)
	assert.True(t, in.IssuedAtTime().Equal(out.IssuedAtTime()))
	assert.True(t, in.ExpiresAtTime().Equal(out.ExpiresAtTime()))
}

func TestCodec_WireClaimNames(t *testing.T) {
	c := mustCodec(t)
	tok, err := c.Sign(sampleClaims(time.Now(), time.Minute))
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(tok, ".")[1])
	require.NoError(t, err)
	for _, name := range []string{`"sub"`, `"iss"`, `"iat"`, `"exp"`, `"typ"`, `"allowed-origins"`,
		`"email_verified"`, `"azp"`, `"email"`, `"name"`, `"app_scope_with_role"`} {
		assert.Contains(t, string(payload), name)
	}
}

func TestCodec_ParseReturnsExpiredClaims(t *testing.T) {
	c := mustCodec(t)
	tok, err := c.Sign(sampleClaims(time.Now().Add(-2*time.Hour), time.Minute))
	require.NoError(t, err)

	out, err := c.Parse(tok)
	require.NoError(t, err)
	assert.True(t, out.ExpiresAtTime().Before(time.Now()))
}

// tamper reemplaza un carácter en el medio del segmento indicado.
func tamper(tok string, segment int) string {
	parts := strings.Split(tok, ".")
	seg := []byte(parts[segment])
	i := len(seg) / 2
	if seg[i] == 'A' {
		seg[i] = 'B'
	} else {
		seg[i] = 'A'
	}
	parts[segment] = string(seg)
	return strings.Join(parts, ".")
}

func TestCodec_TamperingIsRejected(t *testing.T) {
	c := mustCodec(t)
	tok, err := c.Sign(sampleClaims(time.Now(), time.Minute))
	require.NoError(t, err)

	for _, seg := range []int{0, 1, 2} {
		out, err := c.Parse(tamper(tok, seg))
		require.Error(t, err, "segment %d", seg)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrMalformed), "segment %d: %v", seg, err)
	}
}

const b64url = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipChar cambia el carácter i del segmento por el de índice idx^mask en el alfabeto.
func flipChar(seg string, i, mask int) string {
	idx := strings.IndexByte(b64url, seg[i])
	b := []byte(seg)
	b[i] = b64url[idx^mask]
	return string(b)
}

func TestCodec_SignatureBitFlipsAreRejected(t *testing.T) {
	c := mustCodec(t)
	tok, err := c.Sign(sampleClaims(time.Now(), time.Minute))
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	sig := parts[2]

	// Los bits bajos del último carácter son relleno en HS256 (43 chars, 256 bits).
	for _, mask := range []int{1, 2, 3} {
		forged := parts[0] + "." + parts[1] + "." + flipChar(sig, len(sig)-1, mask)
		out, err := c.Parse(forged)
		require.Error(t, err, "last char mask %d", mask)
		assert.Nil(t, out)
	}

	for i := range sig {
		forged := parts[0] + "." + parts[1] + "." + flipChar(sig, i, 1)
		_, err := c.Parse(forged)
		require.Error(t, err, "position %d", i)
	}
}

func TestCodec_WrongKeyIsInvalidSignature(t *testing.T) {
	tok, err := mustCodec(t).Sign(sampleClaims(time.Now(), time.Minute))
	require.NoError(t, err)

	other, err := NewCodec(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("z", 32))), "HS256")
	require.NoError(t, err)
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestCodec_AlgorithmPinned(t *testing.T) {
	hs512, err := NewCodec(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 64))), "HS512")
	require.NoError(t, err)
	tok, err := hs512.Sign(sampleClaims(time.Now(), time.Minute))
	require.NoError(t, err)

	_, err = mustCodec(t).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestCodec_Malformed(t *testing.T) {
	c := mustCodec(t)
	for _, tok := range []string{"", "abc", "a.b", "a.b.c", "!!!.???.***"} {
		_, err := c.Parse(tok)
		assert.ErrorIs(t, err, ErrMalformed, tok)
	}
}

func TestNewCodec_KeyValidation(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	tests := []struct {
		name, secret, alg string
	}{
		{name: "empty", secret: "", alg: "HS256"},
		{name: "not base64", secret: "%%%not-base64%%%", alg: "HS256"},
		{name: "short HS256", secret: short, alg: "HS256"},
		{name: "32 bytes for HS384", secret: testSecret, alg: "HS384"},
		{name: "unsupported alg", secret: testSecret, alg: "RS256"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCodec(tc.secret, tc.alg)
			assert.ErrorIs(t, err, ErrSigningKey)
		})
	}

	c, err := NewCodec(base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("u", 48))), "hs384")
	require.NoError(t, err)
	assert.Equal(t, "HS384", c.Algorithm())
}

func TestCodec_SignRequiresSubject(t *testing.T) {
	cl := sampleClaims(time.Now(), time.Minute)
	cl.Subject = ""
	_, err := mustCodec(t).Sign(cl)
	assert.ErrorIs(t, err, ErrMalformed)
}
