package app

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/config"
)

func testConfig(t *testing.T, directoryURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.SecretKey = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	cfg.JWT.Algorithm = "HS256"
	cfg.Directory.BaseURL = directoryURL
	cfg.Directory.Timeout = "1s"
	cfg.Security.BcryptCost = 4
	cfg.Cache.Kind = "memory"
	cfg.Rate.Enabled = true
	cfg.Rate.Login.Limit = 5
	cfg.Rate.Login.Window = "1m"
	cfg.Metrics.Enabled = true
	return cfg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNew_Memory(t *testing.T) {
	c, err := New(testConfig(t, "http://iam.local"), Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.Limiter)
	assert.Equal(t, "HS256", c.Codec.Algorithm())

	rec := get(t, c.Handler, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)

	rec = get(t, c.Handler, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)

	srv := c.Server()
	assert.Equal(t, c.Handler, srv.Handler)
}

func TestNew_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, "http://iam.local")
	cfg.Cache.Kind = "redis"
	cfg.Cache.Redis.Addr = mr.Addr()
	cfg.Cache.Redis.Prefix = "kcs:rl:"

	c, err := New(cfg, Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer c.Close()
	require.NotNil(t, c.Redis)

	rec := get(t, c.Handler, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)

	mr.Close()
	rec = get(t, c.Handler, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestNew_InvalidSecret(t *testing.T) {
	cfg := testConfig(t, "http://iam.local")
	cfg.JWT.SecretKey = base64.StdEncoding.EncodeToString([]byte("short"))
	_, err := New(cfg, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codec")
}

func TestNew_InvalidTrustedProxy(t *testing.T) {
	cfg := testConfig(t, "http://iam.local")
	cfg.Server.TrustedProxies = []string{"proxy.local"}
	_, err := New(cfg, Options{Registerer: prometheus.NewRegistry()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trusted_proxies")
}
