package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixel-mind-solutions-group/kcs-v1/internal/rate"
)

func TestParseTrustedProxies(t *testing.T) {
	nets, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.10 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, nets, 3)
	assert.Equal(t, "192.168.1.10/32", nets[1].String())
	assert.Equal(t, "::1/128", nets[2].String())

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestWithClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	cases := []struct {
		name    string
		trusted bool
		remote  string
		xff     string
		want    string
	}{
		{"sin proxies confiables ignora XFF", false, "203.0.113.7:4000", "1.2.3.4", "203.0.113.7"},
		{"peer no confiable ignora XFF", true, "203.0.113.7:4000", "1.2.3.4", "203.0.113.7"},
		{"proxy confiable usa XFF", true, "10.0.0.5:4000", "198.51.100.9", "198.51.100.9"},
		{"gana la entrada no confiable más a la derecha", true, "10.0.0.5:4000", "1.1.1.1, 198.51.100.9, 10.0.0.6", "198.51.100.9"},
		{"todo confiable cae a la primera", true, "10.0.0.5:4000", "10.0.0.7, 10.0.0.6", "10.0.0.7"},
		{"XFF basura usa el peer", true, "10.0.0.5:4000", "garbage", "10.0.0.5"},
		{"proxy sin XFF usa el peer", true, "10.0.0.5:4000", "", "10.0.0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nets := trusted
			if !tc.trusted {
				nets = nil
			}
			var got string
			h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = clientIP(r)
			}), WithClientIP(nets))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWithRateLimit_ForwardedForRotationDoesNotResetWindow(t *testing.T) {
	h := Chain(okHandler,
		WithClientIP(nil),
		WithRateLimit(rate.NewMemoryLimiter(2, time.Hour), nil),
	)

	codes := make([]int, 0, 4)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3", "4.4.4.4"} {
		req := httptest.NewRequest(http.MethodPost, "/api/kcs_v1/v1/auth/user/token", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
