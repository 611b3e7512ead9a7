package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsg/backend/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, path, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{PublicPerMinute: 2})(okHandler())

	for i := 0; i < 2; i++ {
		res := doRequest(handler, "/api/v1/venues", "192.168.1.102:12345", nil)
		require.Equal(t, http.StatusOK, res.Code, "request %d", i+1)
	}

	res := doRequest(handler, "/api/v1/venues", "192.168.1.102:12345", nil)
	require.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, "30", res.Header().Get("Retry-After"))
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{PublicPerMinute: 1})(okHandler())

	require.Equal(t, http.StatusOK, doRequest(handler, "/api/v1/venues", "192.168.1.100:1", nil).Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, "/api/v1/venues", "192.168.1.100:2", nil).Code)
	require.Equal(t, http.StatusOK, doRequest(handler, "/api/v1/venues", "192.168.1.200:1", nil).Code)
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{})(okHandler())

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, doRequest(handler, "/api/v1/venues", "192.168.1.100:1", nil).Code)
	}
}

func TestRateLimit_OperationalPathsExempt(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{PublicPerMinute: 1})(okHandler())

	for _, path := range []string{"/healthz", "/readyz", "/health", "/metrics"} {
		for i := 0; i < 20; i++ {
			res := doRequest(handler, path, "192.168.1.100:12345", nil)
			require.Equal(t, http.StatusOK, res.Code, "%s should never be rate limited", path)
		}
	}
}

func TestRateLimit_ForwardedForFromTrustedProxy(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 1, TrustedProxyCIDRs: []string{"10.0.0.0/8"}}
	handler := RateLimit(cfg)(okHandler())

	xff := map[string]string{"X-Forwarded-For": "203.0.113.45"}
	require.Equal(t, http.StatusOK, doRequest(handler, "/api/v1/venues", "10.0.0.1:1", xff).Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, "/api/v1/venues", "10.0.0.2:1", xff).Code)

	other := map[string]string{"X-Forwarded-For": "203.0.113.46"}
	require.Equal(t, http.StatusOK, doRequest(handler, "/api/v1/venues", "10.0.0.1:1", other).Code)
}

func TestClientKey(t *testing.T) {
	trusted := []string{"10.0.0.0/8"}

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		cidrs   []string
		want    string
	}{
		{"remote addr", "192.168.1.100:12345", nil, nil, "192.168.1.100"},
		{"remote addr without port", "192.168.1.100", nil, nil, "192.168.1.100"},
		{"forwarded from trusted proxy", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.45, 198.51.100.1"}, trusted, "203.0.113.45"},
		{"real ip from trusted proxy", "10.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.45"}, trusted, "203.0.113.45"},
		{"forwarded from untrusted peer", "192.168.1.5:1", map[string]string{"X-Forwarded-For": "203.0.113.45"}, trusted, "192.168.1.5"},
		{"no trusted proxies configured", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.45"}, nil, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientKey(req, tt.cidrs))
		})
	}
}

func TestIsTrustedProxy_IgnoresBadCIDR(t *testing.T) {
	assert.False(t, isTrustedProxy("10.0.0.1", []string{"not-a-cidr"}))
	assert.True(t, isTrustedProxy("10.0.0.1", []string{"not-a-cidr", "10.0.0.0/8"}))
	assert.False(t, isTrustedProxy("garbage", []string{"10.0.0.0/8"}))
}

func TestLimiterStoreCleanup(t *testing.T) {
	store := newLimiterStore(10)
	t.Cleanup(store.Stop)

	store.limiter("a")
	store.limiter("b")
	store.mu.Lock()
	store.limiters["a"].lastSeen = time.Now().Add(-2 * limiterTTL)
	store.mu.Unlock()

	store.cleanup(time.Now())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NotContains(t, store.limiters, "a")
	assert.Contains(t, store.limiters, "b")
}

func BenchmarkRateLimit_Allow(b *testing.B) {
	handler := RateLimit(config.RateLimitConfig{PublicPerMinute: 1_000_000})(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil)
	req.RemoteAddr = "192.168.1.100:12345"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
