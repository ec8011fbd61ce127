package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"news_podcast/internal/logger"
	"news_podcast/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		require.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, "abc123", seen)
		require.Equal(t, "abc123", w.Header().Get(RequestIDHeader))
	})
}

func TestChainLogsAndCounts(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "info")
	logger.Init()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.Init() })

	mux := http.NewServeMux()
	mux.HandleFunc("GET /teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("test", http.MethodGet, "GET /teapot", "418"))

	w := httptest.NewRecorder()
	Chain("test", mux).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	after := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("test", http.MethodGet, "GET /teapot", "418"))
	require.Equal(t, before+1, after)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, float64(http.StatusTeapot), line["status"])
	require.Equal(t, "/teapot", line["path"])
	require.NotEmpty(t, line["request_id"])
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 2)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	require.True(t, rl.Allow("10.0.0.2"), "other clients have their own bucket")

	now = now.Add(time.Second)
	require.True(t, rl.Allow("10.0.0.1"), "one token refilled per second")

	now = now.Add(10 * time.Minute)
	require.Equal(t, 2, rl.Prune(5*time.Minute))
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/summarize", nil)
	req.RemoteAddr = "192.0.2.1:5555"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
}

func TestClientIP(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	rl.TrustProxies("10.0.0.1")

	testCases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"peer address", "198.51.100.7:4321", "", "198.51.100.7"},
		{"forwarded header from untrusted peer is ignored", "198.51.100.7:4321", "203.0.113.9", "198.51.100.7"},
		{"trusted proxy", "10.0.0.1:80", "203.0.113.9", "203.0.113.9"},
		{"spoofed leading hop behind trusted proxy", "10.0.0.1:80", "1.2.3.4, 203.0.113.9", "203.0.113.9"},
		{"chain of trusted proxies", "10.0.0.1:80", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"trusted proxy without header", "10.0.0.1:80", "", "10.0.0.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			require.Equal(t, tc.want, rl.clientIP(req))
		})
	}
}

func TestRateLimiterIgnoresRotatedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 2)
	for _, fwd := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/summarize", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		req.Header.Set("X-Forwarded-For", fwd)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
