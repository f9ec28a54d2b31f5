package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/cvdrisk-api/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		path         string
		expectedCost int64
	}{
		{"/health", 1},
		{"/metrics", 1},
		{"/v1/therapies", 5},
		{"/v1/risk/five-year", 5},
		{"/v1/risk", 10},
		{"/v1/ldl", 10},
		{"/v1/assessments", 20},
		{"/unknown", 5},
		{"/", 5},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if got := getTokenCost(req); got != tt.expectedCost {
				t.Errorf("getTokenCost(%s) = %d, want %d", tt.path, got, tt.expectedCost)
			}
		})
	}
}

func TestRealIPMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"no proxy headers", "127.0.0.1:1234", nil, "127.0.0.1:1234"},
		{"forwarded for", "127.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"forwarded chain", "10.0.0.2:1234", map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, "203.0.113.7"},
		{"real ip", "[::1]:1234", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"forwarded wins", "192.168.1.5:1234", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "203.0.113.9"}, "203.0.113.7"},
		{"public peer forwarded for ignored", "198.51.100.4:1234", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "198.51.100.4:1234"},
		{"public peer real ip ignored", "198.51.100.4:1234", map[string]string{"X-Real-IP": "203.0.113.9"}, "198.51.100.4:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequestBody = 32
	cfg.MaxHeaderSize = 128

	var readErr error
	h := RequestSizeMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("small body passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
		if rr.Code != http.StatusOK || readErr != nil {
			t.Errorf("expected 200 and a clean read, got %d / %v", rr.Code, readErr)
		}
	})

	t.Run("declared length too large", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 33))))
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("expected 413, got %d", rr.Code)
		}
	})

	t.Run("chunked body is capped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
		req.ContentLength = -1

		h.ServeHTTP(httptest.NewRecorder(), req)

		var tooLarge *http.MaxBytesError
		if !errors.As(readErr, &tooLarge) {
			t.Errorf("expected a MaxBytesError while reading, got %v", readErr)
		}
	})

	t.Run("headers too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Padding", strings.Repeat("p", 200))

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusRequestHeaderFieldsTooLarge {
			t.Errorf("expected 431, got %d", rr.Code)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 25)
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	first := send("10.0.0.1:5000")
	if first.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", first.Code)
	}
	if first.Header().Get("X-RateLimit-Limit") != "25" || first.Header().Get("X-RateLimit-Rate") != "1" {
		t.Errorf("unexpected rate limit headers %v", first.Header())
	}

	second := send("10.0.0.1:5001")
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request from the same host: expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("429 response should carry Retry-After")
	}

	if other := send("10.0.0.2:5000"); other.Code != http.StatusOK {
		t.Errorf("other client: expected 200, got %d", other.Code)
	}

	if got := testutil.ToFloat64(metrics.RateLimiterBucketsTotal); got != 2 {
		t.Errorf("bucket gauge = %v, want 2", got)
	}
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(1, 100)
	defer rl.Stop()

	rl.getBucket("10.0.0.1").TakeAvailable(50)
	rl.getBucket("10.0.0.2")

	if removed := rl.prune(); removed != 1 {
		t.Errorf("prune removed %d clients, want 1", removed)
	}

	rl.mu.RLock()
	_, kept := rl.clients["10.0.0.1"]
	rl.mu.RUnlock()
	if !kept {
		t.Error("client with a drained bucket should be kept")
	}

	rl.Stop()
	rl.Stop()
}
