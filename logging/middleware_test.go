package logging

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func newCapturingLogger() (*slog.Logger, *strings.Builder) {
	var out strings.Builder
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logger, &out
}

func serveWithID(h http.Handler, method, target string, id any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, id))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLoggingMiddlewareSkipsHealthAndMetrics(t *testing.T) {
	logger, out := newCapturingLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			out.Reset()
			rr := serveWithID(handler, http.MethodGet, path, "req-1")
			if rr.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", rr.Code)
			}
			if out.Len() != 0 {
				t.Errorf("expected no logs for %s, got: %s", path, out.String())
			}
		})
	}
}

func TestLoggingMiddlewareFields(t *testing.T) {
	logger, out := newCapturingLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))

	t.Run("regular paths are logged", func(t *testing.T) {
		out.Reset()
		serveWithID(handler, http.MethodPost, "/v1/assessments", "req-789")

		logs := out.String()
		for _, want := range []string{"HTTP request", "/v1/assessments", "request_id=req-789", "status_code=201", "bytes_written=10"} {
			if !strings.Contains(logs, want) {
				t.Errorf("log should contain %q, got: %s", want, logs)
			}
		}
	})

	t.Run("non-string request ID", func(t *testing.T) {
		out.Reset()
		serveWithID(handler, http.MethodGet, "/v1/therapies", 12345)

		if !strings.Contains(out.String(), "request_id=unknown") {
			t.Errorf("log should contain request_id=unknown, got: %s", out.String())
		}
	})

	t.Run("query only when present", func(t *testing.T) {
		out.Reset()
		serveWithID(handler, http.MethodGet, "/v1/therapies", "q-1")
		if strings.Contains(out.String(), "query=") {
			t.Errorf("log should not contain 'query=' when empty, got: %s", out.String())
		}

		out.Reset()
		serveWithID(handler, http.MethodGet, "/v1/risk/five-year?tenYear=19", "q-2")
		if !strings.Contains(out.String(), "tenYear=19") {
			t.Errorf("log should contain the query, got: %s", out.String())
		}
	})
}

func TestLoggingMiddlewareServerErrorsAtErrorLevel(t *testing.T) {
	logger, out := newCapturingLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	serveWithID(handler, http.MethodGet, "/v1/therapies", "err-1")

	if !strings.Contains(out.String(), "level=ERROR") {
		t.Errorf("expected an error-level record, got: %s", out.String())
	}
}

func TestResponseWriterWrapper(t *testing.T) {
	recorder := httptest.NewRecorder()
	wrapper := &responseWriterWrapper{ResponseWriter: recorder, statusCode: http.StatusOK}

	wrapper.WriteHeader(http.StatusNotFound)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}

	data := []byte("test data")
	n, err := wrapper.Write(data)
	if err != nil {
		t.Errorf("Write failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
	}

	wrapper.WriteHeader(http.StatusInternalServerError)
	if wrapper.statusCode != http.StatusNotFound {
		t.Errorf("Status should stay %d after the first write, got %d", http.StatusNotFound, wrapper.statusCode)
	}

	if wrapper.bytesWritten != len(data) {
		t.Errorf("Expected bytesWritten %d, got %d", len(data), wrapper.bytesWritten)
	}
}
