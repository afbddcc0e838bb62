package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	var fromContext string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if fromContext == "" {
		t.Error("expected a generated request id on the context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != fromContext {
		t.Errorf("X-Request-ID header = %q, want %q", got, fromContext)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var fromContext string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if fromContext != "client-supplied-id" {
		t.Errorf("request id = %q, want the client's id kept", fromContext)
	}
}
