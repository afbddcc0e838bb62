package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medireminder/medireminder/internal/auth"
	"github.com/medireminder/medireminder/internal/model"
)

type fakeValidator struct {
	user *model.AuthUser
	err  error
}

func (f *fakeValidator) CurrentUser(_ context.Context, token string) (*model.AuthUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedHandler(t *testing.T, gotUser **model.AuthUser) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if user == nil {
			t.Error("expected a user on the request context")
		}
		*gotUser = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	validator := &fakeValidator{user: &model.AuthUser{ID: "user-1", Email: "a@b.com"}}
	var gotUser *model.AuthUser
	mw := Auth(AuthConfig{Logger: discardLogger(), Validator: validator})
	handler := mw(authedHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/medicines", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser == nil || gotUser.ID != "user-1" {
		t.Errorf("context user = %+v, want user-1", gotUser)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bare token", "token-1"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := Auth(AuthConfig{Logger: discardLogger(), Validator: &fakeValidator{}})
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/medicines", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["detail"] != "Missing or invalid Authorization header" {
				t.Errorf("detail = %q", body["detail"])
			}
		})
	}
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	validator := &fakeValidator{user: &model.AuthUser{ID: "user-1"}}
	var gotUser *model.AuthUser
	mw := Auth(AuthConfig{Logger: discardLogger(), Validator: validator})
	handler := mw(authedHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/medicines", nil)
	req.Header.Set("Authorization", "bearer token-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := &fakeValidator{err: errors.New("invalid or expired token")}
	mw := Auth(AuthConfig{Logger: discardLogger(), Validator: validator})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/medicines", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["detail"] != "Invalid or expired token" {
		t.Errorf("detail = %q", body["detail"])
	}
}
