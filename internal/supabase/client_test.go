package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medireminder/medireminder/internal/testutil"
)

func TestClient_RequestHeaders(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := New(ts.URL, "service-key")
	var rows []map[string]any
	if err := c.Select(context.Background(), TableMedicines, Filters{"user_id": Eq("u1")}, "created_at", &rows); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if got.Header.Get("apikey") != "service-key" {
		t.Errorf("apikey header = %q, want %q", got.Header.Get("apikey"), "service-key")
	}
	if got.Header.Get("Authorization") != "Bearer service-key" {
		t.Errorf("Authorization header = %q, want service key bearer", got.Header.Get("Authorization"))
	}
	if got.URL.Path != "/rest/v1/medicines" {
		t.Errorf("path = %q, want /rest/v1/medicines", got.URL.Path)
	}
	query := got.URL.Query()
	if query.Get("user_id") != "eq.u1" {
		t.Errorf("user_id filter = %q, want eq.u1", query.Get("user_id"))
	}
	if query.Get("order") != "created_at.asc" {
		t.Errorf("order = %q, want created_at.asc", query.Get("order"))
	}
}

func TestClient_GetUserSendsCallerToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer caller-token" {
			t.Errorf("Authorization header = %q, want caller token", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            12345,
			"email":         "a@b.com",
			"user_metadata": map[string]any{"full_name": "Alice"},
		})
	}))
	defer ts.Close()

	c := New(ts.URL, "service-key")
	user, err := c.GetUser(context.Background(), "caller-token")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}

	// Numeric ids are stringified at this boundary.
	if user.ID != "12345" {
		t.Errorf("user.ID = %q, want %q", user.ID, "12345")
	}
	if user.UserMetadata["full_name"] != "Alice" {
		t.Errorf("user_metadata not preserved: %v", user.UserMetadata)
	}
}

func TestClient_SignUpReturnsSession(t *testing.T) {
	fake := testutil.NewFakeSupabase()
	defer fake.Close()

	c := New(fake.URL(), "service-key")
	session, err := c.SignUp(context.Background(), SignUpParams{
		Credentials: Credentials{Email: "a@b.com", Password: "secret"},
		Data:        map[string]any{"full_name": "Alice"},
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if session.AccessToken == "" {
		t.Error("expected an access token")
	}
	if session.User == nil {
		t.Fatal("expected a user")
	}
	if session.User.Email != "a@b.com" {
		t.Errorf("user.Email = %q, want a@b.com", session.User.Email)
	}
}

func TestClient_SignUpPendingVerification(t *testing.T) {
	fake := testutil.NewFakeSupabase()
	fake.RequireVerification = true
	defer fake.Close()

	c := New(fake.URL(), "service-key")
	session, err := c.SignUp(context.Background(), SignUpParams{
		Credentials: Credentials{Email: "a@b.com", Password: "secret"},
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	// Bare user shape: the user was created but no session issued yet.
	if session.AccessToken != "" {
		t.Errorf("AccessToken = %q, want empty", session.AccessToken)
	}
	if session.User == nil {
		t.Error("expected the bare user to be normalized")
	}
}

func TestClient_SignUpDuplicate(t *testing.T) {
	fake := testutil.NewFakeSupabase()
	defer fake.Close()

	c := New(fake.URL(), "service-key")
	params := SignUpParams{Credentials: Credentials{Email: "a@b.com", Password: "secret"}}
	if _, err := c.SignUp(context.Background(), params); err != nil {
		t.Fatalf("first SignUp() error = %v", err)
	}

	_, err := c.SignUp(context.Background(), params)
	var upstream *Error
	if !errors.As(err, &upstream) {
		t.Fatalf("second SignUp() error = %v, want *Error", err)
	}
	if upstream.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", upstream.Status)
	}
	if upstream.Message != "User already registered" {
		t.Errorf("Message = %q, want provider msg", upstream.Message)
	}
}

func TestClient_SignInWithPhone(t *testing.T) {
	fake := testutil.NewFakeSupabase()
	defer fake.Close()

	c := New(fake.URL(), "service-key")
	if _, err := c.SignUp(context.Background(), SignUpParams{
		Credentials: Credentials{Phone: "15551234567", Password: "secret"},
	}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	session, err := c.SignInWithPassword(context.Background(), Credentials{Phone: "15551234567", Password: "secret"})
	if err != nil {
		t.Fatalf("SignInWithPassword() error = %v", err)
	}
	if session.User.Phone != "15551234567" {
		t.Errorf("user.Phone = %q, want the phone identifier", session.User.Phone)
	}
}

func TestClient_SignInBadPassword(t *testing.T) {
	fake := testutil.NewFakeSupabase()
	defer fake.Close()

	c := New(fake.URL(), "service-key")
	if _, err := c.SignUp(context.Background(), SignUpParams{
		Credentials: Credentials{Email: "a@b.com", Password: "secret"},
	}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	_, err := c.SignInWithPassword(context.Background(), Credentials{Email: "a@b.com", Password: "wrong"})
	var upstream *Error
	if !errors.As(err, &upstream) {
		t.Fatalf("SignInWithPassword() error = %v, want *Error", err)
	}
	if upstream.Message != "Invalid login credentials" {
		t.Errorf("Message = %q, want error_description text", upstream.Message)
	}
}

func TestClient_InsertUpdateDelete(t *testing.T) {
	fake := testutil.NewFakeSupabase()
	defer fake.Close()

	ctx := context.Background()
	c := New(fake.URL(), "service-key")

	inserted := []map[string]any{}
	err := c.Insert(ctx, TableAlarms, map[string]any{"user_id": "u1", "medication_name": "Aspirin"}, &inserted)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if len(inserted) != 1 {
		t.Fatalf("Insert() returned %d rows, want 1", len(inserted))
	}
	if inserted[0]["id"] == nil {
		t.Fatal("expected the store to assign an id")
	}

	filters := Filters{"id": Eq("1"), "user_id": Eq("u1")}

	updated := []map[string]any{}
	if err := c.Update(ctx, TableAlarms, filters, map[string]any{"status": "taken"}, &updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated) != 1 || updated[0]["status"] != "taken" {
		t.Errorf("Update() rows = %v, want one row with status taken", updated)
	}

	deleted := []map[string]any{}
	if err := c.Delete(ctx, TableAlarms, filters, &deleted); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(deleted) != 1 {
		t.Errorf("Delete() returned %d rows, want 1", len(deleted))
	}

	remaining := []map[string]any{}
	if err := c.Select(ctx, TableAlarms, Filters{"user_id": Eq("u1")}, "", &remaining); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Select() after delete = %v, want empty", remaining)
	}
}

func TestDecodeError_MessageVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"gotrue msg", `{"msg":"User already registered"}`, "User already registered"},
		{"postgrest message", `{"message":"relation does not exist"}`, "relation does not exist"},
		{"oauth description", `{"error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"bare error", `{"error":"invalid_grant"}`, "invalid_grant"},
		{"non-json", `upstream exploded`, "upstream exploded"},
		{"empty body", ``, "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			err := New(ts.URL, "key").Ping(context.Background())
			var upstream *Error
			if !errors.As(err, &upstream) {
				t.Fatalf("Ping() error = %v, want *Error", err)
			}
			if upstream.Message != tt.want {
				t.Errorf("Message = %q, want %q", upstream.Message, tt.want)
			}
		})
	}
}

func TestClient_Ping(t *testing.T) {
	fake := testutil.NewFakeSupabase()
	defer fake.Close()

	if err := New(fake.URL(), "key").Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v, want nil", err)
	}
}
