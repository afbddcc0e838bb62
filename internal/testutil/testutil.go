// Package testutil provides test helpers, including an in-memory fake of
// the hosted auth and REST APIs so tests never need network access.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// FakeUser is a user account registered with the fake provider.
type FakeUser struct {
	ID       string
	Email    string
	Phone    string
	Password string
	Metadata map[string]any
}

// FakeSupabase is an httptest-backed stand-in for the auth and REST
// APIs. It stores users, tokens, and table rows in memory.
type FakeSupabase struct {
	Server *httptest.Server

	// RequireVerification makes signup return a bare user with no
	// session, mimicking pending email/phone confirmation.
	RequireVerification bool

	// FailRest makes every /rest/v1 call return 500.
	FailRest bool

	mu     sync.Mutex
	users  map[string]*FakeUser // keyed by identifier (email or phone)
	tokens map[string]*FakeUser // keyed by access token
	tables map[string][]map[string]any
	nextID int
}

// NewFakeSupabase starts the fake server. Callers must Close it.
func NewFakeSupabase() *FakeSupabase {
	f := &FakeSupabase{
		users:  make(map[string]*FakeUser),
		tokens: make(map[string]*FakeUser),
		tables: make(map[string][]map[string]any),
		nextID: 1,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.route))
	return f
}

// Close shuts down the fake server.
func (f *FakeSupabase) Close() {
	f.Server.Close()
}

// URL returns the fake project base URL.
func (f *FakeSupabase) URL() string {
	return f.Server.URL
}

// Rows returns a copy of the rows stored in a table.
func (f *FakeSupabase) Rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]map[string]any, len(f.tables[table]))
	copy(rows, f.tables[table])
	return rows
}

func (f *FakeSupabase) route(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/auth/v1/health":
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/auth/v1/signup" && r.Method == http.MethodPost:
		f.handleSignup(w, r)
	case r.URL.Path == "/auth/v1/token" && r.Method == http.MethodPost:
		f.handleToken(w, r)
	case r.URL.Path == "/auth/v1/user" && r.Method == http.MethodGet:
		f.handleGetUser(w, r)
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		f.handleRest(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

type credentialsRequest struct {
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data"`
}

func (req credentialsRequest) identifier() string {
	if req.Email != "" {
		return req.Email
	}
	return req.Phone
}

func (f *FakeSupabase) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid body"})
		return
	}

	f.mu.Lock()
	identifier := req.identifier()
	if _, exists := f.users[identifier]; exists {
		f.mu.Unlock()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"msg": "User already registered"})
		return
	}

	user := &FakeUser{
		ID:       fmt.Sprintf("user-%d", f.nextID),
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Metadata: req.Data,
	}
	f.nextID++
	f.users[identifier] = user

	if f.RequireVerification {
		f.mu.Unlock()
		// Bare user object, no session
		writeJSON(w, http.StatusOK, userObject(user))
		return
	}

	token := fmt.Sprintf("token-%s-%d", user.ID, f.nextID)
	f.nextID++
	f.tokens[token] = user
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userObject(user),
	})
}

func (f *FakeSupabase) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "unsupported grant type"})
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "invalid body"})
		return
	}

	f.mu.Lock()
	user := f.users[req.identifier()]
	if user == nil || user.Password != req.Password {
		f.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "Invalid login credentials"})
		return
	}

	token := fmt.Sprintf("token-%s-%d", user.ID, f.nextID)
	f.nextID++
	f.tokens[token] = user
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userObject(user),
	})
}

func (f *FakeSupabase) handleGetUser(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	f.mu.Lock()
	user := f.tokens[token]
	f.mu.Unlock()

	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid JWT"})
		return
	}
	writeJSON(w, http.StatusOK, userObject(user))
}

// handleRest implements enough of the REST API for the gateway: select
// with equality filters and ascending order, insert, patch, and delete,
// all returning representations.
func (f *FakeSupabase) handleRest(w http.ResponseWriter, r *http.Request) {
	if f.FailRest {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "storage unavailable"})
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")

	filters := map[string]string{}
	for key, values := range r.URL.Query() {
		if key == "select" || key == "order" {
			continue
		}
		value := values[0]
		if strings.HasPrefix(value, "eq.") {
			filters[key] = strings.TrimPrefix(value, "eq.")
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, f.matching(table, filters))
	case http.MethodPost:
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		row["id"] = float64(f.nextID)
		f.nextID++
		f.tables[table] = append(f.tables[table], row)
		writeJSON(w, http.StatusCreated, []map[string]any{row})
	case http.MethodPatch:
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
			return
		}
		updated := []map[string]any{}
		for _, row := range f.tables[table] {
			if rowMatches(row, filters) {
				for key, value := range fields {
					row[key] = value
				}
				updated = append(updated, row)
			}
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		deleted := []map[string]any{}
		remaining := []map[string]any{}
		for _, row := range f.tables[table] {
			if rowMatches(row, filters) {
				deleted = append(deleted, row)
			} else {
				remaining = append(remaining, row)
			}
		}
		f.tables[table] = remaining
		writeJSON(w, http.StatusOK, deleted)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

// matching returns rows matching all filters. Caller holds the lock.
func (f *FakeSupabase) matching(table string, filters map[string]string) []map[string]any {
	rows := []map[string]any{}
	for _, row := range f.tables[table] {
		if rowMatches(row, filters) {
			rows = append(rows, row)
		}
	}
	return rows
}

func rowMatches(row map[string]any, filters map[string]string) bool {
	for column, want := range filters {
		if fmt.Sprint(row[column]) != want {
			return false
		}
	}
	return true
}

func userObject(user *FakeUser) map[string]any {
	metadata := user.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"id":            user.ID,
		"email":         user.Email,
		"phone":         user.Phone,
		"user_metadata": metadata,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
