package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/medireminder/medireminder/internal/model"
	"github.com/medireminder/medireminder/internal/supabase"
)

// fakeProvider implements AuthProvider with per-test function fields.
type fakeProvider struct {
	signUpFn  func(params supabase.SignUpParams) (*supabase.Session, error)
	signInFn  func(creds supabase.Credentials) (*supabase.Session, error)
	getUserFn func(token string) (*model.AuthUser, error)
}

func (f *fakeProvider) SignUp(_ context.Context, params supabase.SignUpParams) (*supabase.Session, error) {
	return f.signUpFn(params)
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, creds supabase.Credentials) (*supabase.Session, error) {
	return f.signInFn(creds)
}

func (f *fakeProvider) GetUser(_ context.Context, token string) (*model.AuthUser, error) {
	return f.getUserFn(token)
}

// fakeStore implements RowStore with per-test function fields. Calls
// whose field is nil succeed and leave dest untouched.
type fakeStore struct {
	selectFn func(table string, filters supabase.Filters, orderBy string, dest any) error
	insertFn func(table string, row map[string]any, dest any) error
	updateFn func(table string, filters supabase.Filters, fields map[string]any, dest any) error
	deleteFn func(table string, filters supabase.Filters, dest any) error
}

func (f *fakeStore) Select(_ context.Context, table string, filters supabase.Filters, orderBy string, dest any) error {
	if f.selectFn == nil {
		return nil
	}
	return f.selectFn(table, filters, orderBy, dest)
}

func (f *fakeStore) Insert(_ context.Context, table string, row any, dest any) error {
	if f.insertFn == nil {
		return nil
	}
	return f.insertFn(table, row.(map[string]any), dest)
}

func (f *fakeStore) Update(_ context.Context, table string, filters supabase.Filters, fields map[string]any, dest any) error {
	if f.updateFn == nil {
		return nil
	}
	return f.updateFn(table, filters, fields, dest)
}

func (f *fakeStore) Delete(_ context.Context, table string, filters supabase.Filters, dest any) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(table, filters, dest)
}

// fill decodes rows into dest through JSON, the same way the real store
// client populates result slices.
func fill(t *testing.T, dest any, rows any) {
	t.Helper()
	raw, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal fake rows: %v", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		t.Fatalf("unmarshal fake rows: %v", err)
	}
}

func testUser() *model.AuthUser {
	return &model.AuthUser{
		ID:           "user-1",
		Email:        "a@b.com",
		UserMetadata: map[string]any{},
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
