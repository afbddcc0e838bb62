package service

import (
	"context"
	"errors"
	"testing"

	"github.com/medireminder/medireminder/internal/metrics"
	"github.com/medireminder/medireminder/internal/model"
	"github.com/medireminder/medireminder/internal/supabase"
)

func TestMedicationService_List(t *testing.T) {
	store := &fakeStore{
		selectFn: func(table string, filters supabase.Filters, orderBy string, dest any) error {
			if table != supabase.TableMedicines {
				t.Errorf("table = %q, want medicines", table)
			}
			if filters["user_id"] != "eq.user-1" {
				t.Errorf("filters = %v, want owner scoping", filters)
			}
			if orderBy != "created_at" {
				t.Errorf("orderBy = %q, want created_at", orderBy)
			}
			fill(t, dest, []map[string]any{
				{"id": 1, "user_id": "user-1", "name": "Aspirin", "dosage": "100mg", "frequency": "daily", "time": "08:00", "active": true},
			})
			return nil
		},
	}
	svc := NewMedicationService(store, nil)

	rows, err := svc.List(context.Background(), testUser())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Aspirin" {
		t.Errorf("List() = %+v, want the Aspirin row", rows)
	}
}

func TestMedicationService_ListEmpty(t *testing.T) {
	svc := NewMedicationService(&fakeStore{}, nil)

	rows, err := svc.List(context.Background(), testUser())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("List() = %v, want an empty non-nil slice", rows)
	}
}

func TestMedicationService_ListStoreError(t *testing.T) {
	storeErr := errors.New("storage unavailable")
	store := &fakeStore{
		selectFn: func(string, supabase.Filters, string, any) error { return storeErr },
	}
	svc := NewMedicationService(store, nil)

	if _, err := svc.List(context.Background(), testUser()); !errors.Is(err, storeErr) {
		t.Errorf("List() error = %v, want wrapped store error", err)
	}
}

func TestMedicationService_Create(t *testing.T) {
	var gotRow map[string]any
	store := &fakeStore{
		insertFn: func(table string, row map[string]any, dest any) error {
			gotRow = row
			row["id"] = 7
			fill(t, dest, []map[string]any{row})
			return nil
		},
	}
	recorder := metrics.NewInMemory()
	svc := NewMedicationService(store, recorder)

	med, err := svc.Create(context.Background(), testUser(), CreateMedicationInput{
		Name:      "Aspirin",
		Dosage:    "100mg",
		Frequency: "daily",
		Time:      "08:00",
		StartDate: "2026-01-01",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if gotRow["user_id"] != "user-1" {
		t.Errorf("row user_id = %v, want the owner's id", gotRow["user_id"])
	}
	if gotRow["active"] != true {
		t.Errorf("row active = %v, want the true default", gotRow["active"])
	}
	if gotRow["instructions"] != nil {
		t.Errorf("row instructions = %v, want null for empty input", gotRow["instructions"])
	}
	if med.Name != "Aspirin" || !med.Active {
		t.Errorf("Create() = %+v, want the inserted row", med)
	}
	if recorder.Snapshot().ResourceCreated[supabase.TableMedicines] != 1 {
		t.Error("expected the create counter to increment")
	}
}

func TestMedicationService_CreateInactive(t *testing.T) {
	var gotRow map[string]any
	store := &fakeStore{
		insertFn: func(table string, row map[string]any, dest any) error {
			gotRow = row
			fill(t, dest, []map[string]any{row})
			return nil
		},
	}
	svc := NewMedicationService(store, nil)

	_, err := svc.Create(context.Background(), testUser(), CreateMedicationInput{
		Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Time: "08:00",
		Active: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if gotRow["active"] != false {
		t.Errorf("row active = %v, want the explicit false", gotRow["active"])
	}
}

func TestMedicationService_CreateValidation(t *testing.T) {
	svc := NewMedicationService(&fakeStore{}, nil)

	valid := CreateMedicationInput{Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Time: "08:00"}

	tests := []struct {
		name   string
		mutate func(*CreateMedicationInput)
	}{
		{"missing name", func(in *CreateMedicationInput) { in.Name = "" }},
		{"missing dosage", func(in *CreateMedicationInput) { in.Dosage = "" }},
		{"missing frequency", func(in *CreateMedicationInput) { in.Frequency = "" }},
		{"missing time", func(in *CreateMedicationInput) { in.Time = "" }},
		{"malformed start_date", func(in *CreateMedicationInput) { in.StartDate = "01/01/2026" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), testUser(), input)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Errorf("Create() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestMedicationService_CreateNoRowReturned(t *testing.T) {
	svc := NewMedicationService(&fakeStore{}, nil)

	_, err := svc.Create(context.Background(), testUser(), CreateMedicationInput{
		Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Time: "08:00",
	})
	if err == nil {
		t.Error("Create() error = nil, want an error when the store returns no row")
	}
}

func TestMedicationService_Update(t *testing.T) {
	var gotFields map[string]any
	store := &fakeStore{
		selectFn: func(table string, filters supabase.Filters, orderBy string, dest any) error {
			if filters["id"] != "eq.7" || filters["user_id"] != "eq.user-1" {
				t.Errorf("precondition filters = %v, want id and owner", filters)
			}
			fill(t, dest, []map[string]any{{"id": 7, "user_id": "user-1", "name": "Aspirin"}})
			return nil
		},
		updateFn: func(table string, filters supabase.Filters, fields map[string]any, dest any) error {
			gotFields = fields
			fill(t, dest, []map[string]any{{"id": 7, "user_id": "user-1", "name": "Ibuprofen"}})
			return nil
		},
	}
	svc := NewMedicationService(store, nil)

	med, err := svc.Update(context.Background(), testUser(), "7", model.MedicationUpdate{Name: strPtr("Ibuprofen")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(gotFields) != 1 || gotFields["name"] != "Ibuprofen" {
		t.Errorf("patched fields = %v, want only name", gotFields)
	}
	if med.Name != "Ibuprofen" {
		t.Errorf("Update() = %+v, want the patched row", med)
	}
}

func TestMedicationService_UpdateNoFields(t *testing.T) {
	svc := NewMedicationService(&fakeStore{}, nil)

	_, err := svc.Update(context.Background(), testUser(), "7", model.MedicationUpdate{})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Update() error = %v, want *ValidationError", err)
	}
}

func TestMedicationService_UpdateNotFound(t *testing.T) {
	// Precondition select matches nothing: missing row or foreign owner.
	svc := NewMedicationService(&fakeStore{}, nil)

	_, err := svc.Update(context.Background(), testUser(), "7", model.MedicationUpdate{Name: strPtr("Ibuprofen")})
	if !errors.Is(err, ErrMedicationNotFound) {
		t.Errorf("Update() error = %v, want ErrMedicationNotFound", err)
	}
}

func TestMedicationService_UpdateBadStartDate(t *testing.T) {
	svc := NewMedicationService(&fakeStore{}, nil)

	_, err := svc.Update(context.Background(), testUser(), "7", model.MedicationUpdate{StartDate: strPtr("soon")})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Update() error = %v, want *ValidationError", err)
	}
}

func TestMedicationService_Delete(t *testing.T) {
	store := &fakeStore{
		selectFn: func(table string, filters supabase.Filters, orderBy string, dest any) error {
			fill(t, dest, []map[string]any{{"id": 7, "user_id": "user-1"}})
			return nil
		},
		deleteFn: func(table string, filters supabase.Filters, dest any) error {
			fill(t, dest, []map[string]any{{"id": 7, "user_id": "user-1"}})
			return nil
		},
	}
	recorder := metrics.NewInMemory()
	svc := NewMedicationService(store, recorder)

	if err := svc.Delete(context.Background(), testUser(), "7"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if recorder.Snapshot().ResourceDeleted[supabase.TableMedicines] != 1 {
		t.Error("expected the delete counter to increment")
	}
}

func TestMedicationService_DeleteNotFound(t *testing.T) {
	svc := NewMedicationService(&fakeStore{}, nil)

	if err := svc.Delete(context.Background(), testUser(), "7"); !errors.Is(err, ErrMedicationNotFound) {
		t.Errorf("Delete() error = %v, want ErrMedicationNotFound", err)
	}
}

func TestMedicationService_DeleteRaceLost(t *testing.T) {
	// The row vanished between the precondition select and the delete.
	store := &fakeStore{
		selectFn: func(table string, filters supabase.Filters, orderBy string, dest any) error {
			fill(t, dest, []map[string]any{{"id": 7, "user_id": "user-1"}})
			return nil
		},
	}
	svc := NewMedicationService(store, nil)

	if err := svc.Delete(context.Background(), testUser(), "7"); !errors.Is(err, ErrMedicationNotFound) {
		t.Errorf("Delete() error = %v, want ErrMedicationNotFound", err)
	}
}
