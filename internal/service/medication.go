package service

import (
	"context"
	"fmt"
	"time"

	"github.com/medireminder/medireminder/internal/metrics"
	"github.com/medireminder/medireminder/internal/model"
	"github.com/medireminder/medireminder/internal/supabase"
)

// RowStore is the row store surface the resource services need.
// *supabase.Client satisfies it; tests supply fakes.
type RowStore interface {
	Select(ctx context.Context, table string, filters supabase.Filters, orderBy string, dest any) error
	Insert(ctx context.Context, table string, row any, dest any) error
	Update(ctx context.Context, table string, filters supabase.Filters, fields map[string]any, dest any) error
	Delete(ctx context.Context, table string, filters supabase.Filters, dest any) error
}

// ownerFilter scopes a query to rows owned by the given user.
func ownerFilter(user *model.AuthUser) supabase.Filters {
	return supabase.Filters{"user_id": supabase.Eq(user.ID)}
}

// rowFilter scopes a query to a single row owned by the given user.
// Ownership is part of the filter, so a foreign row and a missing row
// are indistinguishable to the caller.
func rowFilter(user *model.AuthUser, id string) supabase.Filters {
	return supabase.Filters{
		"id":      supabase.Eq(id),
		"user_id": supabase.Eq(user.ID),
	}
}

// MedicationService handles medication CRUD against the row store.
type MedicationService struct {
	store   RowStore
	metrics metrics.Recorder
}

// NewMedicationService creates a new MedicationService.
func NewMedicationService(store RowStore, recorder metrics.Recorder) *MedicationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MedicationService{store: store, metrics: recorder}
}

// List returns all medications owned by the user in creation order.
// A user with no rows gets an empty slice, never an error.
func (s *MedicationService) List(ctx context.Context, user *model.AuthUser) ([]model.Medication, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveUpstreamDuration("medicines.list", time.Since(start)) }()

	rows := []model.Medication{}
	if err := s.store.Select(ctx, supabase.TableMedicines, ownerFilter(user), "created_at", &rows); err != nil {
		return nil, fmt.Errorf("fetch medications: %w", err)
	}
	return rows, nil
}

// CreateMedicationInput defines input for creating a medication.
type CreateMedicationInput struct {
	Name         string
	Dosage       string
	Frequency    string
	Time         string
	Instructions string
	Active       *bool  // defaults to true
	StartDate    string // ISO-8601 date, optional
}

// Create validates the input, stamps the owner, and inserts the row.
func (s *MedicationService) Create(ctx context.Context, user *model.AuthUser, input CreateMedicationInput) (*model.Medication, error) {
	switch {
	case input.Name == "":
		return nil, validationErrorf("name is required")
	case input.Dosage == "":
		return nil, validationErrorf("dosage is required")
	case input.Frequency == "":
		return nil, validationErrorf("frequency is required")
	case input.Time == "":
		return nil, validationErrorf("time is required")
	}
	if err := validateDate("start_date", input.StartDate); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	row := map[string]any{
		"user_id":      user.ID,
		"name":         input.Name,
		"dosage":       input.Dosage,
		"frequency":    input.Frequency,
		"time":         input.Time,
		"instructions": nullable(input.Instructions),
		"active":       active,
		"start_date":   nullable(input.StartDate),
	}

	start := time.Now()
	inserted := []model.Medication{}
	err := s.store.Insert(ctx, supabase.TableMedicines, row, &inserted)
	s.metrics.ObserveUpstreamDuration("medicines.insert", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("create medication: store returned no row")
	}

	s.metrics.IncResourceCreated(supabase.TableMedicines)
	return &inserted[0], nil
}

// Update applies the supplied fields to a medication owned by the user.
// The row must exist before the patch is issued; a missing or
// foreign-owned id yields ErrMedicationNotFound.
func (s *MedicationService) Update(ctx context.Context, user *model.AuthUser, id string, update model.MedicationUpdate) (*model.Medication, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil, validationErrorf("no fields to update")
	}
	if update.StartDate != nil {
		if err := validateDate("start_date", *update.StartDate); err != nil {
			return nil, err
		}
	}

	filters := rowFilter(user, id)

	existing := []model.Medication{}
	if err := s.store.Select(ctx, supabase.TableMedicines, filters, "", &existing); err != nil {
		return nil, fmt.Errorf("update medication: %w", err)
	}
	if len(existing) == 0 {
		return nil, ErrMedicationNotFound
	}

	start := time.Now()
	updated := []model.Medication{}
	err := s.store.Update(ctx, supabase.TableMedicines, filters, fields, &updated)
	s.metrics.ObserveUpstreamDuration("medicines.update", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("update medication: %w", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("update medication: store returned no row")
	}

	s.metrics.IncResourceUpdated(supabase.TableMedicines)
	return &updated[0], nil
}

// Delete removes a medication owned by the user.
func (s *MedicationService) Delete(ctx context.Context, user *model.AuthUser, id string) error {
	filters := rowFilter(user, id)

	existing := []model.Medication{}
	if err := s.store.Select(ctx, supabase.TableMedicines, filters, "", &existing); err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if len(existing) == 0 {
		return ErrMedicationNotFound
	}

	start := time.Now()
	deleted := []model.Medication{}
	err := s.store.Delete(ctx, supabase.TableMedicines, filters, &deleted)
	s.metrics.ObserveUpstreamDuration("medicines.delete", time.Since(start))
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if len(deleted) == 0 {
		return ErrMedicationNotFound
	}

	s.metrics.IncResourceDeleted(supabase.TableMedicines)
	return nil
}

// validateDate checks an optional ISO-8601 date field.
func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return validationErrorf("%s must be a valid date in YYYY-MM-DD format", field)
	}
	return nil
}
