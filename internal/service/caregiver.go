package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/medireminder/medireminder/internal/metrics"
	"github.com/medireminder/medireminder/internal/model"
	"github.com/medireminder/medireminder/internal/supabase"
)

// CaregiverService handles caregiver CRUD against the row store.
type CaregiverService struct {
	store   RowStore
	metrics metrics.Recorder
}

// NewCaregiverService creates a new CaregiverService.
func NewCaregiverService(store RowStore, recorder metrics.Recorder) *CaregiverService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CaregiverService{store: store, metrics: recorder}
}

// List returns all caregivers owned by the user in creation order.
func (s *CaregiverService) List(ctx context.Context, user *model.AuthUser) ([]model.Caregiver, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveUpstreamDuration("caregivers.list", time.Since(start)) }()

	rows := []model.Caregiver{}
	if err := s.store.Select(ctx, supabase.TableCaregivers, ownerFilter(user), "created_at", &rows); err != nil {
		return nil, fmt.Errorf("fetch caregivers: %w", err)
	}
	return rows, nil
}

// CreateCaregiverInput defines input for creating a caregiver.
type CreateCaregiverInput struct {
	Name      string
	Relation  string
	Phone     string
	Email     string
	IsPrimary bool
}

// Create validates the input, stamps the owner, and inserts the row.
func (s *CaregiverService) Create(ctx context.Context, user *model.AuthUser, input CreateCaregiverInput) (*model.Caregiver, error) {
	if input.Name == "" {
		return nil, validationErrorf("name is required")
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}

	row := map[string]any{
		"user_id":    user.ID,
		"name":       input.Name,
		"relation":   nullable(input.Relation),
		"phone":      nullable(input.Phone),
		"email":      nullable(input.Email),
		"is_primary": input.IsPrimary,
	}

	start := time.Now()
	inserted := []model.Caregiver{}
	err := s.store.Insert(ctx, supabase.TableCaregivers, row, &inserted)
	s.metrics.ObserveUpstreamDuration("caregivers.insert", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("create caregiver: %w", err)
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("create caregiver: store returned no row")
	}

	s.metrics.IncResourceCreated(supabase.TableCaregivers)
	return &inserted[0], nil
}

// Update applies the supplied fields to a caregiver owned by the user.
func (s *CaregiverService) Update(ctx context.Context, user *model.AuthUser, id string, update model.CaregiverUpdate) (*model.Caregiver, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil, validationErrorf("no fields to update")
	}
	if update.Email != nil {
		if err := validateEmail(*update.Email); err != nil {
			return nil, err
		}
	}

	filters := rowFilter(user, id)

	existing := []model.Caregiver{}
	if err := s.store.Select(ctx, supabase.TableCaregivers, filters, "", &existing); err != nil {
		return nil, fmt.Errorf("update caregiver: %w", err)
	}
	if len(existing) == 0 {
		return nil, ErrCaregiverNotFound
	}

	start := time.Now()
	updated := []model.Caregiver{}
	err := s.store.Update(ctx, supabase.TableCaregivers, filters, fields, &updated)
	s.metrics.ObserveUpstreamDuration("caregivers.update", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("update caregiver: %w", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("update caregiver: store returned no row")
	}

	s.metrics.IncResourceUpdated(supabase.TableCaregivers)
	return &updated[0], nil
}

// Delete removes a caregiver owned by the user.
func (s *CaregiverService) Delete(ctx context.Context, user *model.AuthUser, id string) error {
	filters := rowFilter(user, id)

	existing := []model.Caregiver{}
	if err := s.store.Select(ctx, supabase.TableCaregivers, filters, "", &existing); err != nil {
		return fmt.Errorf("delete caregiver: %w", err)
	}
	if len(existing) == 0 {
		return ErrCaregiverNotFound
	}

	start := time.Now()
	deleted := []model.Caregiver{}
	err := s.store.Delete(ctx, supabase.TableCaregivers, filters, &deleted)
	s.metrics.ObserveUpstreamDuration("caregivers.delete", time.Since(start))
	if err != nil {
		return fmt.Errorf("delete caregiver: %w", err)
	}
	if len(deleted) == 0 {
		return ErrCaregiverNotFound
	}

	s.metrics.IncResourceDeleted(supabase.TableCaregivers)
	return nil
}

// validateEmail checks optional email syntax.
func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationErrorf("email must be a valid email address")
	}
	return nil
}
