package service

import (
	"context"
	"fmt"
	"time"

	"github.com/medireminder/medireminder/internal/metrics"
	"github.com/medireminder/medireminder/internal/model"
	"github.com/medireminder/medireminder/internal/supabase"
)

// AlarmService handles alarm CRUD against the row store.
type AlarmService struct {
	store   RowStore
	metrics metrics.Recorder
}

// NewAlarmService creates a new AlarmService.
func NewAlarmService(store RowStore, recorder metrics.Recorder) *AlarmService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AlarmService{store: store, metrics: recorder}
}

// List returns all alarms owned by the user ordered by scheduled time.
func (s *AlarmService) List(ctx context.Context, user *model.AuthUser) ([]model.Alarm, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveUpstreamDuration("alarms.list", time.Since(start)) }()

	rows := []model.Alarm{}
	if err := s.store.Select(ctx, supabase.TableAlarms, ownerFilter(user), "scheduled_time", &rows); err != nil {
		return nil, fmt.Errorf("fetch alarms: %w", err)
	}
	return rows, nil
}

// CreateAlarmInput defines input for creating an alarm.
type CreateAlarmInput struct {
	MedicationName string
	Dose           string
	ScheduledTime  string // "HH:MM" in 24-hour form
	Status         string // defaults to upcoming
}

// Create validates the input, stamps the owner, and inserts the row.
func (s *AlarmService) Create(ctx context.Context, user *model.AuthUser, input CreateAlarmInput) (*model.Alarm, error) {
	if input.MedicationName == "" {
		return nil, validationErrorf("medication_name is required")
	}
	if input.ScheduledTime == "" {
		return nil, validationErrorf("scheduled_time is required")
	}

	status := input.Status
	if status == "" {
		status = string(model.AlarmStatusUpcoming)
	}

	row := map[string]any{
		"user_id":         user.ID,
		"medication_name": input.MedicationName,
		"dose":            nullable(input.Dose),
		"scheduled_time":  input.ScheduledTime,
		"status":          status,
	}

	start := time.Now()
	inserted := []model.Alarm{}
	err := s.store.Insert(ctx, supabase.TableAlarms, row, &inserted)
	s.metrics.ObserveUpstreamDuration("alarms.insert", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("create alarm: %w", err)
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("create alarm: store returned no row")
	}

	s.metrics.IncResourceCreated(supabase.TableAlarms)
	return &inserted[0], nil
}

// Update applies the supplied fields to an alarm owned by the user.
// Status values are passed through without transition checks; the
// caller owns the upcoming/taken/missed lifecycle.
func (s *AlarmService) Update(ctx context.Context, user *model.AuthUser, id string, update model.AlarmUpdate) (*model.Alarm, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil, validationErrorf("no fields to update")
	}

	filters := rowFilter(user, id)

	existing := []model.Alarm{}
	if err := s.store.Select(ctx, supabase.TableAlarms, filters, "", &existing); err != nil {
		return nil, fmt.Errorf("update alarm: %w", err)
	}
	if len(existing) == 0 {
		return nil, ErrAlarmNotFound
	}

	start := time.Now()
	updated := []model.Alarm{}
	err := s.store.Update(ctx, supabase.TableAlarms, filters, fields, &updated)
	s.metrics.ObserveUpstreamDuration("alarms.update", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("update alarm: %w", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("update alarm: store returned no row")
	}

	s.metrics.IncResourceUpdated(supabase.TableAlarms)
	return &updated[0], nil
}

// Delete removes an alarm owned by the user.
func (s *AlarmService) Delete(ctx context.Context, user *model.AuthUser, id string) error {
	filters := rowFilter(user, id)

	existing := []model.Alarm{}
	if err := s.store.Select(ctx, supabase.TableAlarms, filters, "", &existing); err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	if len(existing) == 0 {
		return ErrAlarmNotFound
	}

	start := time.Now()
	deleted := []model.Alarm{}
	err := s.store.Delete(ctx, supabase.TableAlarms, filters, &deleted)
	s.metrics.ObserveUpstreamDuration("alarms.delete", time.Since(start))
	if err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	if len(deleted) == 0 {
		return ErrAlarmNotFound
	}

	s.metrics.IncResourceDeleted(supabase.TableAlarms)
	return nil
}
