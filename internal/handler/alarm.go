package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medireminder/medireminder/internal/auth"
	"github.com/medireminder/medireminder/internal/handler/dto"
	"github.com/medireminder/medireminder/internal/model"
	"github.com/medireminder/medireminder/internal/service"
)

// AlarmHandler handles HTTP requests for alarm operations.
type AlarmHandler struct {
	svc    *service.AlarmService
	logger *slog.Logger
}

// NewAlarmHandler creates a new AlarmHandler.
func NewAlarmHandler(svc *service.AlarmService, logger *slog.Logger) *AlarmHandler {
	return &AlarmHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /alarms.
func (h *AlarmHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	alarms, err := h.svc.List(r.Context(), user)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, alarms)
}

// Create handles POST /alarms.
func (h *AlarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.CreateAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alarm, err := h.svc.Create(r.Context(), user, service.CreateAlarmInput{
		MedicationName: req.MedicationName,
		Dose:           req.Dose,
		ScheduledTime:  req.ScheduledTime,
		Status:         req.Status,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("alarm_created",
		"user_id", user.ID,
		"alarm_id", alarm.ID,
	)

	writeJSON(w, http.StatusCreated, alarm)
}

// Update handles PUT /alarms/{id}.
func (h *AlarmHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var update model.AlarmUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alarm, err := h.svc.Update(r.Context(), user, id, update)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("alarm_updated",
		"user_id", user.ID,
		"alarm_id", alarm.ID,
	)

	writeJSON(w, http.StatusOK, alarm)
}

// Delete handles DELETE /alarms/{id}.
func (h *AlarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), user, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("alarm_deleted",
		"user_id", user.ID,
		"alarm_id", id,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps alarm service errors to HTTP responses.
func (h *AlarmHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *service.ValidationError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, service.ErrAlarmNotFound):
		writeError(w, http.StatusNotFound, "Alarm not found")
	default:
		h.logger.Error("internal_error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Alarm operation failed")
	}
}
