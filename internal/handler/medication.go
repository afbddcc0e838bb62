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

// MedicationHandler handles HTTP requests for medication operations.
type MedicationHandler struct {
	svc    *service.MedicationService
	logger *slog.Logger
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(svc *service.MedicationService, logger *slog.Logger) *MedicationHandler {
	return &MedicationHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /medicines.
func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	medications, err := h.svc.List(r.Context(), user)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, medications)
}

// Create handles POST /medicines.
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.CreateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	medication, err := h.svc.Create(r.Context(), user, service.CreateMedicationInput{
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Time:         req.Time,
		Instructions: req.Instructions,
		Active:       req.Active,
		StartDate:    req.StartDate,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("medication_created",
		"user_id", user.ID,
		"medication_id", medication.ID,
	)

	writeJSON(w, http.StatusCreated, medication)
}

// Update handles PUT /medicines/{id}.
func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var update model.MedicationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	medication, err := h.svc.Update(r.Context(), user, id, update)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("medication_updated",
		"user_id", user.ID,
		"medication_id", medication.ID,
	)

	writeJSON(w, http.StatusOK, medication)
}

// Delete handles DELETE /medicines/{id}.
func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), user, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("medication_deleted",
		"user_id", user.ID,
		"medication_id", id,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps medication service errors to HTTP responses.
func (h *MedicationHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *service.ValidationError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, service.ErrMedicationNotFound):
		writeError(w, http.StatusNotFound, "Medication not found")
	default:
		h.logger.Error("internal_error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Medication operation failed")
	}
}
