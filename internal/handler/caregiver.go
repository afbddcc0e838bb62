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

// CaregiverHandler handles HTTP requests for caregiver operations.
type CaregiverHandler struct {
	svc    *service.CaregiverService
	logger *slog.Logger
}

// NewCaregiverHandler creates a new CaregiverHandler.
func NewCaregiverHandler(svc *service.CaregiverService, logger *slog.Logger) *CaregiverHandler {
	return &CaregiverHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /caregivers.
func (h *CaregiverHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	caregivers, err := h.svc.List(r.Context(), user)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, caregivers)
}

// Create handles POST /caregivers.
func (h *CaregiverHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.CreateCaregiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caregiver, err := h.svc.Create(r.Context(), user, service.CreateCaregiverInput{
		Name:      req.Name,
		Relation:  req.Relation,
		Phone:     req.Phone,
		Email:     req.Email,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("caregiver_created",
		"user_id", user.ID,
		"caregiver_id", caregiver.ID,
	)

	writeJSON(w, http.StatusCreated, caregiver)
}

// Update handles PUT /caregivers/{id}.
func (h *CaregiverHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var update model.CaregiverUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caregiver, err := h.svc.Update(r.Context(), user, id, update)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("caregiver_updated",
		"user_id", user.ID,
		"caregiver_id", caregiver.ID,
	)

	writeJSON(w, http.StatusOK, caregiver)
}

// Delete handles DELETE /caregivers/{id}.
func (h *CaregiverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), user, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("caregiver_deleted",
		"user_id", user.ID,
		"caregiver_id", id,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps caregiver service errors to HTTP responses.
func (h *CaregiverHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *service.ValidationError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, service.ErrCaregiverNotFound):
		writeError(w, http.StatusNotFound, "Caregiver not found")
	default:
		h.logger.Error("internal_error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Caregiver operation failed")
	}
}
