package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/medireminder/medireminder/internal/auth"
	"github.com/medireminder/medireminder/internal/handler/dto"
	"github.com/medireminder/medireminder/internal/service"
)

// AuthHandler handles HTTP requests for signup, login, and the current user.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SignUp(r.Context(), service.SignUpInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		FullName:   req.FullName,
		Username:   req.Username,
		DOB:        req.DOB,
	})
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.logger.Info("user_signed_up",
		"user_id", result.User.ID,
		"has_email", result.User.Email != "",
	)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		User:        *result.User,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.LogIn(r.Context(), service.LogInInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.handleAuthError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", result.User.ID)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		User:        *result.User,
	})
}

// Me handles GET /auth/me. The auth middleware has already validated the
// token and stored the user on the request context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

// handleAuthError maps auth service errors to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *service.ValidationError
	var rejected *service.SignupRejectedError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &rejected):
		writeError(w, http.StatusBadRequest, "Signup failed: "+rejected.Reason)
	case errors.Is(err, service.ErrPendingVerification):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
	default:
		h.logger.Error("internal_error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
