package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rendertool/rendertool-api/internal/pkg/response"
	"github.com/rendertool/rendertool-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the auth routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/google", h.GoogleLogin)
	return r
}

// GoogleLogin handles POST /api/auth/google
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.LoginWithGoogle(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			response.Unauthorized(w, "Google token verification failed")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}
