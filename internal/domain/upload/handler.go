package upload

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rendertool/rendertool-api/internal/middleware"
	"github.com/rendertool/rendertool-api/internal/pkg/imaging"
	"github.com/rendertool/rendertool-api/internal/pkg/response"
)

// Handler handles upload HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new upload handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the upload routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.UploadFile)
	return r
}

// UploadFile handles POST /api/upload
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > imaging.MaxFileSize {
		response.BadRequest(w, "File exceeds the 10MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.service.UploadFile(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	response.OK(w, result)
}

// UploadAvatar handles POST /api/users/avatar
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	result, err := h.service.UploadAvatar(r.Context(), accountID, header.Filename, header.Size, file)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	response.OK(w, result)
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidFileType):
		response.BadRequest(w, "Unsupported file type")
	case errors.Is(err, ErrFileTooLarge):
		response.BadRequest(w, "File exceeds the 10MB limit")
	case errors.Is(err, ErrNotConfigured):
		response.Error(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "File storage is not configured")
	default:
		response.InternalError(w)
	}
}
