package payment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rendertool/rendertool-api/internal/middleware"
	"github.com/rendertool/rendertool-api/internal/pkg/response"
	"github.com/rendertool/rendertool-api/internal/pkg/validator"
)

// webhookBodyLimit caps gateway payloads at 64 KiB
const webhookBodyLimit = 64 << 10

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the payment routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/packages", h.ListPackages)
	r.Post("/create-order", h.CreateOrder)
	r.Get("/{transactionID}/status", h.GetStatus)
	r.Post("/webhook", h.Webhook)
	return r
}

// ListPackages handles GET /api/payments/packages
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]interface{}{"packages": Catalog})
}

// CreateOrder handles POST /api/payments/create-order
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	// Authenticated callers are bound to their own account; the email
	// fallback is for anonymous purchases only.
	accountID := middleware.GetAccountID(r.Context())

	order, err := h.service.CreateOrder(r.Context(), accountID, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidPackage) {
			response.BadRequest(w, "Unknown coin package")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, order)
}

// GetStatus handles GET /api/payments/{transactionID}/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	if transactionID == "" {
		response.BadRequest(w, "Missing transaction id")
		return
	}

	status, err := h.service.GetStatus(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.NotFound(w, "Payment order not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, status)
}

// ListMyOrders handles GET /api/users/me/orders
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.service.ListOrders(r.Context(), accountID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"orders": orders})
}

// Webhook handles POST /api/payments/webhook
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		response.BadRequest(w, "Unable to read request body")
		return
	}

	outcome, err := h.service.ProcessWebhook(r.Context(), r.Header.Get("X-Webhook-Secret"), body)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			response.Unauthorized(w, "Invalid webhook secret")
		case errors.Is(err, ErrMissingField):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrOrderNotFound):
			response.NotFound(w, "Payment order not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, outcome)
}
