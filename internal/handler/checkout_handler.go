package handler

import (
	"encoding/json"
	"net/http"

	"loomcart/internal/model"
	"loomcart/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// CreatePaymentLink handles POST /api/payment/link requests.
func (h *CheckoutHandler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	link, err := h.service.CreatePaymentLink(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "failed to create payment link", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, link)
}
