package handler

import (
	"errors"
	"io"
	"net/http"

	"loomcart/internal/model"
	"loomcart/internal/service"

	"github.com/rs/zerolog"
)

// SignatureHeader carries the gateway's HMAC over the raw request body.
const SignatureHeader = "X-Razorpay-Signature"

// WebhookHandler handles payment gateway webhook deliveries.
type WebhookHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service service.OrderService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger.With().Str("handler", "webhook").Logger(),
	}
}

// Handle handles POST /api/payment/webhook requests. The body must be read
// raw before any parsing so the signature verifies over the exact bytes sent.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", h.logger)
		return
	}

	result, err := h.service.ProcessWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			writeError(w, http.StatusBadRequest, model.ErrInvalidSignature.Message, h.logger)
			return
		}
		writeDomainError(w, err, "failed to process webhook", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
