package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"loomcart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError maps a service error to an HTTP response. Validation
// messages are passed through; anything unrecognised becomes a 500 with the
// supplied fallback message.
func writeDomainError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, domainStatus(domainErr.Code), domainErr.Message, logger)
		return
	}

	if strings.Contains(err.Error(), "required") ||
		strings.Contains(err.Error(), "must be") ||
		strings.Contains(err.Error(), "cannot be") ||
		strings.Contains(err.Error(), "nil") {
		writeError(w, http.StatusBadRequest, err.Error(), logger)
		return
	}

	logger.Error().Err(err).Msg(fallback)
	writeError(w, http.StatusInternalServerError, fallback, logger)
}

// domainStatus maps a domain error code to an HTTP status code.
func domainStatus(code string) int {
	switch code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeUserNotFound,
		model.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidSignature:
		return http.StatusBadRequest
	case model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidRole,
		model.ErrCodeEmptyCart,
		model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeEmailTaken:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// pathID extracts the trailing path segment after prefix, e.g. the order ID
// in /api/orders/{id}.
func pathID(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

// trimSuffixSegment strips a trailing "/segment" from a path fragment, e.g.
// "abc/status" becomes "abc".
func trimSuffixSegment(s, segment string) string {
	return strings.Trim(strings.TrimSuffix(s, segment), "/")
}
