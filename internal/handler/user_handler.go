package handler

import (
	"encoding/json"
	"net/http"

	"loomcart/internal/middleware"
	"loomcart/internal/model"
	"loomcart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserHandler handles cart, wishlist and role HTTP requests.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// Cart handles /api/users/cart requests: POST upserts a line, GET retrieves
// the cart, DELETE clears it.
func (h *UserHandler) Cart(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req model.CartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}

		items, err := h.service.AddToCart(r.Context(), p.UserID, req.ProductID, req.Quantity)
		if err != nil {
			writeDomainError(w, err, "failed to add to cart", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodGet:
		items, err := h.service.Cart(r.Context(), p.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, items)

	case http.MethodDelete:
		if err := h.service.ClearCart(r.Context(), p.UserID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear cart", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// Wishlist handles /api/users/wishlist requests: POST toggles an entry, GET
// retrieves the wishlist products.
func (h *UserHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req model.WishlistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}

		added, ids, err := h.service.ToggleWishlist(r.Context(), p.UserID, req.ProductID)
		if err != nil {
			writeDomainError(w, err, "failed to toggle wishlist", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"added":    added,
			"wishlist": ids,
		})

	case http.MethodGet:
		products, err := h.service.Wishlist(r.Context(), p.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to retrieve wishlist", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, products)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// UpdateRole handles PUT /api/users/{id}/role requests.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	idStr := pathID(r.URL.Path, "/api/users/")
	idStr = trimSuffixSegment(idStr, "role")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "user ID is required", h.logger)
		return
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID format", h.logger)
		return
	}

	var req model.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateRole(r.Context(), userID, req.Role); err != nil {
		writeDomainError(w, err, "failed to update role", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
