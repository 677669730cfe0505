package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Roles are strictly ordered: user < admin < superadmin.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// ValidRole reports whether s is a known role.
func ValidRole(s string) bool {
	switch s {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User represents a registered customer or administrator.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// CartItem is a product reference plus quantity in a user's cart.
type CartItem struct {
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// RegisterRequest represents the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CartRequest represents the payload for adding to the cart.
type CartRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// WishlistRequest represents the payload for toggling a wishlist entry.
type WishlistRequest struct {
	ProductID uuid.UUID `json:"productId"`
}

// RoleRequest represents the payload for changing a user's role.
type RoleRequest struct {
	Role string `json:"role"`
}
