package service

import (
	"context"

	"loomcart/internal/model"
	"loomcart/internal/payment"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves products matching the filter.
	GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product's attributes.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService defines operations for category management.
type CategoryService interface {
	// GetAll retrieves all categories.
	GetAll(ctx context.Context) ([]model.Category, error)

	// Create adds a category.
	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)

	// Delete removes a category.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderService defines the order lifecycle: webhook-driven creation, listing
// and delivery-status updates.
type OrderService interface {
	// ProcessWebhook verifies and processes a raw gateway webhook delivery.
	// body is the exact raw request body the signature was computed over.
	ProcessWebhook(ctx context.Context, body []byte, signature string) (*model.WebhookResult, error)

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// List retrieves orders newest first, optionally filtered by email.
	List(ctx context.Context, email string) ([]model.Order, error)

	// UpdateDeliveryStatus advances an order's delivery status and broadcasts
	// the change.
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
}

// CheckoutService issues hosted payment links for finalised carts.
type CheckoutService interface {
	// CreatePaymentLink re-prices the cart from the catalogue and requests a
	// hosted payment page URL carrying the order context as gateway notes.
	CreatePaymentLink(ctx context.Context, req *model.CheckoutRequest) (*payment.Link, error)
}

// UserService defines account, cart and wishlist operations.
type UserService interface {
	// Register creates an account and returns the new user.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login validates credentials and returns the user.
	Login(ctx context.Context, email, password string) (*model.User, error)

	// GetByID retrieves a user. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error

	// ToggleWishlist adds or removes a wishlist entry. Returns true when added
	// plus the resulting wishlist product IDs.
	ToggleWishlist(ctx context.Context, userID, productID uuid.UUID) (bool, []uuid.UUID, error)

	// Wishlist retrieves the products on the user's wishlist.
	Wishlist(ctx context.Context, userID uuid.UUID) ([]model.Product, error)

	// AddToCart upserts a cart line and returns the resulting cart.
	AddToCart(ctx context.Context, userID, productID uuid.UUID, qty int) ([]model.CartItem, error)

	// Cart retrieves the user's cart lines.
	Cart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// ClearCart removes all cart lines for the user.
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
