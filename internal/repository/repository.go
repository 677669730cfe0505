package repository

import (
	"context"

	"loomcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves products matching the filter, newest first.
	GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces a product's attributes. Returns false when absent.
	Update(ctx context.Context, p *model.Product) (bool, error)

	// Delete removes a product. Returns false when absent.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// DecrementStock atomically subtracts qty from stock within the provided
	// transaction, but only when stock >= qty. Returns the remaining stock and
	// whether the decrement was applied.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (int, bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// MarkPaymentProcessed records a gateway payment ID within the provided
	// transaction. Returns false when the ID was already recorded, which means
	// the webhook delivery is a duplicate.
	MarkPaymentProcessed(ctx context.Context, tx pgx.Tx, paymentID string) (bool, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order line-item snapshots within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. The order is
	// nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// List retrieves orders newest first, optionally filtered by customer email.
	List(ctx context.Context, email string) ([]model.Order, error)

	// UpdateDeliveryStatus persists a new delivery status and returns the
	// updated order, or nil when no such order exists.
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
}

// UserRepository defines the interface for user, cart and wishlist data access.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, u *model.User) error

	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdateRole changes a user's role. Returns false when absent.
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (bool, error)

	// UpsertCartItem adds qty to an existing cart line or inserts a new one.
	UpsertCartItem(ctx context.Context, userID, productID uuid.UUID, qty int) error

	// GetCart retrieves the user's cart lines.
	GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// ClearCart removes all cart lines for the user.
	ClearCart(ctx context.Context, userID uuid.UUID) error

	// ToggleWishlist adds the product to the wishlist, or removes it when
	// already present. Returns true when the product was added.
	ToggleWishlist(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// GetWishlist retrieves the product IDs on the user's wishlist.
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// GetAll retrieves all categories ordered by name.
	GetAll(ctx context.Context) ([]model.Category, error)

	// Create inserts a new category.
	Create(ctx context.Context, c *model.Category) error

	// Delete removes a category. Returns false when absent.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
