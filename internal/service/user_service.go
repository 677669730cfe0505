package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loomcart/internal/auth"
	"loomcart/internal/model"
	"loomcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const minPasswordLength = 8

// userService implements UserService.
type userService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "user").Logger(),
	}
}

// Register creates an account with the default user role.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req == nil {
		return nil, fmt.Errorf("register request is nil")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if err == model.ErrEmailTaken {
			s.logger.Debug().Str("email", email).Msg("registration with taken email")
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login validates credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Debug().Str("email", email).Msg("login rejected")
		return nil, model.ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return user, nil
}

// GetByID retrieves a user.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to retrieve user")
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateRole changes a user's role.
func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	if !model.ValidRole(role) {
		return model.ErrInvalidRole
	}

	found, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update role")
		return fmt.Errorf("failed to update role: %w", err)
	}
	if !found {
		return model.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", id.String()).Str("role", role).Msg("role updated")
	return nil
}

// ToggleWishlist adds or removes a wishlist entry.
func (s *userService) ToggleWishlist(ctx context.Context, userID, productID uuid.UUID) (bool, []uuid.UUID, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to toggle wishlist: %w", err)
	}
	if product == nil {
		return false, nil, model.ErrProductNotFound
	}

	added, err := s.userRepo.ToggleWishlist(ctx, userID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to toggle wishlist")
		return false, nil, fmt.Errorf("failed to toggle wishlist: %w", err)
	}

	ids, err := s.userRepo.GetWishlist(ctx, userID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to toggle wishlist: %w", err)
	}

	return added, ids, nil
}

// Wishlist retrieves the products on the user's wishlist.
func (s *userService) Wishlist(ctx context.Context, userID uuid.UUID) ([]model.Product, error) {
	ids, err := s.userRepo.GetWishlist(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to retrieve wishlist")
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist products: %w", err)
	}

	return products, nil
}

// AddToCart upserts a cart line and returns the resulting cart.
func (s *userService) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty int) ([]model.CartItem, error) {
	if qty <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if err := s.userRepo.UpsertCartItem(ctx, userID, productID, qty); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to add to cart")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	return s.userRepo.GetCart(ctx, userID)
}

// Cart retrieves the user's cart lines.
func (s *userService) Cart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	items, err := s.userRepo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to retrieve cart")
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return items, nil
}

// ClearCart removes all cart lines for the user.
func (s *userService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.ClearCart(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
