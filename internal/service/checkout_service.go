package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"loomcart/internal/model"
	"loomcart/internal/payment"
	"loomcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	productRepo repository.ProductRepository
	gateway     payment.Gateway
	callbackURL string
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	productRepo repository.ProductRepository,
	gateway payment.Gateway,
	callbackURL string,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		productRepo: productRepo,
		gateway:     gateway,
		callbackURL: callbackURL,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// CreatePaymentLink re-prices the cart against the catalogue, then asks the
// gateway for a hosted payment page. The full order context travels as notes
// so the webhook can rebuild the order without client state. No order row is
// written here; the webhook is the only creation path.
func (s *checkoutService) CreatePaymentLink(ctx context.Context, req *model.CheckoutRequest) (*payment.Link, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("malformed product reference")
			return nil, model.ErrProductNotFound
		}
		ids[i] = id
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load cart products")
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Prices and names come from the catalogue, never from the client.
	var total int64
	lines := make([]model.CartLine, len(req.Items))
	for i, item := range req.Items {
		p, ok := byID[ids[i]]
		if !ok || !p.Published {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("unknown or unpublished product in cart")
			return nil, model.ErrProductNotFound
		}

		lines[i] = model.CartLine{
			ID:         p.ID.String(),
			Name:       p.Name,
			Image:      p.Image,
			PricePaise: p.PricePaise,
			Quantity:   item.Quantity,
		}
		total += p.PricePaise * int64(item.Quantity)
	}

	addressJSON, err := json.Marshal(req.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to serialise address: %w", err)
	}
	cartJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to serialise cart: %w", err)
	}

	link, err := s.gateway.CreatePaymentLink(ctx, &payment.LinkRequest{
		AmountPaise:  total,
		Description:  fmt.Sprintf("Payment for %s", req.Customer.Name),
		CustomerName: req.Customer.Name,
		Email:        req.Customer.Email,
		Phone:        req.Customer.Phone,
		Notes: map[string]string{
			"name":        req.Customer.Name,
			"email":       req.Customer.Email,
			"phone":       req.Customer.Phone,
			"address":     string(addressJSON),
			"cartItems":   string(cartJSON),
			"totalAmount": strconv.FormatInt(total, 10),
		},
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("amount_paise", total).Msg("failed to create payment link")
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}

	s.logger.Info().
		Str("link_id", link.ID).
		Int64("amount_paise", total).
		Int("item_count", len(lines)).
		Msg("payment link issued")

	return link, nil
}

// validateCheckoutRequest validates the checkout request.
func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}

	if req.Customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}
	if req.Customer.Email == "" {
		return fmt.Errorf("customer email is required")
	}
	if req.Customer.Phone == "" {
		return fmt.Errorf("customer phone is required")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyCart
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product ID is required", i)
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
