package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"loomcart/internal/model"
	"loomcart/internal/notify"
	"loomcart/internal/payment"
	"loomcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	broadcaster   notify.Broadcaster
	webhookSecret string
	logger        zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	broadcaster notify.Broadcaster,
	webhookSecret string,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		broadcaster:   broadcaster,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("service", "order").Logger(),
	}
}

// ProcessWebhook verifies and processes a gateway webhook delivery. Nothing in
// the payload is trusted before the signature check passes. Only the payment
// captured event has side effects; stock decrements, the dedup record and the
// order insert all commit in one transaction.
func (s *orderService) ProcessWebhook(ctx context.Context, body []byte, signature string) (*model.WebhookResult, error) {
	if !payment.VerifySignature(body, signature, s.webhookSecret) {
		s.logger.Warn().Msg("webhook signature mismatch")
		return nil, model.ErrInvalidSignature
	}

	var event model.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to parse webhook payload")
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if event.Event != model.EventPaymentCaptured {
		s.logger.Debug().Str("event", event.Event).Msg("webhook event ignored")
		return &model.WebhookResult{Status: model.WebhookIgnored}, nil
	}

	entity := event.Payload.Payment.Entity
	order, lines := orderFromEntity(entity)

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to process webhook: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if entity.ID != "" {
		var inserted bool
		inserted, err = s.orderRepo.MarkPaymentProcessed(ctx, tx, entity.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to process webhook: %w", err)
		}
		if !inserted {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
			s.logger.Info().Str("payment_id", entity.ID).Msg("duplicate webhook delivery ignored")
			return &model.WebhookResult{Status: model.WebhookDuplicate}, nil
		}
	}

	// Apply stock decrements. A missing or under-stocked product skips that
	// line only; the rest of the order still goes through.
	var adjustments []model.StockAdjustment
	for _, line := range lines {
		productID, parseErr := uuid.Parse(line.ID)
		if parseErr != nil {
			s.logger.Warn().Str("product_id", line.ID).Msg("unparsable product reference, skipping line")
			continue
		}

		var (
			remaining int
			applied   bool
		)
		remaining, applied, err = s.productRepo.DecrementStock(ctx, tx, productID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to process webhook: %w", err)
		}
		if !applied {
			s.logger.Warn().
				Str("product_id", line.ID).
				Int("quantity", line.Quantity).
				Msg("product missing or insufficient stock, skipping line")
			continue
		}

		adjustments = append(adjustments, model.StockAdjustment{ProductID: productID, NewStock: remaining})
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = model.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  line.ID,
			Name:       line.Name,
			Image:      line.Image,
			PricePaise: line.PricePaise,
			Quantity:   line.Quantity,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to process webhook: %w", err)
	}

	s.broadcaster.Publish(ctx, notify.Event{
		Name: notify.EventNewOrder,
		Data: notify.NewOrderData{
			OrderID:        order.ID,
			Name:           order.Name,
			Email:          order.Email,
			AmountPaise:    order.AmountPaise,
			DeliveryStatus: order.DeliveryStatus,
			CreatedAt:      order.CreatedAt,
		},
	})

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_id", entity.ID).
		Int("item_count", len(items)).
		Int("adjustments", len(adjustments)).
		Msg("order created from webhook")

	return &model.WebhookResult{
		Status:        model.WebhookProcessed,
		OrderID:       order.ID.String(),
		UpdatedStocks: adjustments,
	}, nil
}

// orderFromEntity reconstructs the order and its cart lines from the payment
// entity notes. Missing or malformed fields degrade to defaults rather than
// failing the whole delivery.
func orderFromEntity(entity model.PaymentEntity) (*model.Order, []model.CartLine) {
	notes := entity.Notes
	if notes == nil {
		notes = map[string]string{}
	}

	name := notes["name"]
	if name == "" {
		name = "Unknown Customer"
	}

	var address model.Address
	if raw := notes["address"]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &address)
	}

	var lines []model.CartLine
	if raw := notes["cartItems"]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &lines)
	}

	amount, err := strconv.ParseInt(notes["totalAmount"], 10, 64)
	if err != nil || amount <= 0 {
		amount = entity.AmountPaise
	}

	createdAt := time.Now()
	if entity.CreatedAt > 0 {
		createdAt = time.Unix(entity.CreatedAt, 0)
	}

	return &model.Order{
		ID:             uuid.New(),
		Name:           name,
		Email:          notes["email"],
		Phone:          notes["phone"],
		AmountPaise:    amount,
		PaymentStatus:  model.PaymentStatusPaid,
		DeliveryStatus: model.DeliveryStatusProcessing,
		Address:        address,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, lines
}

// GetByID retrieves an order by its ID with its line-item snapshots.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// List retrieves orders newest first, optionally filtered by customer email.
func (s *orderService) List(ctx context.Context, email string) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateDeliveryStatus advances an order's delivery status. Any of the three
// stages may be set in any order; sequencing is a dashboard convention, not a
// data-layer invariant.
func (s *orderService) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	if !model.ValidDeliveryStatus(status) {
		s.logger.Warn().Str("status", status).Msg("invalid delivery status")
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateDeliveryStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update delivery status")
		return nil, fmt.Errorf("failed to update delivery status: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	s.broadcaster.Publish(ctx, notify.Event{
		Name: notify.EventOrderStatusUpdated,
		Data: notify.OrderStatusData{
			OrderID:        order.ID,
			DeliveryStatus: order.DeliveryStatus,
		},
	})

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", order.DeliveryStatus).
		Msg("delivery status updated")

	return order, nil
}
