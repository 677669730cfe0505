package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"loomcart/internal/model"
	"loomcart/internal/notify"
	"loomcart/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "test-webhook-secret"

// capturedWebhookBody builds a signed payment.captured delivery carrying the
// given cart lines.
func capturedWebhookBody(t *testing.T, paymentID string, lines []model.CartLine, total int64) ([]byte, string) {
	t.Helper()

	addressJSON, err := json.Marshal(model.Address{
		Address1:   "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "India",
	})
	require.NoError(t, err)

	cartJSON, err := json.Marshal(lines)
	require.NoError(t, err)

	var event model.WebhookEvent
	event.Event = model.EventPaymentCaptured
	event.Payload.Payment.Entity = model.PaymentEntity{
		ID:          paymentID,
		AmountPaise: total,
		CreatedAt:   1700000000,
		Notes: map[string]string{
			"name":        "Asha Rao",
			"email":       "asha@example.com",
			"phone":       "+919812345678",
			"address":     string(addressJSON),
			"cartItems":   string(cartJSON),
			"totalAmount": strconv.FormatInt(total, 10),
		},
	}

	body, err := json.Marshal(event)
	require.NoError(t, err)

	return body, payment.Signature(body, testWebhookSecret)
}

func TestOrderService_ProcessWebhook_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := uuid.New()
	lines := []model.CartLine{
		{ID: productID.String(), Name: "Handloom Cotton Kurta", PricePaise: 129900, Quantity: 2},
	}
	body, sig := capturedWebhookBody(t, "pay_abc123", lines, 259800)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	broadcaster := &recordingBroadcaster{}
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, mockProductRepo, broadcaster, testWebhookSecret, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("MarkPaymentProcessed", ctx, mockTx, "pay_abc123").Return(true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, productID, 2).Return(3, true, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	result, err := service.ProcessWebhook(ctx, body, sig)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.WebhookProcessed, result.Status)
	assert.NotEmpty(t, result.OrderID)
	require.Len(t, result.UpdatedStocks, 1)
	assert.Equal(t, productID, result.UpdatedStocks[0].ProductID)
	assert.Equal(t, 3, result.UpdatedStocks[0].NewStock)

	events := broadcaster.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventNewOrder, events[0].Name)
	data, ok := events[0].Data.(notify.NewOrderData)
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", data.Name)
	assert.Equal(t, int64(259800), data.AmountPaise)
	assert.Equal(t, model.DeliveryStatusProcessing, data.DeliveryStatus)

	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestOrderService_ProcessWebhook_InvalidSignature(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	lines := []model.CartLine{{ID: uuid.New().String(), Name: "Silk Stole", PricePaise: 99900, Quantity: 1}}
	body, _ := capturedWebhookBody(t, "pay_tampered", lines, 99900)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	broadcaster := &recordingBroadcaster{}

	service := NewOrderService(mockOrderRepo, mockProductRepo, broadcaster, testWebhookSecret, logger)

	result, err := service.ProcessWebhook(ctx, body, "deadbeef")

	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidSignature, err)
	assert.Nil(t, result)
	assert.Empty(t, broadcaster.Events())
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderService_ProcessWebhook_IgnoresOtherEvents(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_failed1"}}}}`)
	sig := payment.Signature(body, testWebhookSecret)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	broadcaster := &recordingBroadcaster{}

	service := NewOrderService(mockOrderRepo, mockProductRepo, broadcaster, testWebhookSecret, logger)

	result, err := service.ProcessWebhook(ctx, body, sig)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.WebhookIgnored, result.Status)
	assert.Empty(t, broadcaster.Events())
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
	mockProductRepo.AssertNotCalled(t, "DecrementStock")
}

func TestOrderService_ProcessWebhook_DuplicateDelivery(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	lines := []model.CartLine{{ID: uuid.New().String(), Name: "Leather Juttis", PricePaise: 189900, Quantity: 1}}
	body, sig := capturedWebhookBody(t, "pay_repeat1", lines, 189900)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	broadcaster := &recordingBroadcaster{}
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, mockProductRepo, broadcaster, testWebhookSecret, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("MarkPaymentProcessed", ctx, mockTx, "pay_repeat1").Return(false, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	result, err := service.ProcessWebhook(ctx, body, sig)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.WebhookDuplicate, result.Status)
	assert.Empty(t, result.OrderID)
	assert.Empty(t, broadcaster.Events())
	assert.True(t, mockTx.rolledBack)
	mockOrderRepo.AssertNotCalled(t, "CreateOrder")
	mockProductRepo.AssertNotCalled(t, "DecrementStock")
}

func TestOrderService_ProcessWebhook_SkipsInsufficientStock(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	inStock := uuid.New()
	outOfStock := uuid.New()
	lines := []model.CartLine{
		{ID: inStock.String(), Name: "Brass Jhumkas", PricePaise: 79900, Quantity: 1},
		{ID: outOfStock.String(), Name: "Block Print Saree", PricePaise: 249900, Quantity: 5},
	}
	body, sig := capturedWebhookBody(t, "pay_partial1", lines, 329800)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	broadcaster := &recordingBroadcaster{}
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, mockProductRepo, broadcaster, testWebhookSecret, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("MarkPaymentProcessed", ctx, mockTx, "pay_partial1").Return(true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, inStock, 1).Return(99, true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, outOfStock, 5).Return(0, false, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	result, err := service.ProcessWebhook(ctx, body, sig)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.WebhookProcessed, result.Status)

	// Only the line with stock yields an adjustment, but the order still
	// snapshots both lines.
	require.Len(t, result.UpdatedStocks, 1)
	assert.Equal(t, inStock, result.UpdatedStocks[0].ProductID)

	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestOrderService_ProcessWebhook_RollbackOnCreateFailure(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := uuid.New()
	lines := []model.CartLine{{ID: productID.String(), Name: "Linen Shirt", PricePaise: 159900, Quantity: 1}}
	body, sig := capturedWebhookBody(t, "pay_broken1", lines, 159900)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	broadcaster := &recordingBroadcaster{}
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, mockProductRepo, broadcaster, testWebhookSecret, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("MarkPaymentProcessed", ctx, mockTx, "pay_broken1").Return(true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, productID, 1).Return(9, true, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(errors.New("insert failed"))
	mockTx.On("Rollback", ctx).Return(nil)

	result, err := service.ProcessWebhook(ctx, body, sig)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, mockTx.rolledBack)
	assert.Empty(t, broadcaster.Events())
	mockTx.AssertNotCalled(t, "Commit")
}

func TestOrderService_ProcessWebhook_MalformedBody(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	body := []byte(`{"event": "payment.captured", "payload": `)
	sig := payment.Signature(body, testWebhookSecret)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)

	service := NewOrderService(mockOrderRepo, mockProductRepo, &recordingBroadcaster{}, testWebhookSecret, logger)

	result, err := service.ProcessWebhook(ctx, body, sig)

	require.Error(t, err)
	assert.Nil(t, result)
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderFromEntity_Defaults(t *testing.T) {
	order, lines := orderFromEntity(model.PaymentEntity{
		ID:          "pay_bare1",
		AmountPaise: 50000,
	})

	assert.Equal(t, "Unknown Customer", order.Name)
	assert.Equal(t, int64(50000), order.AmountPaise)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, model.DeliveryStatusProcessing, order.DeliveryStatus)
	assert.Empty(t, lines)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestOrderService_UpdateDeliveryStatus_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()
	updated := &model.Order{
		ID:             orderID,
		Name:           "Asha Rao",
		DeliveryStatus: model.DeliveryStatusShipping,
	}

	mockOrderRepo := new(MockOrderRepository)
	broadcaster := &recordingBroadcaster{}

	service := NewOrderService(mockOrderRepo, new(MockProductRepository), broadcaster, testWebhookSecret, logger)

	mockOrderRepo.On("UpdateDeliveryStatus", ctx, orderID, model.DeliveryStatusShipping).Return(updated, nil)

	order, err := service.UpdateDeliveryStatus(ctx, orderID, model.DeliveryStatusShipping)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.DeliveryStatusShipping, order.DeliveryStatus)

	events := broadcaster.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventOrderStatusUpdated, events[0].Name)
	data, ok := events[0].Data.(notify.OrderStatusData)
	require.True(t, ok)
	assert.Equal(t, orderID, data.OrderID)

	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateDeliveryStatus_InvalidStatus(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	broadcaster := &recordingBroadcaster{}

	service := NewOrderService(mockOrderRepo, new(MockProductRepository), broadcaster, testWebhookSecret, logger)

	order, err := service.UpdateDeliveryStatus(ctx, uuid.New(), "Teleported")

	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidStatus, err)
	assert.Nil(t, order)
	assert.Empty(t, broadcaster.Events())
	mockOrderRepo.AssertNotCalled(t, "UpdateDeliveryStatus")
}

func TestOrderService_UpdateDeliveryStatus_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	broadcaster := &recordingBroadcaster{}

	service := NewOrderService(mockOrderRepo, new(MockProductRepository), broadcaster, testWebhookSecret, logger)

	mockOrderRepo.On("UpdateDeliveryStatus", ctx, orderID, model.DeliveryStatusDelivered).Return(nil, nil)

	order, err := service.UpdateDeliveryStatus(ctx, orderID, model.DeliveryStatusDelivered)

	require.Error(t, err)
	assert.Equal(t, model.ErrOrderNotFound, err)
	assert.Nil(t, order)
	assert.Empty(t, broadcaster.Events())
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, orderID).Return(nil, nil, nil)

	service := NewOrderService(mockOrderRepo, new(MockProductRepository), &recordingBroadcaster{}, testWebhookSecret, logger)

	resp, err := service.GetByID(ctx, orderID)

	require.NoError(t, err)
	assert.Nil(t, resp)
}
