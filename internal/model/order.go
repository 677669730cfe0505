package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses. Paid is terminal.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Delivery statuses. Independent of payment status; advanced by admin action.
const (
	DeliveryStatusProcessing = "Processing"
	DeliveryStatusShipping   = "Shipping"
	DeliveryStatusDelivered  = "Delivered"
)

// ValidDeliveryStatus reports whether s is one of the three delivery stages.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryStatusProcessing, DeliveryStatusShipping, DeliveryStatusDelivered:
		return true
	}
	return false
}

// Address is the shipping address captured at checkout.
type Address struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order represents a customer order created by the payment webhook.
type Order struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	AmountPaise    int64     `json:"amountPaise" db:"amount_paise"`
	PaymentStatus  string    `json:"paymentStatus" db:"payment_status"`
	DeliveryStatus string    `json:"deliveryStatus" db:"delivery_status"`
	Address        Address   `json:"address"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line item snapshotted at order-creation time. Later product
// edits must never change it, so name, image and price are copied rather than
// referenced.
type OrderItem struct {
	ID         uuid.UUID `json:"-" db:"id"`
	OrderID    uuid.UUID `json:"-" db:"order_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	Name       string    `json:"name" db:"name"`
	Image      string    `json:"image,omitempty" db:"image"`
	PricePaise int64     `json:"pricePaise" db:"price_paise"`
	Quantity   int       `json:"quantity" db:"quantity"`
}

// OrderResponse is an order together with its line items.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}

// StatusUpdateRequest represents the payload for advancing delivery status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// StockAdjustment records a stock decrement applied by the webhook handler.
type StockAdjustment struct {
	ProductID uuid.UUID `json:"productId"`
	NewStock  int       `json:"newStock"`
}
