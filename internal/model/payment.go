package model

// Gateway webhook event types. Only the captured event creates an order; every
// other event is acknowledged without side effects.
const (
	EventPaymentCaptured = "payment.captured"
)

// WebhookEvent is the envelope the payment gateway posts to the webhook
// endpoint.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentEntity is the gateway's payment object. Amount is in paise. Notes
// echo back the context attached at payment-link issuance.
type PaymentEntity struct {
	ID          string            `json:"id"`
	AmountPaise int64             `json:"amount"`
	CreatedAt   int64             `json:"created_at"`
	Notes       map[string]string `json:"notes"`
}

// CartLine is a cart line item as serialised into gateway notes and echoed
// back at webhook time.
type CartLine struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	PricePaise int64  `json:"pricePaise"`
	Quantity   int    `json:"quantity"`
}

// Webhook processing outcomes.
const (
	WebhookProcessed = "processed"
	WebhookIgnored   = "ignored"
	WebhookDuplicate = "duplicate"
)

// WebhookResult reports what a webhook delivery actually did.
type WebhookResult struct {
	Status        string            `json:"status"`
	OrderID       string            `json:"orderId,omitempty"`
	UpdatedStocks []StockAdjustment `json:"updatedStocks,omitempty"`
}

// CheckoutCustomer identifies the paying customer.
type CheckoutCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CheckoutItem is a product reference plus quantity in a checkout request.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest represents the payload for requesting a payment link.
type CheckoutRequest struct {
	Customer CheckoutCustomer `json:"customer"`
	Address  Address          `json:"address"`
	Items    []CheckoutItem   `json:"items"`
}
