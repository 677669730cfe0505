package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog"
)

// LinkRequest describes a hosted payment link to be created at the gateway.
// Notes travel with the payment object and are echoed back in the webhook, so
// the order can be reconstructed without trusting client state at that point.
type LinkRequest struct {
	AmountPaise  int64
	Description  string
	CustomerName string
	Email        string
	Phone        string
	Notes        map[string]string
	CallbackURL  string
}

// Link is the gateway's response: an opaque hosted page URL plus its ID.
type Link struct {
	ID       string `json:"id"`
	ShortURL string `json:"shortUrl"`
}

// Gateway creates hosted payment links at the payment provider.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, req *LinkRequest) (*Link, error)
}

// razorpayGateway implements Gateway using the Razorpay SDK.
type razorpayGateway struct {
	client *razorpay.Client
	logger zerolog.Logger
}

// NewRazorpayGateway creates a Razorpay-backed payment gateway.
func NewRazorpayGateway(keyID, keySecret string, logger zerolog.Logger) Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		logger: logger.With().Str("component", "razorpay-gateway").Logger(),
	}
}

// CreatePaymentLink requests a hosted payment page URL. The SDK does not take
// a context; the ctx parameter is part of the interface for substitutes.
func (g *razorpayGateway) CreatePaymentLink(_ context.Context, req *LinkRequest) (*Link, error) {
	data := map[string]interface{}{
		"amount":   req.AmountPaise,
		"currency": "INR",
		"customer": map[string]interface{}{
			"name":    req.CustomerName,
			"email":   req.Email,
			"contact": req.Phone,
		},
		"notify": map[string]interface{}{
			"sms":   true,
			"email": true,
		},
		"notes":           req.Notes,
		"callback_url":    req.CallbackURL,
		"callback_method": "get",
	}
	if req.Description != "" {
		data["description"] = req.Description
	}

	body, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		g.logger.Error().Err(err).
			Int64("amount_paise", req.AmountPaise).
			Str("email", req.Email).
			Msg("failed to create payment link")
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}

	id, _ := body["id"].(string)
	shortURL, _ := body["short_url"].(string)
	if shortURL == "" {
		return nil, fmt.Errorf("payment link response missing short_url")
	}

	g.logger.Info().
		Str("link_id", id).
		Int64("amount_paise", req.AmountPaise).
		Msg("payment link created")

	return &Link{ID: id, ShortURL: shortURL}, nil
}
