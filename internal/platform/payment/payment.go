// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package payment creates hosted checkout sessions and verifies the provider's
completion callbacks.

The booking module depends on [Gateway] only. [StripeGateway] is the
production implementation backed by stripe-go.
*/
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// ErrInvalidSignature is returned when a callback fails verification.
var ErrInvalidSignature = errors.New("payment: invalid webhook signature")

// eventCheckoutCompleted is the only callback that creates bookings.
const eventCheckoutCompleted = "checkout.session.completed"

// # Types

// Item is the product being paid for.
type Item struct {
	Name        string
	Description string
	Image       string

	// Price is in whole currency units.
	Price float64
}

// Checkout describes one hosted payment page.
type Checkout struct {
	// Reference is echoed back on completion (the tour id).
	Reference string
	Email     string
	Item      Item

	SuccessURL string
	CancelURL  string
}

// Session is a created checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Completion is a verified, successful payment.
type Completion struct {
	Reference string
	Email     string
	Amount    float64
}

// Gateway is the payment provider contract.
type Gateway interface {
	// Checkout creates a hosted payment session.
	Checkout(context context.Context, checkout Checkout) (*Session, error)

	// Complete verifies a callback. It returns nil when the event does not
	// complete a payment.
	Complete(payload []byte, signature string) (*Completion, error)
}

// # Stripe

// StripeGateway implements [Gateway] with Stripe Checkout.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
}

// NewStripeGateway creates a gateway for the given secret keys.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
		currency:      string(stripe.CurrencyUSD),
	}
}

// Checkout implements [Gateway].
func (gateway *StripeGateway) Checkout(context context.Context, checkout Checkout) (*Session, error) {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name:        stripe.String(checkout.Item.Name),
		Description: stripe.String(checkout.Item.Description),
	}
	if checkout.Item.Image != "" {
		product.Images = stripe.StringSlice([]string{checkout.Item.Image})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(checkout.SuccessURL),
		CancelURL:          stripe.String(checkout.CancelURL),
		CustomerEmail:      stripe.String(checkout.Email),
		ClientReferenceID:  stripe.String(checkout.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(gateway.currency),
					UnitAmount:  stripe.Int64(Cents(checkout.Item.Price)),
					ProductData: product,
				},
			},
		},
	}
	params.Context = context

	session, err := gateway.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("checkout_session_failed: %w", err)
	}

	return &Session{ID: session.ID, URL: session.URL}, nil
}

// Complete implements [Gateway].
func (gateway *StripeGateway) Complete(payload []byte, signature string) (*Completion, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, gateway.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if event.Type != eventCheckoutCompleted || event.Data == nil {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("checkout_event_decode_failed: %w", err)
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	return &Completion{
		Reference: session.ClientReferenceID,
		Email:     email,
		Amount:    float64(session.AmountTotal) / 100,
	}, nil
}

// Cents converts a price in whole units to the smallest currency unit.
func Cents(price float64) int64 {
	return int64(math.Round(price * 100))
}
