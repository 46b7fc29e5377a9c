package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
)

// purchaseRefMetadataKey is the checkout-session metadata key that carries the
// purchase id back to us on webhook delivery.
const purchaseRefMetadataKey = "purchaseId"

type StripeClient struct {
	currency      string
	successURL    string
	cancelURL     string
	webhookSecret string
}

func NewStripeClient(secretKey, webhookSecret, currency, successURL, cancelURL string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{
		currency:      currency,
		successURL:    successURL,
		cancelURL:     cancelURL,
		webhookSecret: webhookSecret,
	}
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, purchase *model.Purchase, course *model.Course, customerEmail string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params:        stripe.Params{Context: ctx},
		SuccessURL:    stripe.String(c.successURL),
		CancelURL:     stripe.String(c.cancelURL),
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(customerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(c.currency),
					UnitAmount: stripe.Int64(int64(math.Round(purchase.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(course.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata(purchaseRefMetadataKey, purchase.Id.String())

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// ParseWebhookEvent verifies the payload signature and extracts the checkout
// outcome. The purchase reference is passed through as received; validating it
// is the caller's concern.
func (c *StripeClient) ParseWebhookEvent(payload []byte, signatureHeader string) (*model.CheckoutEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errdefs.ErrInvalidSignature, err)
	}

	out := &model.CheckoutEvent{Type: model.CheckoutEventType(event.Type)}
	switch out.Type {
	case model.CheckoutEventCompleted, model.CheckoutEventExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.SessionId = sess.ID
		out.PurchaseRef = sess.Metadata[purchaseRefMetadataKey]
	}
	return out, nil
}
