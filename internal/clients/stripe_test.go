package clients

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way the provider does:
// HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestClient() *StripeClient {
	return NewStripeClient("sk_test_key", testWebhookSecret, "usd", "https://app.example.com/done", "https://app.example.com/")
}

func TestStripeClient_ParseWebhookEvent(t *testing.T) {
	purchaseID := uuid.New()
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_test_123","metadata":{"purchaseId":"%s"}}}}`,
		purchaseID,
	))

	t.Run("ValidSignature", func(t *testing.T) {
		c := newTestClient()

		event, err := c.ParseWebhookEvent(payload, signPayload(testWebhookSecret, payload, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, model.CheckoutEventCompleted, event.Type)
		assert.Equal(t, "cs_test_123", event.SessionId)
		assert.Equal(t, purchaseID.String(), event.PurchaseRef)
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		c := newTestClient()

		header := signPayload(testWebhookSecret, payload, time.Now())
		tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_evil"}}}`)

		_, err := c.ParseWebhookEvent(tampered, header)
		assert.ErrorIs(t, err, errdefs.ErrInvalidSignature)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		c := newTestClient()

		_, err := c.ParseWebhookEvent(payload, signPayload("whsec_other", payload, time.Now()))
		assert.ErrorIs(t, err, errdefs.ErrInvalidSignature)
	})

	t.Run("StaleTimestamp", func(t *testing.T) {
		c := newTestClient()

		_, err := c.ParseWebhookEvent(payload, signPayload(testWebhookSecret, payload, time.Now().Add(-time.Hour)))
		assert.ErrorIs(t, err, errdefs.ErrInvalidSignature)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		c := newTestClient()

		_, err := c.ParseWebhookEvent(payload, "")
		assert.ErrorIs(t, err, errdefs.ErrInvalidSignature)
	})

	t.Run("ExpiredEvent_NoMetadata", func(t *testing.T) {
		c := newTestClient()

		expired := []byte(`{"id":"evt_2","type":"checkout.session.expired","data":{"object":{"id":"cs_test_456","metadata":{}}}}`)
		event, err := c.ParseWebhookEvent(expired, signPayload(testWebhookSecret, expired, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, model.CheckoutEventExpired, event.Type)
		assert.Equal(t, "cs_test_456", event.SessionId)
		assert.Empty(t, event.PurchaseRef)
	})

	t.Run("UnknownEventType_PassedThrough", func(t *testing.T) {
		c := newTestClient()

		other := []byte(`{"id":"evt_3","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)
		event, err := c.ParseWebhookEvent(other, signPayload(testWebhookSecret, other, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, model.CheckoutEventType("payment_intent.succeeded"), event.Type)
		assert.Empty(t, event.PurchaseRef)
	})
}
