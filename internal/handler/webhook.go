package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KanujanS/LMS/internal/logging"
	"github.com/KanujanS/LMS/internal/model"
)

type WebhookVerifier interface {
	ParseWebhookEvent(payload []byte, signatureHeader string) (*model.CheckoutEvent, error)
}

type CheckoutProcessor interface {
	HandleCheckoutEvent(ctx context.Context, event *model.CheckoutEvent) error
}

// WebhookHandler is the payment provider's entry point. Anything but a 2xx
// response makes the provider redeliver, so processing errors surface as
// non-2xx on purpose.
type WebhookHandler struct {
	verifier WebhookVerifier
	payments CheckoutProcessor
}

func NewWebhookHandler(verifier WebhookVerifier, payments CheckoutProcessor) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, payments: payments}
}

func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/stripe", h.HandleStripeWebhook)
}

func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		writeErrorJSON(w, http.StatusBadRequest, "missing signature header")
		return
	}

	event, err := h.verifier.ParseWebhookEvent(payload, signature)
	if err != nil {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Warn(ctx, "rejected webhook delivery", zap.Error(err))
		}
		writeErr(w, err)
		return
	}

	if err := h.payments.HandleCheckoutEvent(ctx, event); err != nil {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Error(ctx, "failed to process checkout event",
				zap.String("type", string(event.Type)), zap.Error(err))
		}
		statusCode := mapErr(err)
		writeErrorJSON(w, statusCode, http.StatusText(statusCode))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
