package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"matclub/internal/billing"
	"matclub/internal/service"
)

const maxWebhookBodyBytes = 64 << 10

// BillingHandler receives webhook deliveries from the billing provider
type BillingHandler struct {
	membershipService *service.MembershipService
	webhookSecret     string
}

func NewBillingHandler(membershipService *service.MembershipService, webhookSecret string) *BillingHandler {
	return &BillingHandler{
		membershipService: membershipService,
		webhookSecret:     webhookSecret,
	}
}

// Webhook verifies the provider signature and applies the event. The
// provider retries failed deliveries, so anything transient returns 5xx
// and anything already applied returns 200.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Webhook-Signature")
	event, err := billing.ParseWebhook(body, signature, h.webhookSecret)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.membershipService.HandleWebhook(r.Context(), event); err != nil {
		log.Printf("Error handling %s webhook: %v", event.Type, err)
		http.Error(w, "webhook processing failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
