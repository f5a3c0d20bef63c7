package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Webhook event types sent by the payment provider.
const (
	EventCheckoutCompleted     = "checkout.completed"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventPaymentFailed         = "payment.failed"
)

// ErrInvalidSignature is returned when a webhook payload fails HMAC
// verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookEvent is the payload the provider POSTs to our callback endpoint.
type WebhookEvent struct {
	Type            string `json:"type"`
	MembershipID    int64  `json:"membership_id"`
	SubscriptionRef string `json:"subscription_ref"`
}

// VerifyWebhookSignature checks the hex HMAC-SHA256 signature the provider
// sends in its signature header against the raw request body.
func VerifyWebhookSignature(body []byte, signature, secret string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseWebhook verifies the signature and decodes the event.
func ParseWebhook(body []byte, signature, secret string) (*WebhookEvent, error) {
	if err := VerifyWebhookSignature(body, signature, secret); err != nil {
		return nil, err
	}
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}
	return &event, nil
}
