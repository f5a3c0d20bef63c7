package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestParseWebhook(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"checkout.completed","membership_id":42,"subscription_ref":"sub_123"}`)

	event, err := ParseWebhook(body, sign(body, secret), secret)
	if err != nil {
		t.Fatalf("ParseWebhook failed: %v", err)
	}
	if event.Type != EventCheckoutCompleted {
		t.Errorf("expected type %q, got %q", EventCheckoutCompleted, event.Type)
	}
	if event.MembershipID != 42 {
		t.Errorf("expected membership id 42, got %d", event.MembershipID)
	}
	if event.SubscriptionRef != "sub_123" {
		t.Errorf("expected subscription ref sub_123, got %q", event.SubscriptionRef)
	}
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"checkout.completed","membership_id":42}`)

	if _, err := ParseWebhook(body, sign(body, "whsec_other"), secret); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestParseWebhookRejectsTamperedBody(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"checkout.completed","membership_id":42}`)
	sig := sign(body, secret)

	tampered := []byte(`{"type":"checkout.completed","membership_id":43}`)
	if _, err := ParseWebhook(tampered, sig, secret); err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}
