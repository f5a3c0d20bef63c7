// Package billing integrates with an external hosted-checkout payment
// provider. The club never touches card details; members are redirected to
// the provider's checkout page and the provider calls back via webhook.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CheckoutRequest describes the subscription a member is purchasing.
type CheckoutRequest struct {
	MembershipID int64  `json:"membership_id"`
	MemberEmail  string `json:"member_email"`
	PlanName     string `json:"plan_name"`
	PriceCents   int64  `json:"price_cents"`
	SuccessURL   string `json:"success_url"`
	CancelURL    string `json:"cancel_url"`
}

// CheckoutSession is the provider's response: where to send the member.
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Provider is the payment backend. Implementations must be safe for
// concurrent use.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	CancelSubscription(ctx context.Context, subscriptionRef string) error
}

// HTTPProvider talks JSON over HTTPS to the payment provider's API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider client for the given API base URL.
func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateCheckoutSession asks the provider for a hosted checkout URL.
func (p *HTTPProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("checkout session request returned %d: %s", resp.StatusCode, msg)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.CheckoutURL == "" {
		return nil, fmt.Errorf("checkout session response missing checkout_url")
	}
	return &session, nil
}

// CancelSubscription stops recurring billing for a subscription.
func (p *HTTPProvider) CancelSubscription(ctx context.Context, subscriptionRef string) error {
	url := p.baseURL + "/v1/subscriptions/" + subscriptionRef
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build cancel request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cancel subscription returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}
