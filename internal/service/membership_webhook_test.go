package service

import (
	"context"
	"os"
	"testing"

	"matclub/internal/billing"
	"matclub/internal/database"
	"matclub/internal/repository"
	"matclub/internal/schedule"
)

// TestHandleWebhookUnknownSubscription covers providers replaying an event
// for a subscription we never recorded: the service must swallow it so the
// endpoint returns 200 and the provider stops retrying.
func TestHandleWebhookUnknownSubscription(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_webhook.db"
	defer os.Remove(dbPath)

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	svc := NewMembershipService(
		repository.NewMembershipRepository(db),
		repository.NewLocationRepository(db),
		repository.NewMemberRepository(db),
		nil,
		nil,
		"http://localhost:8080",
		schedule.SystemClock{},
	)

	events := []*billing.WebhookEvent{
		{Type: billing.EventSubscriptionCancelled, SubscriptionRef: "sub_gone"},
		{Type: billing.EventPaymentFailed, SubscriptionRef: "sub_gone"},
	}
	for _, event := range events {
		if err := svc.HandleWebhook(context.Background(), event); err != nil {
			t.Errorf("event %s for unknown subscription should be ignored, got %v", event.Type, err)
		}
	}
}
