package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"matclub/internal/billing"
	"matclub/internal/models"
	"matclub/internal/repository"
	"matclub/internal/schedule"
)

var (
	ErrAlreadyActive      = errors.New("member already has an active membership at this location")
	ErrTierFull           = errors.New("membership type is at capacity")
	ErrAgeRestricted      = errors.New("member does not meet the age requirements for this membership type")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrTierNotFound       = errors.New("membership type not found")
)

// MembershipService handles signup, activation and cancellation of
// memberships, delegating payment to the billing provider.
type MembershipService struct {
	membershipRepo *repository.MembershipRepository
	locationRepo   *repository.LocationRepository
	memberRepo     *repository.MemberRepository
	provider       billing.Provider
	emailService   *EmailService
	appBaseURL     string
	clock          schedule.Clock
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	membershipRepo *repository.MembershipRepository,
	locationRepo *repository.LocationRepository,
	memberRepo *repository.MemberRepository,
	provider billing.Provider,
	emailService *EmailService,
	appBaseURL string,
	clock schedule.Clock,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		locationRepo:   locationRepo,
		memberRepo:     memberRepo,
		provider:       provider,
		emailService:   emailService,
		appBaseURL:     appBaseURL,
		clock:          clock,
	}
}

// SignupResult is the outcome of starting a signup: either the membership
// went straight to active (free tier) or the member must complete checkout.
type SignupResult struct {
	Membership  *models.Membership
	CheckoutURL string
}

// StartSignup begins a membership purchase for a member. Free tiers
// activate immediately; paid tiers create a pending membership and return
// the provider's hosted checkout URL.
func (s *MembershipService) StartSignup(ctx context.Context, memberID, locationID, typeID int64) (*SignupResult, error) {
	tier, err := s.locationRepo.GetMembershipTypeByID(typeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership type: %w", err)
	}
	if tier == nil || tier.LocationID != locationID {
		return nil, ErrTierNotFound
	}

	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	if err := s.checkEligibility(member, tier, locationID); err != nil {
		return nil, err
	}

	if tier.IsFree() {
		today := schedule.DateKey(s.clock.Now())
		membership, err := s.membershipRepo.CreateMembership(memberID, locationID, typeID, models.MembershipActive, &today)
		if err != nil {
			return nil, err
		}
		s.sendMembershipEmail(ctx, "membership_active", member, tier)
		return &SignupResult{Membership: membership}, nil
	}

	membership, err := s.membershipRepo.CreateMembership(memberID, locationID, typeID, models.MembershipPending, nil)
	if err != nil {
		return nil, err
	}

	billedEmail := member.Email
	if member.IsChild && member.ParentID != nil {
		parent, err := s.memberRepo.GetMemberByID(*member.ParentID)
		if err == nil && parent != nil {
			billedEmail = parent.Email
		}
	}

	session, err := s.provider.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		MembershipID: membership.ID,
		MemberEmail:  billedEmail,
		PlanName:     tier.Name,
		PriceCents:   tier.PriceCents,
		SuccessURL:   s.appBaseURL + "/membership/complete",
		CancelURL:    s.appBaseURL + "/membership/cancelled",
	})
	if err != nil {
		_ = s.membershipRepo.DeleteMembership(membership.ID)
		return nil, fmt.Errorf("failed to start checkout: %w", err)
	}

	return &SignupResult{Membership: membership, CheckoutURL: session.CheckoutURL}, nil
}

// checkEligibility enforces the single-active, age and capacity rules.
func (s *MembershipService) checkEligibility(member *models.Member, tier *models.MembershipType, locationID int64) error {
	active, err := s.membershipRepo.GetActiveMembership(member.ID, locationID)
	if err != nil {
		return err
	}

	activeCount := 0
	if tier.Capacity > 0 {
		activeCount, err = s.membershipRepo.CountActiveByType(tier.ID)
		if err != nil {
			return err
		}
	}

	return evaluateEligibility(member, tier, active, activeCount, s.clock.Now())
}

// evaluateEligibility decides whether a member may take out a tier, given
// their existing active membership at the location and the tier's current
// active headcount.
func evaluateEligibility(member *models.Member, tier *models.MembershipType, active *models.Membership, activeCount int, now time.Time) error {
	if active != nil {
		return ErrAlreadyActive
	}
	if !tier.AllowsAge(member.Age(now)) {
		return ErrAgeRestricted
	}
	if tier.Capacity > 0 && activeCount >= tier.Capacity {
		return ErrTierFull
	}
	return nil
}

// HandleWebhook applies a verified billing event to the referenced
// membership.
func (s *MembershipService) HandleWebhook(ctx context.Context, event *billing.WebhookEvent) error {
	switch event.Type {
	case billing.EventCheckoutCompleted:
		return s.activateFromCheckout(ctx, event.MembershipID, event.SubscriptionRef)
	case billing.EventSubscriptionCancelled:
		return s.deactivateBySubscription(ctx, event.SubscriptionRef, models.MembershipCancelled)
	case billing.EventPaymentFailed:
		return s.deactivateBySubscription(ctx, event.SubscriptionRef, models.MembershipInactive)
	default:
		log.Printf("Ignoring unknown billing event type: %s", event.Type)
		return nil
	}
}

func (s *MembershipService) activateFromCheckout(ctx context.Context, membershipID int64, subscriptionRef string) error {
	membership, err := s.membershipRepo.GetMembershipByID(membershipID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMembershipNotFound
	}
	if membership.IsActive() {
		// Webhook retry; the first delivery already activated it.
		return nil
	}

	startDate := schedule.DateKey(s.clock.Now())
	if err := s.membershipRepo.Activate(membership.ID, startDate, subscriptionRef); err != nil {
		return err
	}

	s.notifyMembershipChange(ctx, membership, "membership_active")
	return nil
}

func (s *MembershipService) deactivateBySubscription(ctx context.Context, subscriptionRef, status string) error {
	membership, err := s.membershipRepo.GetMembershipBySubscriptionRef(subscriptionRef)
	if err != nil {
		return err
	}
	if membership == nil {
		// Returning an error would make the provider retry an event we
		// can never process.
		log.Printf("Ignoring billing event for unknown subscription %s", subscriptionRef)
		return nil
	}
	if err := s.membershipRepo.UpdateStatus(membership.ID, status); err != nil {
		return err
	}
	if status == models.MembershipCancelled {
		s.notifyMembershipChange(ctx, membership, "membership_cancelled")
	}
	return nil
}

// CancelMembership cancels a member's membership, stopping recurring
// billing first when a subscription exists.
func (s *MembershipService) CancelMembership(ctx context.Context, memberID, membershipID int64) error {
	membership, err := s.membershipRepo.GetMembershipByID(membershipID)
	if err != nil {
		return err
	}
	if membership == nil || membership.MemberID != memberID {
		return ErrMembershipNotFound
	}
	if !membership.IsActive() && membership.Status != models.MembershipPending {
		return nil
	}

	if membership.SubscriptionRef != "" {
		if err := s.provider.CancelSubscription(ctx, membership.SubscriptionRef); err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
	}
	if err := s.membershipRepo.UpdateStatus(membership.ID, models.MembershipCancelled); err != nil {
		return err
	}
	s.notifyMembershipChange(ctx, membership, "membership_cancelled")
	return nil
}

// GetMemberMemberships lists a member's memberships, newest first
func (s *MembershipService) GetMemberMemberships(memberID int64) ([]models.Membership, error) {
	return s.membershipRepo.GetMemberMemberships(memberID)
}

// GetActiveMembership returns the member's active membership at a location,
// or nil when they have none.
func (s *MembershipService) GetActiveMembership(memberID, locationID int64) (*models.Membership, error) {
	return s.membershipRepo.GetActiveMembership(memberID, locationID)
}

// GetAnyActiveMembership returns the member's active membership at any
// location, or nil when they have none.
func (s *MembershipService) GetAnyActiveMembership(memberID int64) (*models.Membership, error) {
	return s.membershipRepo.GetAnyActiveMembership(memberID)
}

// AdminSetStatus transitions a membership directly (admin override). An
// activation stamps today's date as the start when none is recorded.
func (s *MembershipService) AdminSetStatus(membershipID int64, status string) error {
	membership, err := s.membershipRepo.GetMembershipByID(membershipID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMembershipNotFound
	}
	if status == models.MembershipActive && membership.StartDate == nil {
		return s.membershipRepo.Activate(membership.ID, schedule.DateKey(s.clock.Now()), membership.SubscriptionRef)
	}
	return s.membershipRepo.UpdateStatus(membershipID, status)
}

func (s *MembershipService) notifyMembershipChange(ctx context.Context, membership *models.Membership, templateName string) {
	member, err := s.memberRepo.GetMemberByID(membership.MemberID)
	if err != nil || member == nil {
		return
	}
	tier, err := s.locationRepo.GetMembershipTypeByID(membership.MembershipTypeID)
	if err != nil || tier == nil {
		return
	}
	s.sendMembershipEmail(ctx, templateName, member, tier)
}

// sendMembershipEmail emails the member (or their parent for child
// members). Email failures are logged, never surfaced to the caller.
func (s *MembershipService) sendMembershipEmail(ctx context.Context, templateName string, member *models.Member, tier *models.MembershipType) {
	if s.emailService == nil || !s.emailService.IsEnabled() {
		return
	}

	recipient := member
	if member.IsChild && member.ParentID != nil {
		parent, err := s.memberRepo.GetMemberByID(*member.ParentID)
		if err != nil || parent == nil {
			return
		}
		recipient = parent
	}

	location, err := s.locationRepo.GetLocationByID(tier.LocationID)
	locationName := ""
	if err == nil && location != nil {
		locationName = location.Name
	}

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err = s.emailService.SendTemplatedEmail(sendCtx, templateName, recipient.Email, EmailData{
		Name:           member.Name,
		MembershipType: tier.Name,
		Location:       locationName,
	})
	if err != nil {
		log.Printf("Failed to send %s email to %s: %v", templateName, recipient.Email, err)
	}
}
