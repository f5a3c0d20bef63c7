package models

import "time"

// Membership status values.
const (
	MembershipActive    = "active"
	MembershipPending   = "pending"
	MembershipInactive  = "inactive"
	MembershipCancelled = "cancelled"
)

// Membership links a member to a membership type at a location. At most one
// active membership may exist per (member, location) pair.
type Membership struct {
	ID               int64
	MemberID         int64
	LocationID       int64
	MembershipTypeID int64
	Status           string
	StartDate        *time.Time
	SubscriptionRef  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the membership grants access.
func (m *Membership) IsActive() bool {
	return m.Status == MembershipActive
}

// EffectiveStartDate returns the start date, falling back to the creation
// date when none was recorded.
func (m *Membership) EffectiveStartDate() time.Time {
	if m.StartDate != nil {
		return *m.StartDate
	}
	return m.CreatedAt
}

// Location is a club venue. Immutable once referenced except for the
// active toggle.
type Location struct {
	ID        int64
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
}

// MembershipType is a priced tier scoped to a location, optionally
// age-bounded and capacity-limited.
type MembershipType struct {
	ID         int64
	LocationID int64
	Name       string
	PriceCents int64
	MinAge     *int
	MaxAge     *int
	Capacity   int // 0 = unlimited
	Active     bool
	CreatedAt  time.Time
}

// IsFree reports whether the tier requires no payment.
func (t *MembershipType) IsFree() bool {
	return t.PriceCents == 0
}

// AllowsAge reports whether a member of the given age may hold this tier.
// An age of -1 (unknown) is accepted only by unbounded tiers.
func (t *MembershipType) AllowsAge(age int) bool {
	if t.MinAge == nil && t.MaxAge == nil {
		return true
	}
	if age < 0 {
		return false
	}
	if t.MinAge != nil && age < *t.MinAge {
		return false
	}
	if t.MaxAge != nil && age > *t.MaxAge {
		return false
	}
	return true
}
