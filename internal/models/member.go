package models

import "time"

// Member represents a person in the club directory. Adults carry login
// credentials; child members belong to a parent/guardian account and
// cannot log in themselves.
type Member struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	DateOfBirth   *time.Time
	IsChild       bool
	ParentID      *int64
	BeltRank      string
	Stripes       int
	PhotoURL      string
	OAuthProvider string
	OAuthSubject  string
	IsAdmin       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// beltOrder is the progression ladder, lowest rank first.
var beltOrder = []string{"white", "blue", "purple", "brown", "black"}

// MaxStripes is the number of stripes a member earns before the next belt.
const MaxStripes = 4

// NextPromotion returns the belt and stripe count after one promotion step.
// A member below MaxStripes gains a stripe; at MaxStripes they move to the
// next belt with zero stripes. A black belt keeps accumulating stripes.
func (m *Member) NextPromotion() (belt string, stripes int) {
	if m.Stripes < MaxStripes {
		return m.BeltRank, m.Stripes + 1
	}
	for i, rank := range beltOrder {
		if rank == m.BeltRank && i < len(beltOrder)-1 {
			return beltOrder[i+1], 0
		}
	}
	return m.BeltRank, m.Stripes + 1
}

// ValidBelt reports whether the given rank is on the progression ladder.
func ValidBelt(belt string) bool {
	for _, rank := range beltOrder {
		if rank == belt {
			return true
		}
	}
	return false
}

// Age returns the member's age in whole years at the given date, or -1 when
// no date of birth is recorded.
func (m *Member) Age(at time.Time) int {
	if m.DateOfBirth == nil {
		return -1
	}
	dob := *m.DateOfBirth
	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	return years
}

// Session represents an authenticated member session.
type Session struct {
	ID        string
	MemberID  int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PasswordResetToken represents a token for password reset.
type PasswordResetToken struct {
	Token     string
	MemberID  int64
	ExpiresAt time.Time
	CreatedAt time.Time
	Used      bool
}

// IsExpired checks if the reset token has expired.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
