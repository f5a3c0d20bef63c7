package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				MemberID:  1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			result := session.IsExpired()
			if result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestNextPromotion(t *testing.T) {
	tests := []struct {
		name        string
		belt        string
		stripes     int
		wantBelt    string
		wantStripes int
	}{
		{
			name:        "white belt gains a stripe",
			belt:        "white",
			stripes:     0,
			wantBelt:    "white",
			wantStripes: 1,
		},
		{
			name:        "fourth stripe rolls to next belt",
			belt:        "white",
			stripes:     4,
			wantBelt:    "blue",
			wantStripes: 0,
		},
		{
			name:        "brown rolls to black",
			belt:        "brown",
			stripes:     4,
			wantBelt:    "black",
			wantStripes: 0,
		},
		{
			name:        "black belt keeps accumulating",
			belt:        "black",
			stripes:     4,
			wantBelt:    "black",
			wantStripes: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Member{BeltRank: tt.belt, Stripes: tt.stripes}
			belt, stripes := m.NextPromotion()
			if belt != tt.wantBelt || stripes != tt.wantStripes {
				t.Errorf("NextPromotion() = (%v, %v), want (%v, %v)", belt, stripes, tt.wantBelt, tt.wantStripes)
			}
		})
	}
}

func TestMemberAge(t *testing.T) {
	dob := time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  *time.Time
		at   time.Time
		want int
	}{
		{
			name: "birthday passed this year",
			dob:  &dob,
			at:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			want: 14,
		},
		{
			name: "birthday not yet reached",
			dob:  &dob,
			at:   time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
			want: 13,
		},
		{
			name: "exact birthday",
			dob:  &dob,
			at:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: 14,
		},
		{
			name: "no date of birth",
			dob:  nil,
			at:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Member{DateOfBirth: tt.dob}
			if got := m.Age(tt.at); got != tt.want {
				t.Errorf("Age() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMembershipTypeAllowsAge(t *testing.T) {
	min := 5
	max := 12

	tests := []struct {
		name   string
		minAge *int
		maxAge *int
		age    int
		want   bool
	}{
		{name: "unbounded accepts unknown age", age: -1, want: true},
		{name: "unbounded accepts any age", age: 40, want: true},
		{name: "within bounds", minAge: &min, maxAge: &max, age: 8, want: true},
		{name: "below minimum", minAge: &min, maxAge: &max, age: 4, want: false},
		{name: "above maximum", minAge: &min, maxAge: &max, age: 13, want: false},
		{name: "bounded rejects unknown age", minAge: &min, age: -1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := MembershipType{MinAge: tt.minAge, MaxAge: tt.maxAge}
			if got := tier.AllowsAge(tt.age); got != tt.want {
				t.Errorf("AllowsAge(%d) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestClassOpenToTier(t *testing.T) {
	tests := []struct {
		name   string
		tiers  []int64
		tierID int64
		want   bool
	}{
		{name: "empty restriction admits everyone", tiers: nil, tierID: 7, want: true},
		{name: "listed tier admitted", tiers: []int64{1, 2}, tierID: 2, want: true},
		{name: "unlisted tier excluded", tiers: []int64{1, 2}, tierID: 3, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Class{MembershipTypeIDs: tt.tiers}
			if got := c.OpenToTier(tt.tierID); got != tt.want {
				t.Errorf("OpenToTier(%d) = %v, want %v", tt.tierID, got, tt.want)
			}
		})
	}
}
