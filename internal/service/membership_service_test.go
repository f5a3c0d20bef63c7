package service

import (
	"errors"
	"testing"
	"time"

	"matclub/internal/models"
)

func TestEvaluateEligibility(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	dob := time.Date(2014, 3, 10, 0, 0, 0, 0, time.UTC) // age 10
	minAge, maxAge := 5, 12

	member := &models.Member{ID: 1, DateOfBirth: &dob}
	adult := &models.Member{ID: 2, DateOfBirth: func() *time.Time {
		d := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
		return &d
	}()}

	tests := []struct {
		name        string
		member      *models.Member
		tier        *models.MembershipType
		active      *models.Membership
		activeCount int
		wantErr     error
	}{
		{
			name:   "eligible for unbounded tier",
			member: adult,
			tier:   &models.MembershipType{ID: 1},
		},
		{
			name:    "existing active membership at location",
			member:  adult,
			tier:    &models.MembershipType{ID: 1},
			active:  &models.Membership{ID: 9, Status: models.MembershipActive},
			wantErr: ErrAlreadyActive,
		},
		{
			name:    "adult rejected by kids tier",
			member:  adult,
			tier:    &models.MembershipType{ID: 2, MinAge: &minAge, MaxAge: &maxAge},
			wantErr: ErrAgeRestricted,
		},
		{
			name:   "child accepted by kids tier",
			member: member,
			tier:   &models.MembershipType{ID: 2, MinAge: &minAge, MaxAge: &maxAge},
		},
		{
			name:        "tier at capacity",
			member:      adult,
			tier:        &models.MembershipType{ID: 3, Capacity: 20},
			activeCount: 20,
			wantErr:     ErrTierFull,
		},
		{
			name:        "one seat left",
			member:      adult,
			tier:        &models.MembershipType{ID: 3, Capacity: 20},
			activeCount: 19,
		},
		{
			name:        "zero capacity means unlimited",
			member:      adult,
			tier:        &models.MembershipType{ID: 4, Capacity: 0},
			activeCount: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluateEligibility(tt.member, tt.tier, tt.active, tt.activeCount, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("evaluateEligibility() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
