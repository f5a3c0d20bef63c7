package service

import (
	"errors"
	"fmt"
	"time"

	"matclub/internal/models"
	"matclub/internal/repository"
	"matclub/internal/schedule"
)

var (
	ErrClassNotFound     = errors.New("class not found")
	ErrClassNotAvailable = errors.New("class is not available on your membership")
)

// CheckInError is returned when the gate refuses a check-in, carrying the
// member-facing message (e.g. "Check-in opens in 45 min").
type CheckInError struct {
	Reason string
}

func (e *CheckInError) Error() string {
	if e.Reason == "" {
		return "check-in is not open"
	}
	return e.Reason
}

// Narrow store interfaces so the gate path can be tested without a
// database.
type classStore interface {
	GetClassByID(id int64) (*models.Class, error)
}

type membershipStore interface {
	GetAnyActiveMembership(memberID int64) (*models.Membership, error)
}

type attendanceStore interface {
	CreateAttendance(classID, memberID int64, date time.Time) (*models.AttendanceRecord, error)
}

// CheckInResult reports a successful check-in. AlreadyCheckedIn is set when
// the member had checked in before; repeats are not an error.
type CheckInResult struct {
	Record           *models.AttendanceRecord
	AlreadyCheckedIn bool
}

// CheckInService records class attendance. The gate rules are re-validated
// server side; the client's view of the gate is advisory only.
type CheckInService struct {
	classes     classStore
	memberships membershipStore
	attendance  attendanceStore
	clock       schedule.Clock
}

// NewCheckInService creates a new check-in service
func NewCheckInService(classes classStore, memberships membershipStore, attendance attendanceStore, clock schedule.Clock) *CheckInService {
	return &CheckInService{
		classes:     classes,
		memberships: memberships,
		attendance:  attendance,
		clock:       clock,
	}
}

// CheckIn records the member's attendance at today's instance of the class.
// The member needs an active membership whose tier may attend the class,
// and the time gate must be open. Checking in twice is a no-op.
func (s *CheckInService) CheckIn(memberID, classID int64) (*CheckInResult, error) {
	membership, err := s.memberships.GetAnyActiveMembership(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNoActiveMembership
	}

	class, err := s.classes.GetClassByID(classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil || !class.Active {
		return nil, ErrClassNotFound
	}
	if class.LocationID != membership.LocationID || !class.OpenToTier(membership.MembershipTypeID) {
		return nil, ErrClassNotAvailable
	}

	now := s.clock.Now()
	today := schedule.DateKey(now)
	if class.DayOfWeek != int(today.Weekday()) {
		return nil, &CheckInError{Reason: "This class does not meet today"}
	}
	inst := schedule.Instance{Class: *class, Date: today}
	if decision := schedule.CanCheckIn(inst, now); !decision.Allowed {
		return nil, &CheckInError{Reason: decision.Reason}
	}

	record, err := s.attendance.CreateAttendance(classID, memberID, today)
	if errors.Is(err, repository.ErrDuplicateAttendance) {
		return &CheckInResult{AlreadyCheckedIn: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}
	return &CheckInResult{Record: record}, nil
}
