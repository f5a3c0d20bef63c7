package service

import (
	"errors"
	"testing"
	"time"

	"matclub/internal/models"
	"matclub/internal/repository"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeClassStore struct {
	class *models.Class
}

func (f *fakeClassStore) GetClassByID(id int64) (*models.Class, error) {
	if f.class != nil && f.class.ID == id {
		return f.class, nil
	}
	return nil, nil
}

type fakeMembershipStore struct {
	membership *models.Membership
}

func (f *fakeMembershipStore) GetAnyActiveMembership(memberID int64) (*models.Membership, error) {
	return f.membership, nil
}

type fakeAttendanceStore struct {
	created []models.AttendanceRecord
}

func (f *fakeAttendanceStore) CreateAttendance(classID, memberID int64, date time.Time) (*models.AttendanceRecord, error) {
	for _, rec := range f.created {
		if rec.ClassID == classID && rec.MemberID == memberID && rec.Date.Equal(date) {
			return nil, repository.ErrDuplicateAttendance
		}
	}
	rec := models.AttendanceRecord{
		ID:       int64(len(f.created) + 1),
		ClassID:  classID,
		MemberID: memberID,
		Date:     date,
	}
	f.created = append(f.created, rec)
	return &rec, nil
}

// Wednesday 2024-07-17 at 18:30 UTC, during an 18:00-19:30 class.
var duringClass = time.Date(2024, 7, 17, 18, 30, 0, 0, time.UTC)

func newCheckInFixture(now time.Time) (*CheckInService, *fakeAttendanceStore) {
	classes := &fakeClassStore{class: &models.Class{
		ID:         7,
		LocationID: 1,
		Name:       "Fundamentals",
		DayOfWeek:  3,
		StartTime:  "18:00",
		EndTime:    "19:30",
		Active:     true,
	}}
	memberships := &fakeMembershipStore{membership: &models.Membership{
		ID:               1,
		MemberID:         42,
		LocationID:       1,
		MembershipTypeID: 2,
		Status:           models.MembershipActive,
	}}
	attendance := &fakeAttendanceStore{}
	return NewCheckInService(classes, memberships, attendance, fakeClock{now}), attendance
}

func TestCheckInRecordsAttendance(t *testing.T) {
	svc, store := newCheckInFixture(duringClass)

	result, err := svc.CheckIn(42, 7)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if result.AlreadyCheckedIn {
		t.Error("first check-in should not report AlreadyCheckedIn")
	}
	if result.Record == nil {
		t.Fatal("expected a record")
	}
	want := time.Date(2024, 7, 17, 0, 0, 0, 0, time.UTC)
	if !result.Record.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, result.Record.Date)
	}
	if len(store.created) != 1 {
		t.Errorf("expected 1 stored record, got %d", len(store.created))
	}
}

func TestCheckInIsIdempotent(t *testing.T) {
	svc, store := newCheckInFixture(duringClass)

	if _, err := svc.CheckIn(42, 7); err != nil {
		t.Fatalf("first CheckIn failed: %v", err)
	}
	result, err := svc.CheckIn(42, 7)
	if err != nil {
		t.Fatalf("second CheckIn failed: %v", err)
	}
	if !result.AlreadyCheckedIn {
		t.Error("second check-in should report AlreadyCheckedIn")
	}
	if len(store.created) != 1 {
		t.Errorf("expected 1 stored record after repeat, got %d", len(store.created))
	}
}

func TestCheckInRequiresActiveMembership(t *testing.T) {
	svc, _ := newCheckInFixture(duringClass)
	svc.memberships = &fakeMembershipStore{membership: nil}

	if _, err := svc.CheckIn(42, 7); !errors.Is(err, ErrNoActiveMembership) {
		t.Errorf("expected ErrNoActiveMembership, got %v", err)
	}
}

func TestCheckInRejectsRestrictedTier(t *testing.T) {
	svc, _ := newCheckInFixture(duringClass)
	svc.classes.(*fakeClassStore).class.MembershipTypeIDs = []int64{9}

	if _, err := svc.CheckIn(42, 7); !errors.Is(err, ErrClassNotAvailable) {
		t.Errorf("expected ErrClassNotAvailable, got %v", err)
	}
}

func TestCheckInRejectsUnknownClass(t *testing.T) {
	svc, _ := newCheckInFixture(duringClass)

	if _, err := svc.CheckIn(42, 99); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}

func TestCheckInGateClosedBeforeWindow(t *testing.T) {
	// 15:30 is 150 minutes before an 18:00 start.
	early := time.Date(2024, 7, 17, 15, 30, 0, 0, time.UTC)
	svc, store := newCheckInFixture(early)

	_, err := svc.CheckIn(42, 7)
	var gateErr *CheckInError
	if !errors.As(err, &gateErr) {
		t.Fatalf("expected CheckInError, got %v", err)
	}
	if gateErr.Reason != "Check-in opens in 1h 30m" {
		t.Errorf("unexpected gate reason: %q", gateErr.Reason)
	}
	if len(store.created) != 0 {
		t.Error("gate-closed check-in must not store a record")
	}
}

func TestCheckInGateClosedWrongDay(t *testing.T) {
	// Thursday; the class meets Wednesdays. The class time window alone
	// must not open the gate on the wrong weekday.
	thursday := time.Date(2024, 7, 18, 18, 30, 0, 0, time.UTC)
	svc, store := newCheckInFixture(thursday)

	_, err := svc.CheckIn(42, 7)
	var gateErr *CheckInError
	if !errors.As(err, &gateErr) {
		t.Fatalf("expected CheckInError, got %v", err)
	}
	if gateErr.Reason != "This class does not meet today" {
		t.Errorf("unexpected gate reason: %q", gateErr.Reason)
	}
	if len(store.created) != 0 {
		t.Error("wrong-day check-in must not store a record")
	}
}
