package service

import (
	"errors"
	"fmt"
	"time"

	"matclub/internal/models"
	"matclub/internal/repository"
	"matclub/internal/schedule"
)

// ErrNoActiveMembership is returned when a member without an active
// membership asks for a timetable or check-in.
var ErrNoActiveMembership = errors.New("no active membership")

// Timetable is the member-facing schedule view: the coming four weeks of
// class instances and the past four weeks with attendance marked.
type Timetable struct {
	Membership *models.Membership
	Upcoming   []schedule.Instance
	Past       []schedule.Instance
	Report     schedule.MonthlyReport
}

// ScheduleService produces per-member timetables and attendance reports
// from the recurring class catalog.
type ScheduleService struct {
	classRepo      *repository.ClassRepository
	attendanceRepo *repository.AttendanceRepository
	membershipRepo *repository.MembershipRepository
	clock          schedule.Clock
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	classRepo *repository.ClassRepository,
	attendanceRepo *repository.AttendanceRepository,
	membershipRepo *repository.MembershipRepository,
	clock schedule.Clock,
) *ScheduleService {
	return &ScheduleService{
		classRepo:      classRepo,
		attendanceRepo: attendanceRepo,
		membershipRepo: membershipRepo,
		clock:          clock,
	}
}

// GetTimetable builds the member's timetable at their active membership's
// location. History never reaches back before the membership start date.
func (s *ScheduleService) GetTimetable(memberID int64) (*Timetable, error) {
	membership, err := s.membershipRepo.GetAnyActiveMembership(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNoActiveMembership
	}

	classes, err := s.classRepo.ListActiveClasses(membership.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	visible := schedule.VisibleClasses(classes, membership.MembershipTypeID)

	today := schedule.DateKey(s.clock.Now())
	since := today.AddDate(0, 0, -schedule.HorizonDays)
	records, err := s.attendanceRepo.GetMemberAttendance(memberID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	startDate := schedule.DateKey(membership.EffectiveStartDate())
	upcoming, past := schedule.BuildTimetable(visible, schedule.NewAttendanceSet(records), startDate, today)

	return &Timetable{
		Membership: membership,
		Upcoming:   upcoming,
		Past:       past,
		Report:     schedule.BuildMonthlyReport(past, today),
	}, nil
}

// GetMemberHistory returns a member's raw attendance going back the given
// number of days (admin view).
func (s *ScheduleService) GetMemberHistory(memberID int64, days int) ([]models.AttendanceRecord, error) {
	since := schedule.DateKey(s.clock.Now()).AddDate(0, 0, -days)
	records, err := s.attendanceRepo.GetMemberAttendance(memberID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance history: %w", err)
	}
	return records, nil
}

// GetClassRoster returns the check-ins for a class on a calendar date
// (admin view).
func (s *ScheduleService) GetClassRoster(classID int64, date time.Time) ([]models.AttendanceRecord, error) {
	records, err := s.attendanceRepo.GetClassAttendance(classID, schedule.DateKey(date))
	if err != nil {
		return nil, fmt.Errorf("failed to get class roster: %w", err)
	}
	return records, nil
}
