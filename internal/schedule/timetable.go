// Package schedule expands the recurring class catalog into dated class
// instances, decides check-in eligibility, and aggregates month-over-month
// attendance. Everything here is a pure computation over already-fetched
// data; no I/O happens inside this package.
package schedule

import (
	"time"

	"matclub/internal/models"
)

// HorizonDays bounds the timetable in each direction: upcoming covers today
// through +27 days, past covers yesterday through -28 days.
const HorizonDays = 28

// Instance is one concrete dated occurrence of a class, materialized only in
// memory for a single timetable computation.
type Instance struct {
	Class    models.Class
	Date     time.Time
	Attended bool
}

type attendanceKey struct {
	classID int64
	date    time.Time
}

// AttendanceSet indexes attendance records by (class, calendar date) for
// constant-time probing while instances are generated.
type AttendanceSet map[attendanceKey]struct{}

// NewAttendanceSet builds an AttendanceSet from persisted records.
func NewAttendanceSet(records []models.AttendanceRecord) AttendanceSet {
	set := make(AttendanceSet, len(records))
	for _, rec := range records {
		set[attendanceKey{rec.ClassID, DateKey(rec.Date)}] = struct{}{}
	}
	return set
}

// Contains reports whether a check-in exists for the class on the date.
func (s AttendanceSet) Contains(classID int64, date time.Time) bool {
	_, ok := s[attendanceKey{classID, DateKey(date)}]
	return ok
}

// VisibleClasses filters the catalog down to classes the given tier may
// attend. Classes with a non-empty restriction set operate as a whitelist:
// a tier not explicitly associated is excluded.
func VisibleClasses(classes []models.Class, tierID int64) []models.Class {
	var visible []models.Class
	for _, c := range classes {
		if c.OpenToTier(tierID) {
			visible = append(visible, c)
		}
	}
	return visible
}

// BuildTimetable expands classes into dated instances around today.
//
// Upcoming runs from today through +27 days; past runs from yesterday back
// through -28 days, truncated so no instance precedes startDate. Instances
// are ordered nearest date first and, within a day, in catalog order. The
// attended flag is set by probing the attendance set.
func BuildTimetable(classes []models.Class, attendance AttendanceSet, startDate, today time.Time) (upcoming, past []Instance) {
	base := DateKey(today)
	start := DateKey(startDate)

	for offset := 0; offset < HorizonDays; offset++ {
		date := base.AddDate(0, 0, offset)
		upcoming = append(upcoming, instancesOn(classes, attendance, date)...)
	}

	for offset := 1; offset <= HorizonDays; offset++ {
		date := base.AddDate(0, 0, -offset)
		if date.Before(start) {
			break
		}
		past = append(past, instancesOn(classes, attendance, date)...)
	}

	return upcoming, past
}

// instancesOn emits one instance per class whose weekday matches the date.
func instancesOn(classes []models.Class, attendance AttendanceSet, date time.Time) []Instance {
	weekday := int(date.Weekday())
	var out []Instance
	for _, c := range classes {
		if c.DayOfWeek != weekday {
			continue
		}
		out = append(out, Instance{
			Class:    c,
			Date:     date,
			Attended: attendance.Contains(c.ID, date),
		})
	}
	return out
}
