package models

import "time"

// Class is a recurring weekly class definition at a location.
// DayOfWeek uses 0=Sunday..6=Saturday; StartTime and EndTime are local
// "HH:MM" times of day with no timezone.
type Class struct {
	ID                int64
	LocationID        int64
	Name              string
	ClassType         string
	DayOfWeek         int
	StartTime         string
	EndTime           string
	InstructorID      *int64
	Active            bool
	MembershipTypeIDs []int64 // empty = visible to every tier at the location
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OpenToTier reports whether a member holding the given tier may attend.
// An empty restriction set is a whitelist of everything at the location;
// a non-empty set admits only the listed tiers.
func (c *Class) OpenToTier(tierID int64) bool {
	if len(c.MembershipTypeIDs) == 0 {
		return true
	}
	for _, id := range c.MembershipTypeIDs {
		if id == tierID {
			return true
		}
	}
	return false
}

// AttendanceRecord is the persisted fact that a member checked into a class
// on a calendar date. Immutable once created; unique per
// (class, member, date).
type AttendanceRecord struct {
	ID        int64
	ClassID   int64
	MemberID  int64
	Date      time.Time // calendar date, time-of-day zeroed
	CreatedAt time.Time
}
