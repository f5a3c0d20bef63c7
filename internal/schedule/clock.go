package schedule

import "time"

// Clock supplies the current time. Injectable so the timetable, gate and
// stats logic can be tested at fixed instants.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// DateKey strips the time-of-day component, yielding a comparable calendar
// date. All attendance lookups and window comparisons go through this to
// avoid timezone-induced key mismatches.
func DateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
