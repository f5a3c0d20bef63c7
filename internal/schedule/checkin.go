package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EarlyWindowMinutes is how long before a class starts that check-in opens.
const EarlyWindowMinutes = 60

// Decision is the outcome of a check-in eligibility check. When Allowed is
// false and Reason is empty the caller simply hides the check-in control;
// a non-empty Reason is shown to the member.
type Decision struct {
	Allowed bool
	Reason  string
}

// CanCheckIn decides whether check-in is currently permitted for the
// instance. Pure function of the instance and now; no I/O.
//
// Only instances dated today are ever eligible. Check-in is open from
// EarlyWindowMinutes before the start time through the end time inclusive.
// Earlier than that, the reason reports how long until the window opens;
// after the end time the instance is silently treated as past.
func CanCheckIn(inst Instance, now time.Time) Decision {
	if !DateKey(inst.Date).Equal(DateKey(now)) {
		return Decision{}
	}

	start, err := minuteOfDay(inst.Class.StartTime)
	if err != nil {
		return Decision{}
	}
	end, err := minuteOfDay(inst.Class.EndTime)
	if err != nil {
		return Decision{}
	}

	nowMin := now.Hour()*60 + now.Minute()

	if nowMin >= start && nowMin <= end {
		return Decision{Allowed: true}
	}

	if nowMin < start {
		if start-nowMin <= EarlyWindowMinutes {
			return Decision{Allowed: true}
		}
		wait := start - nowMin - EarlyWindowMinutes
		return Decision{Reason: "Check-in opens in " + formatWait(wait)}
	}

	// Class already ended.
	return Decision{}
}

// minuteOfDay parses an "HH:MM" time of day into minutes since midnight.
// A trailing seconds component is ignored.
func minuteOfDay(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time of day: %q", hhmm)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day: %q", hhmm)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day: %q", hhmm)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time of day out of range: %q", hhmm)
	}
	return hours*60 + minutes, nil
}

// formatWait renders a wait in minutes as "45 min" below an hour and
// "2h 15m" (or "2h" on the exact hour) at an hour or more.
func formatWait(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}
