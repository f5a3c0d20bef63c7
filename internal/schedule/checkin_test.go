package schedule

import (
	"testing"
	"time"

	"matclub/internal/models"
)

func instanceAt(date time.Time, start, end string) Instance {
	return Instance{
		Class: models.Class{ID: 1, StartTime: start, EndTime: end},
		Date:  date,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2024, 7, 17, hour, min, 0, 0, time.UTC)
}

func TestCanCheckIn(t *testing.T) {
	today := time.Date(2024, 7, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		inst        Instance
		now         time.Time
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "exact start time",
			inst:        instanceAt(today, "10:00", "11:00"),
			now:         at(10, 0),
			wantAllowed: true,
		},
		{
			name:        "class in progress",
			inst:        instanceAt(today, "10:00", "11:00"),
			now:         at(10, 30),
			wantAllowed: true,
		},
		{
			name:        "exact end time still allowed",
			inst:        instanceAt(today, "10:00", "11:00"),
			now:         at(11, 0),
			wantAllowed: true,
		},
		{
			name:        "exactly 60 minutes early",
			inst:        instanceAt(today, "10:00", "11:00"),
			now:         at(9, 0),
			wantAllowed: true,
		},
		{
			name:       "61 minutes early",
			inst:       instanceAt(today, "10:00", "11:00"),
			now:        at(8, 59),
			wantReason: "Check-in opens in 1 min",
		},
		{
			name:       "105 minutes early",
			inst:       instanceAt(today, "10:00", "11:00"),
			now:        at(8, 15),
			wantReason: "Check-in opens in 45 min",
		},
		{
			name:       "two hours of wait",
			inst:       instanceAt(today, "12:00", "13:00"),
			now:        at(9, 0),
			wantReason: "Check-in opens in 2h",
		},
		{
			name:       "hours and minutes wait",
			inst:       instanceAt(today, "12:15", "13:15"),
			now:        at(9, 0),
			wantReason: "Check-in opens in 2h 15m",
		},
		{
			name: "class already ended",
			inst: instanceAt(today, "08:00", "09:00"),
			now:  at(9, 1),
		},
		{
			name: "instance dated tomorrow",
			inst: instanceAt(today.AddDate(0, 0, 1), "10:00", "11:00"),
			now:  at(10, 0),
		},
		{
			name: "instance dated yesterday",
			inst: instanceAt(today.AddDate(0, 0, -1), "10:00", "11:00"),
			now:  at(10, 0),
		},
		{
			name: "unparseable start time",
			inst: instanceAt(today, "soon", "11:00"),
			now:  at(10, 0),
		},
		{
			name:        "seconds in stored time ignored",
			inst:        instanceAt(today, "10:00:00", "11:00:00"),
			now:         at(10, 15),
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanCheckIn(tt.inst, tt.now)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestFormatWait(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{1, "1 min"},
		{45, "45 min"},
		{59, "59 min"},
		{60, "1h"},
		{61, "1h 1m"},
		{135, "2h 15m"},
		{180, "3h"},
	}

	for _, tt := range tests {
		if got := formatWait(tt.minutes); got != tt.want {
			t.Errorf("formatWait(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
