package schedule

import (
	"testing"
	"time"

	"matclub/internal/models"
)

func statInstance(date time.Time, attended bool) Instance {
	return Instance{Class: models.Class{ID: 1}, Date: date, Attended: attended}
}

func TestBuildMonthlyReport(t *testing.T) {
	today := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	past := []Instance{
		statInstance(time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC), true),
		statInstance(time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC), true),
		statInstance(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), false),
		statInstance(time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC), true),
		statInstance(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), false),
		// May instance falls outside both months and is ignored.
		statInstance(time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), true),
	}

	report := BuildMonthlyReport(past, today)

	if report.ThisMonth.Attended != 2 || report.ThisMonth.Total != 3 {
		t.Errorf("ThisMonth = %d/%d, want 2/3", report.ThisMonth.Attended, report.ThisMonth.Total)
	}
	if report.LastMonth.Attended != 1 || report.LastMonth.Total != 2 {
		t.Errorf("LastMonth = %d/%d, want 1/2", report.LastMonth.Attended, report.LastMonth.Total)
	}
	if !report.Improved {
		t.Error("Improved should be true when this month's attended count exceeds last month's")
	}
}

func TestBuildMonthlyReportNotImprovedOnTie(t *testing.T) {
	today := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	past := []Instance{
		statInstance(time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC), true),
		statInstance(time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC), true),
	}

	report := BuildMonthlyReport(past, today)
	if report.Improved {
		t.Error("equal attended counts must not report improvement")
	}
}

func TestMonthStatsRate(t *testing.T) {
	tests := []struct {
		name     string
		attended int
		total    int
		want     int
	}{
		{name: "empty month yields zero, not a division error", attended: 0, total: 0, want: 0},
		{name: "full attendance", attended: 4, total: 4, want: 100},
		{name: "two thirds rounds up", attended: 2, total: 3, want: 67},
		{name: "one third rounds down", attended: 1, total: 3, want: 33},
		{name: "exact half", attended: 1, total: 2, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MonthStats{Attended: tt.attended, Total: tt.total}
			if got := s.Rate(); got != tt.want {
				t.Errorf("Rate() = %d, want %d", got, tt.want)
			}
		})
	}
}
