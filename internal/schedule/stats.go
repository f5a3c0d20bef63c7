package schedule

import "time"

// MonthStats counts attended versus generated instances within one
// calendar month.
type MonthStats struct {
	Attended int
	Total    int
}

// Rate returns the attendance rate as a whole percentage, rounded to the
// nearest integer, or 0 when no instances fell in the month.
func (s MonthStats) Rate() int {
	if s.Total == 0 {
		return 0
	}
	return (s.Attended*100 + s.Total/2) / s.Total
}

// MonthlyReport holds month-over-month attendance for the current and the
// immediately preceding calendar month.
//
// Improved compares raw attended counts, so a partial current month is
// measured against a full previous month. Kept as-is pending product
// clarification.
type MonthlyReport struct {
	ThisMonth MonthStats
	LastMonth MonthStats
	Improved  bool
}

// BuildMonthlyReport partitions past instances at the first day of the
// current month (local calendar) and folds them into per-month counts.
func BuildMonthlyReport(past []Instance, today time.Time) MonthlyReport {
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfPrev := firstOfMonth.AddDate(0, -1, 0)

	var report MonthlyReport
	for _, inst := range past {
		date := DateKey(inst.Date)
		switch {
		case !date.Before(firstOfMonth):
			report.ThisMonth.Total++
			if inst.Attended {
				report.ThisMonth.Attended++
			}
		case !date.Before(firstOfPrev):
			report.LastMonth.Total++
			if inst.Attended {
				report.LastMonth.Attended++
			}
		}
	}

	report.Improved = report.ThisMonth.Attended > report.LastMonth.Attended
	return report
}
