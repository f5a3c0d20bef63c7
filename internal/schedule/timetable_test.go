package schedule

import (
	"testing"
	"time"

	"matclub/internal/models"
)

// 2024-07-17 is a Wednesday.
var wednesday = time.Date(2024, 7, 17, 0, 0, 0, 0, time.UTC)

func weeklyClass(id int64, day int, tiers ...int64) models.Class {
	return models.Class{
		ID:                id,
		LocationID:        1,
		Name:              "Class",
		DayOfWeek:         day,
		StartTime:         "18:00",
		EndTime:           "19:00",
		Active:            true,
		MembershipTypeIDs: tiers,
	}
}

func TestBuildTimetableWindows(t *testing.T) {
	classes := []models.Class{weeklyClass(1, int(time.Wednesday))}
	start := wednesday.AddDate(0, 0, -60) // membership predates the lookback

	upcoming, past := BuildTimetable(classes, AttendanceSet{}, start, wednesday)

	// Wednesdays in [today, today+27]: offsets 0, 7, 14, 21.
	if len(upcoming) != 4 {
		t.Fatalf("upcoming = %d instances, want 4", len(upcoming))
	}
	if !upcoming[0].Date.Equal(wednesday) {
		t.Errorf("first upcoming instance dated %v, want today", upcoming[0].Date)
	}
	for i := 1; i < len(upcoming); i++ {
		if !upcoming[i].Date.After(upcoming[i-1].Date) {
			t.Errorf("upcoming not ordered nearest-first at index %d", i)
		}
	}

	// Wednesdays in [today-28, yesterday]: offsets 7, 14, 21, 28.
	if len(past) != 4 {
		t.Fatalf("past = %d instances, want 4", len(past))
	}
	for i := 1; i < len(past); i++ {
		if !past[i].Date.Before(past[i-1].Date) {
			t.Errorf("past not ordered nearest-first at index %d", i)
		}
	}
	oldest := wednesday.AddDate(0, 0, -HorizonDays)
	if past[len(past)-1].Date.Before(oldest) {
		t.Errorf("past instance %v precedes the lookback horizon", past[len(past)-1].Date)
	}
}

func TestBuildTimetableStartDateBound(t *testing.T) {
	classes := []models.Class{weeklyClass(1, int(time.Wednesday))}

	tests := []struct {
		name      string
		startDate time.Time
		wantPast  int
	}{
		{
			name:      "start ten days ago keeps one past occurrence",
			startDate: wednesday.AddDate(0, 0, -10),
			wantPast:  1, // only the Wednesday 7 days back
		},
		{
			name:      "start today hides all past occurrences",
			startDate: wednesday,
			wantPast:  0,
		},
		{
			name:      "future start hides past but not upcoming",
			startDate: wednesday.AddDate(0, 0, 5),
			wantPast:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upcoming, past := BuildTimetable(classes, AttendanceSet{}, tt.startDate, wednesday)
			if len(past) != tt.wantPast {
				t.Errorf("past = %d instances, want %d", len(past), tt.wantPast)
			}
			for _, inst := range past {
				if inst.Date.Before(DateKey(tt.startDate)) {
					t.Errorf("past instance %v precedes start date %v", inst.Date, tt.startDate)
				}
			}
			if len(upcoming) != 4 {
				t.Errorf("upcoming = %d instances, want 4 regardless of start date", len(upcoming))
			}
		})
	}
}

func TestVisibleClassesTierWhitelist(t *testing.T) {
	restricted := weeklyClass(1, int(time.Wednesday), 10)
	open := weeklyClass(2, int(time.Wednesday))

	tests := []struct {
		name    string
		tierID  int64
		wantIDs []int64
	}{
		{name: "member of whitelisted tier sees both", tierID: 10, wantIDs: []int64{1, 2}},
		{name: "other tier sees only unrestricted", tierID: 11, wantIDs: []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := VisibleClasses([]models.Class{restricted, open}, tt.tierID)
			if len(visible) != len(tt.wantIDs) {
				t.Fatalf("got %d classes, want %d", len(visible), len(tt.wantIDs))
			}
			for i, c := range visible {
				if c.ID != tt.wantIDs[i] {
					t.Errorf("class %d: got id %d, want %d", i, c.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestBuildTimetableAttendedFlag(t *testing.T) {
	classes := []models.Class{weeklyClass(1, int(time.Wednesday))}
	lastWeek := wednesday.AddDate(0, 0, -7)

	// Record carries a time-of-day component; the lookup must still match.
	records := []models.AttendanceRecord{
		{ClassID: 1, MemberID: 5, Date: lastWeek.Add(18*time.Hour + 30*time.Minute)},
	}
	attendance := NewAttendanceSet(records)

	_, past := BuildTimetable(classes, attendance, wednesday.AddDate(0, 0, -60), wednesday)

	var found bool
	for _, inst := range past {
		if inst.Date.Equal(lastWeek) {
			found = true
			if !inst.Attended {
				t.Error("instance on attended date not flagged")
			}
		} else if inst.Attended {
			t.Errorf("instance on %v flagged attended without a record", inst.Date)
		}
	}
	if !found {
		t.Fatal("expected a past instance dated one week back")
	}
}

// End-to-end scenario: active membership starting 10 days ago, one
// tier-restricted and one open class on today's weekday.
func TestTimetableScenario(t *testing.T) {
	const tier = int64(3)
	c1 := weeklyClass(1, int(time.Wednesday), tier)
	c2 := weeklyClass(2, int(time.Wednesday))
	catalog := []models.Class{c1, c2}
	start := wednesday.AddDate(0, 0, -10)

	visible := VisibleClasses(catalog, tier)
	upcoming, past := BuildTimetable(visible, AttendanceSet{}, start, wednesday)

	var todayC1, todayC2 int
	for _, inst := range upcoming {
		if inst.Date.Equal(wednesday) {
			switch inst.Class.ID {
			case 1:
				todayC1++
			case 2:
				todayC2++
			}
		}
	}
	if todayC1 != 1 || todayC2 != 1 {
		t.Errorf("today's instances: C1=%d C2=%d, want exactly one each", todayC1, todayC2)
	}

	for _, inst := range past {
		if inst.Date.Before(DateKey(start)) {
			t.Errorf("past instance %v older than membership start", inst.Date)
		}
	}
}
