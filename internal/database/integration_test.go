package database

import (
	"os"
	"testing"
)

// TestDatabaseIntegration exercises the full open/migrate lifecycle against
// an on-disk SQLite database.
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_integration.db"
	defer os.Remove(dbPath)

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tables := []string{
		"members", "sessions", "locations", "membership_types",
		"memberships", "classes", "class_membership_types",
		"attendance_records", "videos", "email_templates",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Reruns must be no-ops.
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}
}

func TestAttendanceUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_attendance.db"
	defer os.Remove(dbPath)

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	_, err = db.Exec("INSERT INTO members (email, password_hash, name) VALUES (?, ?, ?)", "m@example.com", "x", "M")
	if err != nil {
		t.Fatalf("Failed to insert member: %v", err)
	}
	_, err = db.Exec("INSERT INTO locations (name, address, active) VALUES (?, ?, 1)", "HQ", "1 Mat St")
	if err != nil {
		t.Fatalf("Failed to insert location: %v", err)
	}
	_, err = db.Exec(`INSERT INTO classes (location_id, name, class_type, day_of_week, start_time, end_time, active)
		VALUES (1, 'Fundamentals', 'gi', 3, '18:00', '19:00', 1)`)
	if err != nil {
		t.Fatalf("Failed to insert class: %v", err)
	}

	insert := "INSERT INTO attendance_records (class_id, member_id, date) VALUES (1, 1, '2024-07-17')"
	if _, err := db.Exec(insert); err != nil {
		t.Fatalf("First check-in insert failed: %v", err)
	}
	if _, err := db.Exec(insert); err == nil {
		t.Error("Duplicate (class, member, date) insert should violate the unique constraint")
	}
}
