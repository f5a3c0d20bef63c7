package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"matclub/internal/database"
	"matclub/internal/models"
)

// ErrDuplicateAttendance is returned when a check-in already exists for the
// same class, member and date.
var ErrDuplicateAttendance = errors.New("attendance already recorded")

// AttendanceRepository handles database operations for attendance records.
type AttendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateAttendance records a check-in. The UNIQUE(class_id, member_id, date)
// constraint makes this idempotent; repeats return ErrDuplicateAttendance.
func (r *AttendanceRepository) CreateAttendance(classID, memberID int64, date time.Time) (*models.AttendanceRecord, error) {
	query := "INSERT INTO attendance_records (class_id, member_id, date) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, classID, memberID, date)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAttendance
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return &models.AttendanceRecord{ID: id, ClassID: classID, MemberID: memberID, Date: date}, nil
}

// GetMemberAttendance retrieves a member's attendance records dated on or
// after since, newest first.
func (r *AttendanceRepository) GetMemberAttendance(memberID int64, since time.Time) ([]models.AttendanceRecord, error) {
	query := `SELECT id, class_id, member_id, date, created_at FROM attendance_records
		WHERE member_id = ? AND date >= ? ORDER BY date DESC, id DESC`
	return r.queryAttendance(query, memberID, since)
}

// GetClassAttendance retrieves the check-ins for a class on a given date.
func (r *AttendanceRepository) GetClassAttendance(classID int64, date time.Time) ([]models.AttendanceRecord, error) {
	query := `SELECT id, class_id, member_id, date, created_at FROM attendance_records
		WHERE class_id = ? AND date = ? ORDER BY created_at`
	return r.queryAttendance(query, classID, date)
}

// CountMemberAttendance counts a member's check-ins dated on or after since.
func (r *AttendanceRepository) CountMemberAttendance(memberID int64, since time.Time) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM attendance_records WHERE member_id = ? AND date >= ?"
	if err := r.db.QueryRow(query, memberID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

// CountCheckInsOn counts every check-in recorded for a calendar date.
func (r *AttendanceRepository) CountCheckInsOn(date time.Time) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM attendance_records WHERE date = ?"
	if err := r.db.QueryRow(query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

// DeleteAttendance removes a check-in record.
func (r *AttendanceRepository) DeleteAttendance(id int64) error {
	if _, err := r.db.Exec("DELETE FROM attendance_records WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) queryAttendance(query string, args ...interface{}) ([]models.AttendanceRecord, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.ClassID, &rec.MemberID, &rec.Date, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// isUniqueViolation matches the unique-constraint error text of the
// supported drivers: sqlite, postgres and mysql.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
