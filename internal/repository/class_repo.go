package repository

import (
	"database/sql"
	"fmt"

	"matclub/internal/database"
	"matclub/internal/models"
)

// ClassRepository handles database operations for recurring classes and
// their tier restrictions.
type ClassRepository struct {
	db *database.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *database.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, location_id, name, class_type, day_of_week, start_time, end_time,
	instructor_id, active, created_at, updated_at`

func scanClass(row interface{ Scan(...interface{}) error }) (*models.Class, error) {
	c := &models.Class{}
	err := row.Scan(
		&c.ID, &c.LocationID, &c.Name, &c.ClassType, &c.DayOfWeek, &c.StartTime, &c.EndTime,
		&c.InstructorID, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateClass inserts a class along with its tier restrictions in a single
// transaction.
func (r *ClassRepository) CreateClass(c *models.Class) (*models.Class, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO classes (location_id, name, class_type, day_of_week, start_time, end_time,
		instructor_id, active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := tx.ExecReturningID(query, c.LocationID, c.Name, c.ClassType, c.DayOfWeek,
		c.StartTime, c.EndTime, c.InstructorID, c.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	if err := replaceClassTiers(tx, id, c.MembershipTypeIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit class: %w", err)
	}
	return r.GetClassByID(id)
}

// GetClassByID retrieves a class with its tier restrictions.
func (r *ClassRepository) GetClassByID(id int64) (*models.Class, error) {
	query := "SELECT " + classColumns + " FROM classes WHERE id = ?"
	c, err := scanClass(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if err := r.loadTiers(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListClasses retrieves every class at a location in catalog order:
// weekday first, then start time, then id.
func (r *ClassRepository) ListClasses(locationID int64) ([]models.Class, error) {
	query := "SELECT " + classColumns + ` FROM classes WHERE location_id = ?
		ORDER BY day_of_week, start_time, id`
	return r.queryClasses(query, locationID)
}

// ListAllClasses retrieves every class across all locations in catalog
// order.
func (r *ClassRepository) ListAllClasses() ([]models.Class, error) {
	query := "SELECT " + classColumns + " FROM classes ORDER BY location_id, day_of_week, start_time, id"
	return r.queryClasses(query)
}

// ListActiveClasses retrieves the active classes at a location in catalog
// order. This is the set the timetable is generated from.
func (r *ClassRepository) ListActiveClasses(locationID int64) ([]models.Class, error) {
	query := "SELECT " + classColumns + ` FROM classes WHERE location_id = ? AND active = 1
		ORDER BY day_of_week, start_time, id`
	return r.queryClasses(query, locationID)
}

// UpdateClass updates a class and replaces its tier restrictions.
func (r *ClassRepository) UpdateClass(c *models.Class) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE classes SET name = ?, class_type = ?, day_of_week = ?, start_time = ?,
		end_time = ?, instructor_id = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err = tx.Exec(query, c.Name, c.ClassType, c.DayOfWeek, c.StartTime, c.EndTime,
		c.InstructorID, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM class_membership_types WHERE class_id = ?", c.ID); err != nil {
		return fmt.Errorf("failed to clear class tiers: %w", err)
	}
	if err := replaceClassTiers(tx, c.ID, c.MembershipTypeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit class update: %w", err)
	}
	return nil
}

// DeleteClass removes a class; attendance and tier rows cascade.
func (r *ClassRepository) DeleteClass(id int64) error {
	if _, err := r.db.Exec("DELETE FROM classes WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	return nil
}

func replaceClassTiers(tx *database.Tx, classID int64, tierIDs []int64) error {
	for _, tierID := range tierIDs {
		_, err := tx.Exec("INSERT INTO class_membership_types (class_id, membership_type_id) VALUES (?, ?)",
			classID, tierID)
		if err != nil {
			return fmt.Errorf("failed to set class tier: %w", err)
		}
	}
	return nil
}

func (r *ClassRepository) loadTiers(c *models.Class) error {
	rows, err := r.db.Query(
		"SELECT membership_type_id FROM class_membership_types WHERE class_id = ? ORDER BY membership_type_id",
		c.ID)
	if err != nil {
		return fmt.Errorf("failed to load class tiers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tierID int64
		if err := rows.Scan(&tierID); err != nil {
			return fmt.Errorf("failed to scan class tier: %w", err)
		}
		c.MembershipTypeIDs = append(c.MembershipTypeIDs, tierID)
	}
	return rows.Err()
}

func (r *ClassRepository) queryClasses(query string, args ...interface{}) ([]models.Class, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range classes {
		if err := r.loadTiers(&classes[i]); err != nil {
			return nil, err
		}
	}
	return classes, nil
}
