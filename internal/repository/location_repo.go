package repository

import (
	"database/sql"
	"fmt"

	"matclub/internal/database"
	"matclub/internal/models"
)

// LocationRepository handles database operations for locations and
// membership types.
type LocationRepository struct {
	db *database.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *database.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// CreateLocation inserts a new location.
func (r *LocationRepository) CreateLocation(name, address string) (*models.Location, error) {
	query := "INSERT INTO locations (name, address, active) VALUES (?, ?, 1)"
	id, err := r.db.ExecReturningID(query, name, address)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return r.GetLocationByID(id)
}

// GetLocationByID retrieves a location by ID.
func (r *LocationRepository) GetLocationByID(id int64) (*models.Location, error) {
	loc := &models.Location{}
	query := "SELECT id, name, address, active, created_at FROM locations WHERE id = ?"
	err := r.db.QueryRow(query, id).Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Active, &loc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return loc, nil
}

// ListLocations retrieves all locations ordered by name.
func (r *LocationRepository) ListLocations() ([]models.Location, error) {
	rows, err := r.db.Query("SELECT id, name, address, active, created_at FROM locations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Active, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// ListActiveLocations retrieves locations open for signup.
func (r *LocationRepository) ListActiveLocations() ([]models.Location, error) {
	rows, err := r.db.Query("SELECT id, name, address, active, created_at FROM locations WHERE active = 1 ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list active locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Active, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// UpdateLocation updates a location's details.
func (r *LocationRepository) UpdateLocation(id int64, name, address string, active bool) error {
	query := "UPDATE locations SET name = ?, address = ?, active = ? WHERE id = ?"
	if _, err := r.db.Exec(query, name, address, active, id); err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	return nil
}

// DeleteLocation removes a location.
func (r *LocationRepository) DeleteLocation(id int64) error {
	if _, err := r.db.Exec("DELETE FROM locations WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

const membershipTypeColumns = "id, location_id, name, price_cents, min_age, max_age, capacity, active, created_at"

func scanMembershipType(row interface{ Scan(...interface{}) error }) (*models.MembershipType, error) {
	mt := &models.MembershipType{}
	err := row.Scan(
		&mt.ID, &mt.LocationID, &mt.Name, &mt.PriceCents,
		&mt.MinAge, &mt.MaxAge, &mt.Capacity, &mt.Active, &mt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return mt, nil
}

// CreateMembershipType inserts a new membership type.
func (r *LocationRepository) CreateMembershipType(mt *models.MembershipType) (*models.MembershipType, error) {
	query := `INSERT INTO membership_types (location_id, name, price_cents, min_age, max_age, capacity, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := r.db.ExecReturningID(query, mt.LocationID, mt.Name, mt.PriceCents,
		mt.MinAge, mt.MaxAge, mt.Capacity, mt.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership type: %w", err)
	}
	return r.GetMembershipTypeByID(id)
}

// GetMembershipTypeByID retrieves a membership type by ID.
func (r *LocationRepository) GetMembershipTypeByID(id int64) (*models.MembershipType, error) {
	query := "SELECT " + membershipTypeColumns + " FROM membership_types WHERE id = ?"
	mt, err := scanMembershipType(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership type: %w", err)
	}
	return mt, nil
}

// ListMembershipTypes retrieves the membership types at a location,
// cheapest first.
func (r *LocationRepository) ListMembershipTypes(locationID int64) ([]models.MembershipType, error) {
	query := "SELECT " + membershipTypeColumns + " FROM membership_types WHERE location_id = ? ORDER BY price_cents, name"
	rows, err := r.db.Query(query, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list membership types: %w", err)
	}
	defer rows.Close()

	var types []models.MembershipType
	for rows.Next() {
		mt, err := scanMembershipType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership type: %w", err)
		}
		types = append(types, *mt)
	}
	return types, rows.Err()
}

// UpdateMembershipType updates a membership type's details.
func (r *LocationRepository) UpdateMembershipType(mt *models.MembershipType) error {
	query := `UPDATE membership_types SET name = ?, price_cents = ?, min_age = ?, max_age = ?,
		capacity = ?, active = ? WHERE id = ?`
	_, err := r.db.Exec(query, mt.Name, mt.PriceCents, mt.MinAge, mt.MaxAge, mt.Capacity, mt.Active, mt.ID)
	if err != nil {
		return fmt.Errorf("failed to update membership type: %w", err)
	}
	return nil
}

// DeleteMembershipType removes a membership type.
func (r *LocationRepository) DeleteMembershipType(id int64) error {
	if _, err := r.db.Exec("DELETE FROM membership_types WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete membership type: %w", err)
	}
	return nil
}
