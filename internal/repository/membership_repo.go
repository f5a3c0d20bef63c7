package repository

import (
	"database/sql"
	"fmt"
	"time"

	"matclub/internal/database"
	"matclub/internal/models"
)

// MembershipRepository handles database operations for memberships.
type MembershipRepository struct {
	db *database.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *database.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

const membershipColumns = `id, member_id, location_id, membership_type_id, status,
	start_date, subscription_ref, created_at, updated_at`

func scanMembership(row interface{ Scan(...interface{}) error }) (*models.Membership, error) {
	m := &models.Membership{}
	err := row.Scan(
		&m.ID, &m.MemberID, &m.LocationID, &m.MembershipTypeID, &m.Status,
		&m.StartDate, &m.SubscriptionRef, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreateMembership inserts a membership in the given status.
func (r *MembershipRepository) CreateMembership(memberID, locationID, typeID int64, status string, startDate *time.Time) (*models.Membership, error) {
	query := `INSERT INTO memberships (member_id, location_id, membership_type_id, status, start_date)
		VALUES (?, ?, ?, ?, ?)`
	id, err := r.db.ExecReturningID(query, memberID, locationID, typeID, status, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	return r.GetMembershipByID(id)
}

// GetMembershipByID retrieves a membership by ID.
func (r *MembershipRepository) GetMembershipByID(id int64) (*models.Membership, error) {
	query := "SELECT " + membershipColumns + " FROM memberships WHERE id = ?"
	m, err := scanMembership(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// GetActiveMembership retrieves the member's active membership at a
// location, or nil when none exists. Backs the single-active invariant.
func (r *MembershipRepository) GetActiveMembership(memberID, locationID int64) (*models.Membership, error) {
	query := "SELECT " + membershipColumns + ` FROM memberships
		WHERE member_id = ? AND location_id = ? AND status = 'active'
		ORDER BY created_at DESC LIMIT 1`
	m, err := scanMembership(r.db.QueryRow(query, memberID, locationID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active membership: %w", err)
	}
	return m, nil
}

// GetAnyActiveMembership retrieves the member's active membership at any
// location, preferring the most recent.
func (r *MembershipRepository) GetAnyActiveMembership(memberID int64) (*models.Membership, error) {
	query := "SELECT " + membershipColumns + ` FROM memberships
		WHERE member_id = ? AND status = 'active'
		ORDER BY created_at DESC LIMIT 1`
	m, err := scanMembership(r.db.QueryRow(query, memberID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active membership: %w", err)
	}
	return m, nil
}

// GetMembershipBySubscriptionRef retrieves a membership by its external
// billing reference.
func (r *MembershipRepository) GetMembershipBySubscriptionRef(ref string) (*models.Membership, error) {
	query := "SELECT " + membershipColumns + " FROM memberships WHERE subscription_ref = ?"
	m, err := scanMembership(r.db.QueryRow(query, ref))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership by subscription: %w", err)
	}
	return m, nil
}

// GetMemberMemberships retrieves all memberships for a member, newest first.
func (r *MembershipRepository) GetMemberMemberships(memberID int64) ([]models.Membership, error) {
	query := "SELECT " + membershipColumns + " FROM memberships WHERE member_id = ? ORDER BY created_at DESC"
	return r.queryMemberships(query, memberID)
}

// ListMemberships retrieves all memberships, newest first.
func (r *MembershipRepository) ListMemberships() ([]models.Membership, error) {
	query := "SELECT " + membershipColumns + " FROM memberships ORDER BY created_at DESC"
	return r.queryMemberships(query)
}

// CountActiveByType counts active memberships on a tier, for capacity
// checks.
func (r *MembershipRepository) CountActiveByType(typeID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM memberships WHERE membership_type_id = ? AND status = 'active'"
	if err := r.db.QueryRow(query, typeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active memberships: %w", err)
	}
	return count, nil
}

// UpdateStatus transitions a membership to the given status.
func (r *MembershipRepository) UpdateStatus(membershipID int64, status string) error {
	query := "UPDATE memberships SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, status, membershipID); err != nil {
		return fmt.Errorf("failed to update membership status: %w", err)
	}
	return nil
}

// Activate marks a membership active, stamping the start date and billing
// reference.
func (r *MembershipRepository) Activate(membershipID int64, startDate time.Time, subscriptionRef string) error {
	query := `UPDATE memberships SET status = 'active', start_date = ?, subscription_ref = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := r.db.Exec(query, startDate, subscriptionRef, membershipID); err != nil {
		return fmt.Errorf("failed to activate membership: %w", err)
	}
	return nil
}

// DeleteMembership removes a membership.
func (r *MembershipRepository) DeleteMembership(membershipID int64) error {
	if _, err := r.db.Exec("DELETE FROM memberships WHERE id = ?", membershipID); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

func (r *MembershipRepository) queryMemberships(query string, args ...interface{}) ([]models.Membership, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, *m)
	}
	return memberships, rows.Err()
}
