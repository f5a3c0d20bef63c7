package repository

import (
	"database/sql"
	"fmt"
	"time"

	"matclub/internal/database"
	"matclub/internal/models"
)

// MemberRepository handles database operations for members and their
// sessions.
type MemberRepository struct {
	db *database.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `id, COALESCE(email, ''), password_hash, name, date_of_birth, is_child,
	parent_id, belt_rank, stripes, photo_url, oauth_provider, oauth_subject, is_admin,
	created_at, updated_at`

func scanMember(row interface{ Scan(...interface{}) error }) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(
		&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.DateOfBirth, &m.IsChild,
		&m.ParentID, &m.BeltRank, &m.Stripes, &m.PhotoURL, &m.OAuthProvider,
		&m.OAuthSubject, &m.IsAdmin, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreateMember creates an adult member account.
func (r *MemberRepository) CreateMember(email, passwordHash, name string, dob *time.Time) (*models.Member, error) {
	query := `INSERT INTO members (email, password_hash, name, date_of_birth, belt_rank, stripes)
		VALUES (?, ?, ?, ?, 'white', 0)`
	id, err := r.db.ExecReturningID(query, email, passwordHash, name, dob)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return r.GetMemberByID(id)
}

// CreateChildMember creates a child member under a guardian. Children carry
// no login credentials.
func (r *MemberRepository) CreateChildMember(parentID int64, name string, dob *time.Time) (*models.Member, error) {
	query := `INSERT INTO members (email, password_hash, name, date_of_birth, is_child, parent_id, belt_rank, stripes)
		VALUES (NULL, '', ?, ?, 1, ?, 'white', 0)`
	id, err := r.db.ExecReturningID(query, name, dob, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create child member: %w", err)
	}
	return r.GetMemberByID(id)
}

// GetMemberByID retrieves a member by ID.
func (r *MemberRepository) GetMemberByID(id int64) (*models.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE id = ?"
	m, err := scanMember(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetMemberByEmail retrieves a member by email.
func (r *MemberRepository) GetMemberByEmail(email string) (*models.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE email = ?"
	m, err := scanMember(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}
	return m, nil
}

// GetMemberByOAuth retrieves a member by linked OAuth identity.
func (r *MemberRepository) GetMemberByOAuth(provider, subject string) (*models.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE oauth_provider = ? AND oauth_subject = ?"
	m, err := scanMember(r.db.QueryRow(query, provider, subject))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by oauth identity: %w", err)
	}
	return m, nil
}

// LinkOAuthProvider links an OAuth identity to an existing member.
func (r *MemberRepository) LinkOAuthProvider(memberID int64, provider, subject string) error {
	query := "UPDATE members SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, provider, subject, memberID); err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}
	return nil
}

// GetChildren retrieves the child members of a guardian.
func (r *MemberRepository) GetChildren(parentID int64) ([]models.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE parent_id = ? ORDER BY name ASC"
	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child member: %w", err)
		}
		children = append(children, *m)
	}
	return children, rows.Err()
}

// ListMembers retrieves all members, guardians before their children.
func (r *MemberRepository) ListMembers() ([]models.Member, error) {
	query := "SELECT " + memberColumns + " FROM members ORDER BY is_child ASC, name ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// UpdateProfile updates a member's editable profile fields.
func (r *MemberRepository) UpdateProfile(memberID int64, name string, dob *time.Time, photoURL string) error {
	query := `UPDATE members SET name = ?, date_of_birth = ?, photo_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	if _, err := r.db.Exec(query, name, dob, photoURL, memberID); err != nil {
		return fmt.Errorf("failed to update member profile: %w", err)
	}
	return nil
}

// UpdateBelt records a belt/stripe promotion.
func (r *MemberRepository) UpdateBelt(memberID int64, belt string, stripes int) error {
	query := "UPDATE members SET belt_rank = ?, stripes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, belt, stripes, memberID); err != nil {
		return fmt.Errorf("failed to update belt rank: %w", err)
	}
	return nil
}

// UpdatePassword replaces a member's password hash.
func (r *MemberRepository) UpdatePassword(memberID int64, passwordHash string) error {
	query := "UPDATE members SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, passwordHash, memberID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetAdmin toggles the admin flag.
func (r *MemberRepository) SetAdmin(memberID int64, isAdmin bool) error {
	query := "UPDATE members SET is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, isAdmin, memberID); err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	return nil
}

// DeleteMember removes a member. Memberships, attendance records, sessions
// and child members cascade at the database level.
func (r *MemberRepository) DeleteMember(memberID int64) error {
	if _, err := r.db.Exec("DELETE FROM members WHERE id = ?", memberID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

// CreateSession stores a new session.
func (r *MemberRepository) CreateSession(sessionID string, memberID int64, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, member_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, sessionID, memberID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &models.Session{ID: sessionID, MemberID: memberID, ExpiresAt: expiresAt, CreatedAt: time.Now()}, nil
}

// GetSession retrieves a session by ID.
func (r *MemberRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, member_id, expires_at, created_at FROM sessions WHERE id = ?"
	s := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(&s.ID, &s.MemberID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// DeleteSession removes a session.
func (r *MemberRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
func (r *MemberRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP"); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// CreatePasswordResetToken stores a reset token.
func (r *MemberRepository) CreatePasswordResetToken(token string, memberID int64, expiresAt time.Time) error {
	query := "INSERT INTO password_reset_tokens (token, member_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, token, memberID, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetPasswordResetToken retrieves a reset token.
func (r *MemberRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	query := "SELECT token, member_id, expires_at, created_at, used FROM password_reset_tokens WHERE token = ?"
	t := &models.PasswordResetToken{}
	err := r.db.QueryRow(query, token).Scan(&t.Token, &t.MemberID, &t.ExpiresAt, &t.CreatedAt, &t.Used)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return t, nil
}

// MarkPasswordResetTokenUsed marks a token as consumed.
func (r *MemberRepository) MarkPasswordResetTokenUsed(token string) error {
	if _, err := r.db.Exec("UPDATE password_reset_tokens SET used = ? WHERE token = ?", true, token); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return nil
}

// DeleteMemberPasswordResetTokens removes all reset tokens for a member.
func (r *MemberRepository) DeleteMemberPasswordResetTokens(memberID int64) error {
	if _, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE member_id = ?", memberID); err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	return nil
}
