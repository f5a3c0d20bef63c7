package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"matclub/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version         string                `json:"version"`
	ExportedAt      time.Time             `json:"exported_at"`
	Members         []MemberBackup        `json:"members"`
	Locations       []LocationBackup      `json:"locations"`
	MembershipTypes []TierBackup          `json:"membership_types"`
	Memberships     []MembershipBackup    `json:"memberships"`
	Classes         []ClassBackup         `json:"classes"`
	Attendance      []AttendanceBackup    `json:"attendance"`
	Videos          []VideoBackup         `json:"videos"`
	EmailTemplates  []EmailTemplateBackup `json:"email_templates"`
}

// MemberBackup represents a member record for backup
type MemberBackup struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"password_hash"`
	Name          string     `json:"name"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	IsChild       bool       `json:"is_child"`
	ParentID      *int64     `json:"parent_id"`
	BeltRank      string     `json:"belt_rank"`
	Stripes       int        `json:"stripes"`
	PhotoURL      string     `json:"photo_url"`
	OAuthProvider string     `json:"oauth_provider"`
	OAuthSubject  string     `json:"oauth_subject"`
	IsAdmin       bool       `json:"is_admin"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LocationBackup represents a location record for backup
type LocationBackup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TierBackup represents a membership type record for backup
type TierBackup struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	MinAge     *int      `json:"min_age"`
	MaxAge     *int      `json:"max_age"`
	Capacity   int       `json:"capacity"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// MembershipBackup represents a membership record for backup
type MembershipBackup struct {
	ID               int64      `json:"id"`
	MemberID         int64      `json:"member_id"`
	LocationID       int64      `json:"location_id"`
	MembershipTypeID int64      `json:"membership_type_id"`
	Status           string     `json:"status"`
	StartDate        *time.Time `json:"start_date"`
	SubscriptionRef  string     `json:"subscription_ref"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ClassBackup represents a class record for backup
type ClassBackup struct {
	ID           int64     `json:"id"`
	LocationID   int64     `json:"location_id"`
	Name         string    `json:"name"`
	ClassType    string    `json:"class_type"`
	DayOfWeek    int       `json:"day_of_week"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	InstructorID *int64    `json:"instructor_id"`
	Active       bool      `json:"active"`
	TierIDs      []int64   `json:"membership_type_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AttendanceBackup represents an attendance record for backup
type AttendanceBackup struct {
	ID        int64     `json:"id"`
	ClassID   int64     `json:"class_id"`
	MemberID  int64     `json:"member_id"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// VideoBackup represents a video record for backup
type VideoBackup struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	URL              string    `json:"url"`
	MembershipTypeID *int64    `json:"membership_type_id"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"created_at"`
}

// EmailTemplateBackup represents an email template record for backup
type EmailTemplateBackup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	HTMLBody  string    `json:"html_body"`
	TextBody  string    `json:"text_body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database as indented JSON (also used for the
// admin download endpoint)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	steps := []struct {
		name string
		fn   func(*BackupData) error
	}{
		{"members", s.exportMembers},
		{"locations", s.exportLocations},
		{"membership types", s.exportMembershipTypes},
		{"memberships", s.exportMemberships},
		{"classes", s.exportClasses},
		{"attendance", s.exportAttendance},
		{"videos", s.exportVideos},
		{"email templates", s.exportEmailTemplates},
	}
	for _, step := range steps {
		if err := step.fn(backup); err != nil {
			return fmt.Errorf("failed to export %s: %w", step.name, err)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Dependency order: members before memberships, locations before
	// tiers, tiers before classes.
	if err := s.importMembers(backup.Members); err != nil {
		return fmt.Errorf("failed to import members: %w", err)
	}
	if err := s.importLocations(backup.Locations); err != nil {
		return fmt.Errorf("failed to import locations: %w", err)
	}
	if err := s.importMembershipTypes(backup.MembershipTypes); err != nil {
		return fmt.Errorf("failed to import membership types: %w", err)
	}
	if err := s.importMemberships(backup.Memberships); err != nil {
		return fmt.Errorf("failed to import memberships: %w", err)
	}
	if err := s.importClasses(backup.Classes); err != nil {
		return fmt.Errorf("failed to import classes: %w", err)
	}
	if err := s.importAttendance(backup.Attendance); err != nil {
		return fmt.Errorf("failed to import attendance: %w", err)
	}
	if err := s.importVideos(backup.Videos); err != nil {
		return fmt.Errorf("failed to import videos: %w", err)
	}
	if err := s.importEmailTemplates(backup.EmailTemplates); err != nil {
		return fmt.Errorf("failed to import email templates: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportMembers(backup *BackupData) error {
	query := `SELECT id, COALESCE(email, ''), password_hash, name, date_of_birth, is_child, parent_id,
		belt_rank, stripes, photo_url, oauth_provider, oauth_subject, is_admin, created_at, updated_at
		FROM members ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MemberBackup
		if err := rows.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.DateOfBirth, &m.IsChild,
			&m.ParentID, &m.BeltRank, &m.Stripes, &m.PhotoURL, &m.OAuthProvider, &m.OAuthSubject,
			&m.IsAdmin, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return err
		}
		backup.Members = append(backup.Members, m)
	}
	return rows.Err()
}

func (s *BackupService) exportLocations(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, address, active, created_at FROM locations ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l LocationBackup
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Active, &l.CreatedAt); err != nil {
			return err
		}
		backup.Locations = append(backup.Locations, l)
	}
	return rows.Err()
}

func (s *BackupService) exportMembershipTypes(backup *BackupData) error {
	query := `SELECT id, location_id, name, price_cents, min_age, max_age, capacity, active, created_at
		FROM membership_types ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t TierBackup
		if err := rows.Scan(&t.ID, &t.LocationID, &t.Name, &t.PriceCents, &t.MinAge, &t.MaxAge,
			&t.Capacity, &t.Active, &t.CreatedAt); err != nil {
			return err
		}
		backup.MembershipTypes = append(backup.MembershipTypes, t)
	}
	return rows.Err()
}

func (s *BackupService) exportMemberships(backup *BackupData) error {
	query := `SELECT id, member_id, location_id, membership_type_id, status, start_date,
		subscription_ref, created_at, updated_at FROM memberships ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MembershipBackup
		if err := rows.Scan(&m.ID, &m.MemberID, &m.LocationID, &m.MembershipTypeID, &m.Status,
			&m.StartDate, &m.SubscriptionRef, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return err
		}
		backup.Memberships = append(backup.Memberships, m)
	}
	return rows.Err()
}

func (s *BackupService) exportClasses(backup *BackupData) error {
	query := `SELECT id, location_id, name, class_type, day_of_week, start_time, end_time,
		instructor_id, active, created_at, updated_at FROM classes ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c ClassBackup
		if err := rows.Scan(&c.ID, &c.LocationID, &c.Name, &c.ClassType, &c.DayOfWeek, &c.StartTime,
			&c.EndTime, &c.InstructorID, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
		backup.Classes = append(backup.Classes, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.Classes {
		tierRows, err := s.db.Query(
			"SELECT membership_type_id FROM class_membership_types WHERE class_id = ? ORDER BY membership_type_id",
			backup.Classes[i].ID)
		if err != nil {
			return err
		}
		for tierRows.Next() {
			var tierID int64
			if err := tierRows.Scan(&tierID); err != nil {
				tierRows.Close()
				return err
			}
			backup.Classes[i].TierIDs = append(backup.Classes[i].TierIDs, tierID)
		}
		tierRows.Close()
	}
	return nil
}

func (s *BackupService) exportAttendance(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, class_id, member_id, date, created_at FROM attendance_records ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AttendanceBackup
		if err := rows.Scan(&a.ID, &a.ClassID, &a.MemberID, &a.Date, &a.CreatedAt); err != nil {
			return err
		}
		backup.Attendance = append(backup.Attendance, a)
	}
	return rows.Err()
}

func (s *BackupService) exportVideos(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, title, description, url, membership_type_id, position, created_at FROM videos ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v VideoBackup
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.URL, &v.MembershipTypeID, &v.Position, &v.CreatedAt); err != nil {
			return err
		}
		backup.Videos = append(backup.Videos, v)
	}
	return rows.Err()
}

func (s *BackupService) exportEmailTemplates(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, subject, html_body, text_body, created_at, updated_at FROM email_templates ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t EmailTemplateBackup
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLBody, &t.TextBody, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		backup.EmailTemplates = append(backup.EmailTemplates, t)
	}
	return rows.Err()
}

func (s *BackupService) importMembers(members []MemberBackup) error {
	log.Printf("Importing %d members...", len(members))
	for _, m := range members {
		query := `INSERT INTO members (id, email, password_hash, name, date_of_birth, is_child, parent_id,
			belt_rank, stripes, photo_url, oauth_provider, oauth_subject, is_admin, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, m.ID, nullIfEmpty(m.Email), m.PasswordHash, m.Name, m.DateOfBirth,
			m.IsChild, m.ParentID, m.BeltRank, m.Stripes, m.PhotoURL, m.OAuthProvider, m.OAuthSubject,
			m.IsAdmin, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import member %d: %w", m.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importLocations(locations []LocationBackup) error {
	log.Printf("Importing %d locations...", len(locations))
	for _, l := range locations {
		query := "INSERT INTO locations (id, name, address, active, created_at) VALUES (?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, l.ID, l.Name, l.Address, l.Active, l.CreatedAt); err != nil {
			return fmt.Errorf("failed to import location %d: %w", l.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importMembershipTypes(types []TierBackup) error {
	log.Printf("Importing %d membership types...", len(types))
	for _, t := range types {
		query := `INSERT INTO membership_types (id, location_id, name, price_cents, min_age, max_age,
			capacity, active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, t.ID, t.LocationID, t.Name, t.PriceCents, t.MinAge, t.MaxAge,
			t.Capacity, t.Active, t.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import membership type %d: %w", t.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importMemberships(memberships []MembershipBackup) error {
	log.Printf("Importing %d memberships...", len(memberships))
	for _, m := range memberships {
		query := `INSERT INTO memberships (id, member_id, location_id, membership_type_id, status,
			start_date, subscription_ref, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, m.ID, m.MemberID, m.LocationID, m.MembershipTypeID, m.Status,
			m.StartDate, m.SubscriptionRef, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import membership %d: %w", m.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importClasses(classes []ClassBackup) error {
	log.Printf("Importing %d classes...", len(classes))
	for _, c := range classes {
		query := `INSERT INTO classes (id, location_id, name, class_type, day_of_week, start_time,
			end_time, instructor_id, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, c.ID, c.LocationID, c.Name, c.ClassType, c.DayOfWeek, c.StartTime,
			c.EndTime, c.InstructorID, c.Active, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import class %d: %w", c.ID, err)
		}
		for _, tierID := range c.TierIDs {
			_, err := s.db.Exec("INSERT INTO class_membership_types (class_id, membership_type_id) VALUES (?, ?)",
				c.ID, tierID)
			if err != nil {
				return fmt.Errorf("failed to import tier for class %d: %w", c.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importAttendance(records []AttendanceBackup) error {
	log.Printf("Importing %d attendance records...", len(records))
	for _, a := range records {
		query := "INSERT INTO attendance_records (id, class_id, member_id, date, created_at) VALUES (?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, a.ID, a.ClassID, a.MemberID, a.Date, a.CreatedAt); err != nil {
			return fmt.Errorf("failed to import attendance record %d: %w", a.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importVideos(videos []VideoBackup) error {
	log.Printf("Importing %d videos...", len(videos))
	for _, v := range videos {
		query := "INSERT INTO videos (id, title, description, url, membership_type_id, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, v.ID, v.Title, v.Description, v.URL, v.MembershipTypeID, v.Position, v.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import video %d: %w", v.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importEmailTemplates(templates []EmailTemplateBackup) error {
	log.Printf("Importing %d email templates...", len(templates))
	for _, t := range templates {
		// Replace the seeded defaults rather than colliding with them.
		if _, err := s.db.Exec("DELETE FROM email_templates WHERE name = ?", t.Name); err != nil {
			return fmt.Errorf("failed to clear email template %s: %w", t.Name, err)
		}
		query := "INSERT INTO email_templates (id, name, subject, html_body, text_body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, t.ID, t.Name, t.Subject, t.HTMLBody, t.TextBody, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import email template %d: %w", t.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
