package repository

import (
	"database/sql"
	"fmt"

	"matclub/internal/database"
	"matclub/internal/models"
)

// ContentRepository handles database operations for videos and email
// templates.
type ContentRepository struct {
	db *database.DB
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// CreateVideo inserts a new video.
func (r *ContentRepository) CreateVideo(v *models.Video) (*models.Video, error) {
	query := `INSERT INTO videos (title, description, url, membership_type_id, position)
		VALUES (?, ?, ?, ?, ?)`
	id, err := r.db.ExecReturningID(query, v.Title, v.Description, v.URL, v.MembershipTypeID, v.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return r.GetVideoByID(id)
}

// GetVideoByID retrieves a video by ID.
func (r *ContentRepository) GetVideoByID(id int64) (*models.Video, error) {
	v := &models.Video{}
	query := "SELECT id, title, description, url, membership_type_id, position, created_at FROM videos WHERE id = ?"
	err := r.db.QueryRow(query, id).Scan(&v.ID, &v.Title, &v.Description, &v.URL,
		&v.MembershipTypeID, &v.Position, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return v, nil
}

// ListVideos retrieves all videos in display order.
func (r *ContentRepository) ListVideos() ([]models.Video, error) {
	query := "SELECT id, title, description, url, membership_type_id, position, created_at FROM videos ORDER BY position, id"
	return r.queryVideos(query)
}

// ListVideosForTier retrieves the videos visible to a member on the given
// tier: unrestricted videos plus those assigned to the tier.
func (r *ContentRepository) ListVideosForTier(tierID int64) ([]models.Video, error) {
	query := `SELECT id, title, description, url, membership_type_id, position, created_at FROM videos
		WHERE membership_type_id IS NULL OR membership_type_id = ? ORDER BY position, id`
	return r.queryVideos(query, tierID)
}

// UpdateVideo updates a video's details.
func (r *ContentRepository) UpdateVideo(v *models.Video) error {
	query := `UPDATE videos SET title = ?, description = ?, url = ?, membership_type_id = ?,
		position = ? WHERE id = ?`
	_, err := r.db.Exec(query, v.Title, v.Description, v.URL, v.MembershipTypeID, v.Position, v.ID)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

// DeleteVideo removes a video.
func (r *ContentRepository) DeleteVideo(id int64) error {
	if _, err := r.db.Exec("DELETE FROM videos WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

func (r *ContentRepository) queryVideos(query string, args ...interface{}) ([]models.Video, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.URL, &v.MembershipTypeID,
			&v.Position, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// GetEmailTemplate retrieves a template by its name key, or nil when the
// template has not been defined.
func (r *ContentRepository) GetEmailTemplate(name string) (*models.EmailTemplate, error) {
	t := &models.EmailTemplate{}
	query := "SELECT id, name, subject, html_body, text_body, created_at, updated_at FROM email_templates WHERE name = ?"
	err := r.db.QueryRow(query, name).Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLBody,
		&t.TextBody, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}
	return t, nil
}

// ListEmailTemplates retrieves all templates ordered by name.
func (r *ContentRepository) ListEmailTemplates() ([]models.EmailTemplate, error) {
	query := "SELECT id, name, subject, html_body, text_body, created_at, updated_at FROM email_templates ORDER BY name"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}
	defer rows.Close()

	var templates []models.EmailTemplate
	for rows.Next() {
		var t models.EmailTemplate
		err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.HTMLBody, &t.TextBody,
			&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// UpsertEmailTemplate creates or replaces the template with the given name.
func (r *ContentRepository) UpsertEmailTemplate(t *models.EmailTemplate) error {
	existing, err := r.GetEmailTemplate(t.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		query := "INSERT INTO email_templates (name, subject, html_body, text_body) VALUES (?, ?, ?, ?)"
		if _, err := r.db.Exec(query, t.Name, t.Subject, t.HTMLBody, t.TextBody); err != nil {
			return fmt.Errorf("failed to create email template: %w", err)
		}
		return nil
	}
	query := `UPDATE email_templates SET subject = ?, html_body = ?, text_body = ?,
		updated_at = CURRENT_TIMESTAMP WHERE name = ?`
	if _, err := r.db.Exec(query, t.Subject, t.HTMLBody, t.TextBody, t.Name); err != nil {
		return fmt.Errorf("failed to update email template: %w", err)
	}
	return nil
}

// DeleteEmailTemplate removes a template by name.
func (r *ContentRepository) DeleteEmailTemplate(name string) error {
	if _, err := r.db.Exec("DELETE FROM email_templates WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete email template: %w", err)
	}
	return nil
}
