package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"matclub/internal/models"
	"matclub/internal/repository"
	"matclub/internal/security"
	"matclub/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic
type AuthService struct {
	memberRepo      *repository.MemberRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(memberRepo *repository.MemberRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		memberRepo:      memberRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new adult member account
func (s *AuthService) Register(email, password, name, dateOfBirth string) (*models.Member, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	var dob *time.Time
	if dateOfBirth != "" {
		parsed, err := validation.ValidateDateOfBirth(dateOfBirth)
		if err != nil {
			return nil, err
		}
		dob = parsed
	}

	existing, err := s.memberRepo.GetMemberByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing member: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member, err := s.memberRepo.CreateMember(email, passwordHash, name, dob)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

// Login authenticates a member and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.Member, error) {
	member, err := s.memberRepo.GetMemberByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil || member.IsChild {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, member.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	return s.createSession(member)
}

// ValidateSession checks if a session is valid and returns the associated member
func (s *AuthService) ValidateSession(sessionID string) (*models.Member, error) {
	session, err := s.memberRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.memberRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	member, err := s.memberRepo.GetMemberByID(session.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrSessionNotFound
	}
	return member, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.memberRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.memberRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin authenticates or creates a member using an OAuth provider
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.Member, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	member, err := s.memberRepo.GetMemberByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth member: %w", err)
	}

	if member == nil {
		existing, err := s.memberRepo.GetMemberByEmail(email)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check existing member: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, nil, ErrEmailTaken
			}
			if err := s.memberRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			member = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			randomPasswordHash, err := security.HashPassword(security.GenerateSessionID())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			created, err := s.memberRepo.CreateMember(email, randomPasswordHash, name, nil)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create oauth member: %w", err)
			}
			if err := s.memberRepo.LinkOAuthProvider(created.ID, provider, subject); err != nil {
				return nil, nil, fmt.Errorf("failed to link oauth provider: %w", err)
			}
			member = created
		}
	}

	return s.createSession(member)
}

func (s *AuthService) createSession(member *models.Member) (*models.Session, *models.Member, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.memberRepo.CreateSession(sessionID, member.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, member, nil
}

// RequestPasswordReset creates a password reset token and sends an email.
// Unknown emails are ignored so the endpoint does not reveal account
// existence.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailService *EmailService, email string) error {
	member, err := s.memberRepo.GetMemberByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil
	}
	if member.OAuthProvider != "" && member.PasswordHash == "" {
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_ = s.memberRepo.DeleteMemberPasswordResetTokens(member.ID)

	expiresAt := time.Now().Add(1 * time.Hour)
	if err := s.memberRepo.CreatePasswordResetToken(token, member.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendPasswordResetEmail(ctx, member.Email, member.Name, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}
	return nil
}

// ValidatePasswordResetToken checks if a reset token is usable
func (s *AuthService) ValidatePasswordResetToken(token string) (bool, error) {
	resetToken, err := s.memberRepo.GetPasswordResetToken(token)
	if err != nil {
		return false, fmt.Errorf("failed to get reset token: %w", err)
	}
	if resetToken == nil || resetToken.Used || resetToken.IsExpired() {
		return false, nil
	}
	return true, nil
}

// ResetPassword resets a member's password using a valid token
func (s *AuthService) ResetPassword(token, newPassword string) error {
	resetToken, err := s.memberRepo.GetPasswordResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}
	if resetToken == nil {
		return errors.New("invalid or expired reset token")
	}
	if resetToken.Used {
		return errors.New("this reset link has already been used")
	}
	if resetToken.IsExpired() {
		return errors.New("this reset link has expired")
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.memberRepo.UpdatePassword(resetToken.MemberID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.memberRepo.MarkPasswordResetTokenUsed(token); err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}
	return nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
