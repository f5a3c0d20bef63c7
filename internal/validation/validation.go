package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidationError represents a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a display name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateTimeOfDay checks an "HH:MM" class time.
func ValidateTimeOfDay(field, value string) error {
	if !timeOfDayRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "must be a time in HH:MM format"}
	}
	return nil
}

// ValidateDayOfWeek checks a 0=Sunday..6=Saturday weekday index.
func ValidateDayOfWeek(day int) error {
	if day < 0 || day > 6 {
		return ValidationError{Field: "day_of_week", Message: "must be between 0 (Sunday) and 6 (Saturday)"}
	}
	return nil
}

// ValidateDateOfBirth checks an optional YYYY-MM-DD date string and returns
// the parsed date when present.
func ValidateDateOfBirth(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ValidationError{Field: "date_of_birth", Message: "must be a date in YYYY-MM-DD format"}
	}
	if parsed.After(time.Now()) {
		return nil, ValidationError{Field: "date_of_birth", Message: "must not be in the future"}
	}
	return &parsed, nil
}
