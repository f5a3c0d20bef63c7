package models

import "time"

// Video is a technique video available to members, optionally restricted to
// a single membership tier.
type Video struct {
	ID               int64
	Title            string
	Description      string
	URL              string
	MembershipTypeID *int64 // nil = visible to all members
	Position         int
	CreatedAt        time.Time
}

// EmailTemplate is an admin-editable email body keyed by name
// (e.g. "welcome", "membership_active"). Bodies are Go templates.
type EmailTemplate struct {
	ID        int64
	Name      string
	Subject   string
	HTMLBody  string
	TextBody  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
