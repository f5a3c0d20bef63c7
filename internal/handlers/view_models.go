package handlers

import (
	"matclub/internal/models"
	"matclub/internal/schedule"
)

type LoginViewData struct {
	Title          string
	OAuthProviders []OAuthProviderView
	Error          string
	Email          string
	Success        string
}

type RegisterViewData struct {
	Title          string
	OAuthProviders []OAuthProviderView
	Error          string
	Email          string
	Name           string
}

type ForgotPasswordViewData struct {
	Title   string
	Success string
	Error   string
}

type ResetPasswordViewData struct {
	Title string
	Token string
	Error string
}

type HomeViewData struct {
	Title     string
	Locations []models.Location
}

type PricingIndexViewData struct {
	Title     string
	Locations []models.Location
	Tiers     map[int64][]models.MembershipType
}

type PricingViewData struct {
	Title    string
	Location *models.Location
	Tiers    []models.MembershipType
}

// TimetableEntry pairs a class instance with its check-in gate state for
// rendering.
type TimetableEntry struct {
	Instance schedule.Instance
	Gate     schedule.Decision
}

type DashboardViewData struct {
	Title      string
	Member     *models.Member
	Membership *models.Membership
	Today      []TimetableEntry
	Upcoming   []schedule.Instance
	Past       []schedule.Instance
	Report     schedule.MonthlyReport
	CSRFToken  string
	Error      string
	Success    string
}

type ProfileViewData struct {
	Title     string
	Member    *models.Member
	CSRFToken string
	Error     string
	Success   string
}

type ChildrenViewData struct {
	Title     string
	Member    *models.Member
	Children  []models.Member
	CSRFToken string
	Error     string
}

type VideosViewData struct {
	Title  string
	Member *models.Member
	Videos []models.Video
}

type MembershipViewData struct {
	Title       string
	Member      *models.Member
	Locations   []models.Location
	Tiers       map[int64][]models.MembershipType
	Memberships []models.Membership
	CSRFToken   string
	Error       string
	Success     string
}

type AdminDashboardViewData struct {
	Title     string
	Member    *models.Member
	Stats     AdminStats
	CSRFToken string
	Version   string
}

// AdminStats is the headline counts on the admin dashboard.
type AdminStats struct {
	Members           int
	ActiveMemberships int
	Classes           int
	CheckInsToday     int
}

type AdminMembersViewData struct {
	Title     string
	Member    *models.Member
	Members   []models.Member
	CSRFToken string
}

type AdminMemberDetailViewData struct {
	Title       string
	Member      *models.Member
	Subject     *models.Member
	Memberships []models.Membership
	Attendance  []models.AttendanceRecord
	CSRFToken   string
}

type AdminLocationsViewData struct {
	Title     string
	Member    *models.Member
	Locations []models.Location
	Tiers     map[int64][]models.MembershipType
	CSRFToken string
}

type AdminClassesViewData struct {
	Title     string
	Member    *models.Member
	Locations []models.Location
	Classes   []models.Class
	Tiers     []models.MembershipType
	CSRFToken string
}

type AdminVideosViewData struct {
	Title     string
	Member    *models.Member
	Videos    []models.Video
	CSRFToken string
}

type AdminTemplatesViewData struct {
	Title     string
	Member    *models.Member
	Templates []models.EmailTemplate
	CSRFToken string
}

type AdminMembershipsViewData struct {
	Title       string
	Member      *models.Member
	Memberships []models.Membership
	CSRFToken   string
}

type AdminDatabaseViewData struct {
	Title     string
	Member    *models.Member
	CSRFToken string
	Error     string
	Success   string
}
