package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"matclub/internal/models"
	"matclub/internal/repository"
	"matclub/internal/schedule"
	"matclub/internal/security"
	"matclub/internal/service"
)

// AdminHandler serves the club administration pages
type AdminHandler struct {
	memberService     *service.MemberService
	membershipService *service.MembershipService
	scheduleService   *service.ScheduleService
	backupService     *service.BackupService
	locationRepo      *repository.LocationRepository
	classRepo         *repository.ClassRepository
	membershipRepo    *repository.MembershipRepository
	attendanceRepo    *repository.AttendanceRepository
	contentRepo       *repository.ContentRepository
	templates         *template.Template
	csrf              *security.CSRFGenerator
	clock             schedule.Clock
	version           string
}

func NewAdminHandler(
	memberService *service.MemberService,
	membershipService *service.MembershipService,
	scheduleService *service.ScheduleService,
	backupService *service.BackupService,
	locationRepo *repository.LocationRepository,
	classRepo *repository.ClassRepository,
	membershipRepo *repository.MembershipRepository,
	attendanceRepo *repository.AttendanceRepository,
	contentRepo *repository.ContentRepository,
	templates *template.Template,
	csrf *security.CSRFGenerator,
	clock schedule.Clock,
	version string,
) *AdminHandler {
	return &AdminHandler{
		memberService:     memberService,
		membershipService: membershipService,
		scheduleService:   scheduleService,
		backupService:     backupService,
		locationRepo:      locationRepo,
		classRepo:         classRepo,
		membershipRepo:    membershipRepo,
		attendanceRepo:    attendanceRepo,
		contentRepo:       contentRepo,
		templates:         templates,
		csrf:              csrf,
		clock:             clock,
		version:           version,
	}
}

// Dashboard renders the admin overview with headline counts
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	stats, err := h.collectStats()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error collecting admin stats", err)
		return
	}

	h.render(w, "admin_dashboard.tmpl", AdminDashboardViewData{
		Title:     "Admin",
		Member:    member,
		Stats:     stats,
		CSRFToken: csrfTokenFor(h.csrf, r),
		Version:   h.version,
	})
}

func (h *AdminHandler) collectStats() (AdminStats, error) {
	var stats AdminStats

	members, err := h.memberService.ListMembers()
	if err != nil {
		return stats, err
	}
	stats.Members = len(members)

	memberships, err := h.membershipRepo.ListMemberships()
	if err != nil {
		return stats, err
	}
	for _, m := range memberships {
		if m.IsActive() {
			stats.ActiveMemberships++
		}
	}

	classes, err := h.classRepo.ListAllClasses()
	if err != nil {
		return stats, err
	}
	stats.Classes = len(classes)

	today := schedule.DateKey(h.clock.Now())
	checkIns, err := h.attendanceRepo.CountCheckInsOn(today)
	if err != nil {
		return stats, err
	}
	stats.CheckInsToday = checkIns

	return stats, nil
}

// Members

// ListMembers renders the member roster
func (h *AdminHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	members, err := h.memberService.ListMembers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing members", err)
		return
	}

	h.render(w, "admin_members.tmpl", AdminMembersViewData{
		Title:     "Members",
		Member:    member,
		Members:   members,
		CSRFToken: csrfTokenFor(h.csrf, r),
	})
}

// ShowMember renders one member with their memberships and recent
// attendance.
func (h *AdminHandler) ShowMember(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	subjectID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	subject, err := h.memberService.GetMember(subjectID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			http.NotFound(w, r)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading member %d", subjectID), err)
		return
	}

	memberships, err := h.membershipService.GetMemberMemberships(subjectID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading memberships for member %d", subjectID), err)
		return
	}

	attendance, err := h.scheduleService.GetMemberHistory(subjectID, 90)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading attendance for member %d", subjectID), err)
		return
	}

	h.render(w, "admin_member_detail.tmpl", AdminMemberDetailViewData{
		Title:       subject.Name,
		Member:      member,
		Subject:     subject,
		Memberships: memberships,
		Attendance:  attendance,
		CSRFToken:   csrfTokenFor(h.csrf, r),
	})
}

// PromoteMember advances a member to the next belt or stripe
func (h *AdminHandler) PromoteMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := h.memberService.PromoteMember(memberID); err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			http.NotFound(w, r)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error promoting member %d", memberID), err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/members/%d", memberID), http.StatusSeeOther)
}

// SetMemberBelt sets a member's belt and stripe count directly
func (h *AdminHandler) SetMemberBelt(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	belt := r.FormValue("belt")
	stripes, err := strconv.Atoi(r.FormValue("stripes"))
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	if err := h.memberService.SetBelt(memberID, belt, stripes); err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/members/%d", memberID), http.StatusSeeOther)
}

// SetMemberAdmin grants or revokes admin rights
func (h *AdminHandler) SetMemberAdmin(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	memberID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if memberID == member.ID {
		http.Error(w, "You cannot change your own admin access", http.StatusBadRequest)
		return
	}

	isAdmin := r.FormValue("is_admin") == "1"
	if err := h.memberService.SetAdmin(memberID, isAdmin); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error updating admin flag for member %d", memberID), err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/members/%d", memberID), http.StatusSeeOther)
}

// DeleteMember removes a member and their sessions, memberships and
// attendance.
func (h *AdminHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	memberID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if memberID == member.ID {
		http.Error(w, "You cannot delete your own account", http.StatusBadRequest)
		return
	}

	if err := h.memberService.DeleteMember(memberID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error deleting member %d", memberID), err)
		return
	}

	http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
}

// Locations and tiers

// ListLocations renders locations with their membership tiers
func (h *AdminHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	locations, err := h.locationRepo.ListLocations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing locations", err)
		return
	}

	tiers := make(map[int64][]models.MembershipType, len(locations))
	for _, location := range locations {
		list, err := h.locationRepo.ListMembershipTypes(location.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading membership types for location %d", location.ID), err)
			return
		}
		tiers[location.ID] = list
	}

	h.render(w, "admin_locations.tmpl", AdminLocationsViewData{
		Title:     "Locations",
		Member:    member,
		Locations: locations,
		Tiers:     tiers,
		CSRFToken: csrfTokenFor(h.csrf, r),
	})
}

// CreateLocation handles the new-location form
func (h *AdminHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	address := strings.TrimSpace(r.FormValue("address"))
	if name == "" {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	if _, err := h.locationRepo.CreateLocation(name, address); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error creating location", err)
		return
	}

	http.Redirect(w, r, "/admin/locations", http.StatusSeeOther)
}

// UpdateLocation handles location edits
func (h *AdminHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	address := strings.TrimSpace(r.FormValue("address"))
	active := r.FormValue("active") == "1"
	if name == "" {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	if err := h.locationRepo.UpdateLocation(locationID, name, address, active); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error updating location %d", locationID), err)
		return
	}

	http.Redirect(w, r, "/admin/locations", http.StatusSeeOther)
}

// DeleteLocation removes a location and everything hanging off it
func (h *AdminHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.locationRepo.DeleteLocation(locationID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error deleting location %d", locationID), err)
		return
	}

	http.Redirect(w, r, "/admin/locations", http.StatusSeeOther)
}

// CreateMembershipType handles the new-tier form
func (h *AdminHandler) CreateMembershipType(w http.ResponseWriter, r *http.Request) {
	tier, err := h.parseTierForm(r)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	if _, err := h.locationRepo.CreateMembershipType(tier); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error creating membership type", err)
		return
	}

	http.Redirect(w, r, "/admin/locations", http.StatusSeeOther)
}

// UpdateMembershipType handles tier edits
func (h *AdminHandler) UpdateMembershipType(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	tier, err := h.parseTierForm(r)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	tier.ID = tierID

	if err := h.locationRepo.UpdateMembershipType(tier); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error updating membership type %d", tierID), err)
		return
	}

	http.Redirect(w, r, "/admin/locations", http.StatusSeeOther)
}

// DeleteMembershipType removes a tier
func (h *AdminHandler) DeleteMembershipType(w http.ResponseWriter, r *http.Request) {
	tierID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.locationRepo.DeleteMembershipType(tierID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error deleting membership type %d", tierID), err)
		return
	}

	http.Redirect(w, r, "/admin/locations", http.StatusSeeOther)
}

func (h *AdminHandler) parseTierForm(r *http.Request) (*models.MembershipType, error) {
	locationID, err := strconv.ParseInt(r.FormValue("location_id"), 10, 64)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return nil, errors.New("name is required")
	}
	priceCents, err := strconv.ParseInt(r.FormValue("price_cents"), 10, 64)
	if err != nil || priceCents < 0 {
		return nil, errors.New("invalid price")
	}

	tier := &models.MembershipType{
		LocationID: locationID,
		Name:       name,
		PriceCents: priceCents,
		Active:     r.FormValue("active") == "1",
	}

	if raw := r.FormValue("min_age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return nil, errors.New("invalid minimum age")
		}
		tier.MinAge = &age
	}
	if raw := r.FormValue("max_age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return nil, errors.New("invalid maximum age")
		}
		tier.MaxAge = &age
	}
	if raw := r.FormValue("capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			return nil, errors.New("invalid capacity")
		}
		tier.Capacity = capacity
	}
	if tier.MinAge != nil && tier.MaxAge != nil && *tier.MinAge > *tier.MaxAge {
		return nil, errors.New("minimum age exceeds maximum age")
	}

	return tier, nil
}

// Classes

// ListClasses renders the class catalog across all locations
func (h *AdminHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	locations, err := h.locationRepo.ListLocations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing locations", err)
		return
	}

	classes, err := h.classRepo.ListAllClasses()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing classes", err)
		return
	}

	var tiers []models.MembershipType
	for _, location := range locations {
		list, err := h.locationRepo.ListMembershipTypes(location.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading membership types for location %d", location.ID), err)
			return
		}
		tiers = append(tiers, list...)
	}

	h.render(w, "admin_classes.tmpl", AdminClassesViewData{
		Title:     "Classes",
		Member:    member,
		Locations: locations,
		Classes:   classes,
		Tiers:     tiers,
		CSRFToken: csrfTokenFor(h.csrf, r),
	})
}

// CreateClass handles the new-class form
func (h *AdminHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	class, err := h.parseClassForm(r)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	if _, err := h.classRepo.CreateClass(class); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error creating class", err)
		return
	}

	http.Redirect(w, r, "/admin/classes", http.StatusSeeOther)
}

// UpdateClass handles class edits
func (h *AdminHandler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	classID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	class, err := h.parseClassForm(r)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	class.ID = classID

	if err := h.classRepo.UpdateClass(class); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error updating class %d", classID), err)
		return
	}

	http.Redirect(w, r, "/admin/classes", http.StatusSeeOther)
}

// DeleteClass removes a class and its attendance history
func (h *AdminHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	classID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.classRepo.DeleteClass(classID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error deleting class %d", classID), err)
		return
	}

	http.Redirect(w, r, "/admin/classes", http.StatusSeeOther)
}

// ClassRoster renders the check-ins for a class on a date
// (?date=YYYY-MM-DD, default today).
func (h *AdminHandler) ClassRoster(w http.ResponseWriter, r *http.Request) {
	classID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	date := schedule.DateKey(h.clock.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = schedule.DateKey(parsed)
	}

	records, err := h.scheduleService.GetClassRoster(classID, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading roster for class %d", classID), err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"class_id": classID,
		"date":     date.Format("2006-01-02"),
		"records":  records,
	})
}

func (h *AdminHandler) parseClassForm(r *http.Request) (*models.Class, error) {
	locationID, err := strconv.ParseInt(r.FormValue("location_id"), 10, 64)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return nil, errors.New("name is required")
	}
	dayOfWeek, err := strconv.Atoi(r.FormValue("day_of_week"))
	if err != nil || dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, errors.New("invalid day of week")
	}
	startTime := r.FormValue("start_time")
	endTime := r.FormValue("end_time")
	if !validClassTime(startTime) || !validClassTime(endTime) {
		return nil, errors.New("invalid class time")
	}

	class := &models.Class{
		LocationID: locationID,
		Name:       name,
		ClassType:  strings.TrimSpace(r.FormValue("class_type")),
		DayOfWeek:  dayOfWeek,
		StartTime:  startTime,
		EndTime:    endTime,
		Active:     r.FormValue("active") == "1",
	}

	if raw := r.FormValue("instructor_id"); raw != "" {
		instructorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid instructor")
		}
		class.InstructorID = &instructorID
	}

	for _, raw := range r.Form["membership_type_ids"] {
		tierID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid membership type")
		}
		class.MembershipTypeIDs = append(class.MembershipTypeIDs, tierID)
	}

	return class, nil
}

func validClassTime(hhmm string) bool {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return false
	}
	hour, err := strconv.Atoi(hhmm[:2])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(hhmm[3:])
	return err == nil && minute >= 0 && minute <= 59
}

// Memberships

// ListMemberships renders every membership for manual management
func (h *AdminHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	memberships, err := h.membershipRepo.ListMemberships()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing memberships", err)
		return
	}

	h.render(w, "admin_memberships.tmpl", AdminMembershipsViewData{
		Title:       "Memberships",
		Member:      member,
		Memberships: memberships,
		CSRFToken:   csrfTokenFor(h.csrf, r),
	})
}

// SetMembershipStatus transitions a membership directly
func (h *AdminHandler) SetMembershipStatus(w http.ResponseWriter, r *http.Request) {
	membershipID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	status := r.FormValue("status")
	switch status {
	case models.MembershipActive, models.MembershipPending, models.MembershipInactive, models.MembershipCancelled:
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := h.membershipService.AdminSetStatus(membershipID, status); err != nil {
		if errors.Is(err, service.ErrMembershipNotFound) {
			http.NotFound(w, r)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error updating membership %d", membershipID), err)
		return
	}

	http.Redirect(w, r, "/admin/memberships", http.StatusSeeOther)
}

// Videos

// ListVideos renders the video library manager
func (h *AdminHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	videos, err := h.contentRepo.ListVideos()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing videos", err)
		return
	}

	h.render(w, "admin_videos.tmpl", AdminVideosViewData{
		Title:     "Videos",
		Member:    member,
		Videos:    videos,
		CSRFToken: csrfTokenFor(h.csrf, r),
	})
}

// CreateVideo handles the new-video form
func (h *AdminHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.parseVideoForm(r)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	if _, err := h.contentRepo.CreateVideo(video); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error creating video", err)
		return
	}

	http.Redirect(w, r, "/admin/videos", http.StatusSeeOther)
}

// UpdateVideo handles video edits
func (h *AdminHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	video, err := h.parseVideoForm(r)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	video.ID = videoID

	if err := h.contentRepo.UpdateVideo(video); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error updating video %d", videoID), err)
		return
	}

	http.Redirect(w, r, "/admin/videos", http.StatusSeeOther)
}

// DeleteVideo removes a video
func (h *AdminHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.contentRepo.DeleteVideo(videoID); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error deleting video %d", videoID), err)
		return
	}

	http.Redirect(w, r, "/admin/videos", http.StatusSeeOther)
}

func (h *AdminHandler) parseVideoForm(r *http.Request) (*models.Video, error) {
	title := strings.TrimSpace(r.FormValue("title"))
	videoURL := strings.TrimSpace(r.FormValue("url"))
	if title == "" || videoURL == "" {
		return nil, errors.New("title and url are required")
	}

	video := &models.Video{
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		URL:         videoURL,
	}

	if raw := r.FormValue("membership_type_id"); raw != "" {
		tierID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid membership type")
		}
		video.MembershipTypeID = &tierID
	}
	if raw := r.FormValue("position"); raw != "" {
		position, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid position")
		}
		video.Position = position
	}

	return video, nil
}

// Email templates

// ListEmailTemplates renders the email template editor
func (h *AdminHandler) ListEmailTemplates(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	templates, err := h.contentRepo.ListEmailTemplates()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing email templates", err)
		return
	}

	h.render(w, "admin_templates.tmpl", AdminTemplatesViewData{
		Title:     "Email Templates",
		Member:    member,
		Templates: templates,
		CSRFToken: csrfTokenFor(h.csrf, r),
	})
}

// SaveEmailTemplate creates or updates a template by name
func (h *AdminHandler) SaveEmailTemplate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	if name == "" || subject == "" {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	tmpl := &models.EmailTemplate{
		Name:     name,
		Subject:  subject,
		HTMLBody: r.FormValue("html_body"),
		TextBody: r.FormValue("text_body"),
	}

	if err := h.contentRepo.UpsertEmailTemplate(tmpl); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error saving email template %q", name), err)
		return
	}

	http.Redirect(w, r, "/admin/templates", http.StatusSeeOther)
}

// DeleteEmailTemplate removes a template by name
func (h *AdminHandler) DeleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.contentRepo.DeleteEmailTemplate(name); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error deleting email template %q", name), err)
		return
	}

	http.Redirect(w, r, "/admin/templates", http.StatusSeeOther)
}

// Database backup

// ShowDatabase renders the export/import page
func (h *AdminHandler) ShowDatabase(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	h.render(w, "admin_database.tmpl", AdminDatabaseViewData{
		Title:     "Database",
		Member:    member,
		CSRFToken: csrfTokenFor(h.csrf, r),
		Error:     r.URL.Query().Get("error"),
		Success:   r.URL.Query().Get("success"),
	})
}

// ExportDatabase streams a JSON snapshot of the database
func (h *AdminHandler) ExportDatabase(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("matclub-backup-%s.json", h.clock.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := h.backupService.ExportToWriter(w); err != nil {
		log.Printf("Error exporting database: %v", err)
	}
}

// ImportDatabase restores a JSON snapshot uploaded by the admin
func (h *AdminHandler) ImportDatabase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("backup")
	if err != nil {
		http.Redirect(w, r, "/admin/database?error="+url.QueryEscape("Choose a backup file to import"), http.StatusSeeOther)
		return
	}
	defer file.Close()

	if err := h.backupService.ImportFromReader(file); err != nil {
		log.Printf("Error importing database: %v", err)
		http.Redirect(w, r, "/admin/database?error="+url.QueryEscape("Import failed: "+err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/database?success="+url.QueryEscape("Backup imported"), http.StatusSeeOther)
}

func (h *AdminHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
