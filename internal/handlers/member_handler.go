package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"matclub/internal/models"
	"matclub/internal/observability"
	"matclub/internal/repository"
	"matclub/internal/schedule"
	"matclub/internal/security"
	"matclub/internal/service"
)

const maxPhotoUploadBytes = 5 << 20

// MemberHandler serves the logged-in member pages: dashboard, check-in,
// profile, children, videos and membership management.
type MemberHandler struct {
	memberService     *service.MemberService
	scheduleService   *service.ScheduleService
	checkInService    *service.CheckInService
	membershipService *service.MembershipService
	mediaService      *service.MediaService
	locationRepo      *repository.LocationRepository
	contentRepo       *repository.ContentRepository
	templates         *template.Template
	csrf              *security.CSRFGenerator
	clock             schedule.Clock
}

func NewMemberHandler(
	memberService *service.MemberService,
	scheduleService *service.ScheduleService,
	checkInService *service.CheckInService,
	membershipService *service.MembershipService,
	mediaService *service.MediaService,
	locationRepo *repository.LocationRepository,
	contentRepo *repository.ContentRepository,
	templates *template.Template,
	csrf *security.CSRFGenerator,
	clock schedule.Clock,
) *MemberHandler {
	return &MemberHandler{
		memberService:     memberService,
		scheduleService:   scheduleService,
		checkInService:    checkInService,
		membershipService: membershipService,
		mediaService:      mediaService,
		locationRepo:      locationRepo,
		contentRepo:       contentRepo,
		templates:         templates,
		csrf:              csrf,
		clock:             clock,
	}
}

// Dashboard renders the member's timetable: today's classes with their
// check-in state, the coming four weeks, and the attendance report.
func (h *MemberHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	data := DashboardViewData{
		Title:     "Dashboard",
		Member:    member,
		CSRFToken: csrfTokenFor(h.csrf, r),
		Error:     r.URL.Query().Get("error"),
		Success:   r.URL.Query().Get("success"),
	}

	timetable, err := h.scheduleService.GetTimetable(member.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveMembership) {
			h.render(w, "dashboard.tmpl", data)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error building timetable for member %d", member.ID), err)
		return
	}

	now := h.clock.Now()
	today := schedule.DateKey(now)
	data.Membership = timetable.Membership
	data.Past = timetable.Past
	data.Report = timetable.Report
	for _, inst := range timetable.Upcoming {
		if inst.Date.Equal(today) {
			data.Today = append(data.Today, TimetableEntry{
				Instance: inst,
				Gate:     schedule.CanCheckIn(inst, now),
			})
			continue
		}
		data.Upcoming = append(data.Upcoming, inst)
	}

	h.render(w, "dashboard.tmpl", data)
}

// CheckIn records attendance for a class happening now
func (h *MemberHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	classID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	result, err := h.checkInService.CheckIn(member.ID, classID)
	if err != nil {
		var gateErr *service.CheckInError
		switch {
		case errors.As(err, &gateErr):
			observability.RecordCheckIn(observability.CheckInRejected)
			h.redirectDashboard(w, r, "error", gateErr.Reason)
		case errors.Is(err, service.ErrNoActiveMembership):
			observability.RecordCheckIn(observability.CheckInRejected)
			h.redirectDashboard(w, r, "error", "You need an active membership to check in")
		case errors.Is(err, service.ErrClassNotFound), errors.Is(err, service.ErrClassNotAvailable):
			observability.RecordCheckIn(observability.CheckInRejected)
			h.redirectDashboard(w, r, "error", "That class is not available to you")
		default:
			observability.RecordCheckIn(observability.CheckInError)
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error checking in member %d to class %d", member.ID, classID), err)
		}
		return
	}

	if result.AlreadyCheckedIn {
		observability.RecordCheckIn(observability.CheckInDuplicate)
		h.redirectDashboard(w, r, "success", "You are already checked in")
		return
	}

	observability.RecordCheckIn(observability.CheckInOK)
	h.redirectDashboard(w, r, "success", "Checked in. Have a good session!")
}

// ShowProfile renders the profile page
func (h *MemberHandler) ShowProfile(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	h.render(w, "profile.tmpl", ProfileViewData{
		Title:     "Profile",
		Member:    member,
		CSRFToken: csrfTokenFor(h.csrf, r),
		Error:     r.URL.Query().Get("error"),
		Success:   r.URL.Query().Get("success"),
	})
}

// UpdateProfile handles profile form submission, including an optional
// photo upload.
func (h *MemberHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	dateOfBirth := r.FormValue("date_of_birth")

	photoURL := member.PhotoURL
	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		if h.mediaService == nil || !h.mediaService.IsEnabled() {
			http.Redirect(w, r, "/profile?error="+url.QueryEscape("Photo uploads are not enabled"), http.StatusSeeOther)
			return
		}
		uploaded, err := h.mediaService.UploadMemberPhoto(r.Context(), member.ID, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			log.Printf("Error uploading photo for member %d: %v", member.ID, err)
			http.Redirect(w, r, "/profile?error="+url.QueryEscape("Photo upload failed"), http.StatusSeeOther)
			return
		}
		photoURL = uploaded
	}

	if err := h.memberService.UpdateProfile(member.ID, name, dateOfBirth, photoURL); err != nil {
		log.Printf("Error updating profile for member %d: %v", member.ID, err)
		http.Redirect(w, r, "/profile?error="+url.QueryEscape("Could not save your profile"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/profile?success="+url.QueryEscape("Profile updated"), http.StatusSeeOther)
}

// ShowChildren renders the child member management page
func (h *MemberHandler) ShowChildren(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	children, err := h.memberService.GetChildren(member.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading children for member %d", member.ID), err)
		return
	}

	h.render(w, "children.tmpl", ChildrenViewData{
		Title:     "My Children",
		Member:    member,
		Children:  children,
		CSRFToken: csrfTokenFor(h.csrf, r),
		Error:     r.URL.Query().Get("error"),
	})
}

// AddChild handles the add-child form submission
func (h *MemberHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	dateOfBirth := r.FormValue("date_of_birth")

	if _, err := h.memberService.AddChild(member.ID, name, dateOfBirth); err != nil {
		http.Redirect(w, r, "/children?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// UpdateChild handles edits to one of the member's children
func (h *MemberHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	childID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	name := r.FormValue("name")
	dateOfBirth := r.FormValue("date_of_birth")

	if err := h.memberService.UpdateChild(member.ID, childID, name, dateOfBirth); err != nil {
		if errors.Is(err, service.ErrNotYourChild) || errors.Is(err, service.ErrMemberNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/children?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// RemoveChild deletes one of the member's children
func (h *MemberHandler) RemoveChild(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	childID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.memberService.RemoveChild(member.ID, childID); err != nil {
		if errors.Is(err, service.ErrNotYourChild) || errors.Is(err, service.ErrMemberNotFound) {
			http.NotFound(w, r)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error removing child %d for member %d", childID, member.ID), err)
		return
	}

	http.Redirect(w, r, "/children", http.StatusSeeOther)
}

// Videos renders the technique video library for the member's tier
func (h *MemberHandler) Videos(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	membership, err := h.membershipService.GetAnyActiveMembership(member.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading membership for member %d", member.ID), err)
		return
	}
	if membership == nil {
		http.Redirect(w, r, "/membership", http.StatusSeeOther)
		return
	}

	videos, err := h.contentRepo.ListVideosForTier(membership.MembershipTypeID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading videos", err)
		return
	}

	h.render(w, "videos.tmpl", VideosViewData{
		Title:  "Videos",
		Member: member,
		Videos: videos,
	})
}

// ShowMembership renders the membership page: current memberships for the
// member and their children, plus the signup catalog.
func (h *MemberHandler) ShowMembership(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	locations, err := h.locationRepo.ListActiveLocations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading locations", err)
		return
	}

	tiers := make(map[int64][]models.MembershipType, len(locations))
	for _, location := range locations {
		list, err := h.locationRepo.ListMembershipTypes(location.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading membership types for location %d", location.ID), err)
			return
		}
		for _, tier := range list {
			if tier.Active {
				tiers[location.ID] = append(tiers[location.ID], tier)
			}
		}
	}

	memberships, err := h.membershipService.GetMemberMemberships(member.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading memberships for member %d", member.ID), err)
		return
	}
	children, err := h.memberService.GetChildren(member.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading children for member %d", member.ID), err)
		return
	}
	for _, child := range children {
		childMemberships, err := h.membershipService.GetMemberMemberships(child.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading memberships for member %d", child.ID), err)
			return
		}
		memberships = append(memberships, childMemberships...)
	}

	h.render(w, "membership.tmpl", MembershipViewData{
		Title:       "Membership",
		Member:      member,
		Locations:   locations,
		Tiers:       tiers,
		Memberships: memberships,
		CSRFToken:   csrfTokenFor(h.csrf, r),
		Error:       r.URL.Query().Get("error"),
		Success:     r.URL.Query().Get("success"),
	})
}

// StartSignup begins a membership signup for the member or one of their
// children and redirects to the billing provider's checkout when payment
// is required.
func (h *MemberHandler) StartSignup(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	locationID, err := strconv.ParseInt(r.FormValue("location_id"), 10, 64)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	typeID, err := strconv.ParseInt(r.FormValue("membership_type_id"), 10, 64)
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	subjectID := member.ID
	if raw := r.FormValue("member_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
			return
		}
		if id != member.ID {
			if _, err := h.memberService.GetChildForParent(member.ID, id); err != nil {
				http.NotFound(w, r)
				return
			}
		}
		subjectID = id
	}

	result, err := h.membershipService.StartSignup(r.Context(), subjectID, locationID, typeID)
	if err != nil {
		h.redirectMembershipError(w, r, err)
		return
	}

	if result.CheckoutURL != "" {
		http.Redirect(w, r, result.CheckoutURL, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/membership?success="+url.QueryEscape("Membership active. Welcome to the mats!"), http.StatusSeeOther)
}

// CancelMembership cancels one of the member's (or their children's)
// memberships.
func (h *MemberHandler) CancelMembership(w http.ResponseWriter, r *http.Request) {
	member := GetMemberFromContext(r.Context())

	membershipID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.membershipService.CancelMembership(r.Context(), member.ID, membershipID); err != nil {
		if errors.Is(err, service.ErrMembershipNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("Error cancelling membership %d: %v", membershipID, err)
		http.Redirect(w, r, "/membership?error="+url.QueryEscape("Could not cancel that membership"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/membership?success="+url.QueryEscape("Membership cancelled"), http.StatusSeeOther)
}

// CheckoutComplete is the return page after a successful hosted checkout.
// Activation itself happens via the provider webhook.
func (h *MemberHandler) CheckoutComplete(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/membership?success="+url.QueryEscape("Payment received. Your membership will activate shortly."), http.StatusSeeOther)
}

// CheckoutCancelled is the return page after an abandoned checkout
func (h *MemberHandler) CheckoutCancelled(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/membership?error="+url.QueryEscape("Checkout was cancelled"), http.StatusSeeOther)
}

func (h *MemberHandler) redirectMembershipError(w http.ResponseWriter, r *http.Request, err error) {
	message := "Could not start that membership"
	switch {
	case errors.Is(err, service.ErrAlreadyActive):
		message = "There is already an active membership at this location"
	case errors.Is(err, service.ErrAgeRestricted):
		message = "This tier is not available for that age"
	case errors.Is(err, service.ErrTierFull):
		message = "This tier is full"
	case errors.Is(err, service.ErrTierNotFound):
		message = "That membership tier no longer exists"
	default:
		log.Printf("Error starting signup: %v", err)
	}
	http.Redirect(w, r, "/membership?error="+url.QueryEscape(message), http.StatusSeeOther)
}

func (h *MemberHandler) redirectDashboard(w http.ResponseWriter, r *http.Request, key, message string) {
	http.Redirect(w, r, "/dashboard?"+key+"="+url.QueryEscape(message), http.StatusSeeOther)
}

func (h *MemberHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
