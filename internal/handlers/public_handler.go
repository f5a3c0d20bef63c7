package handlers

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"matclub/internal/models"
	"matclub/internal/repository"
)

// PublicHandler serves the marketing pages
type PublicHandler struct {
	locationRepo *repository.LocationRepository
	templates    *template.Template
}

func NewPublicHandler(locationRepo *repository.LocationRepository, templates *template.Template) *PublicHandler {
	return &PublicHandler{
		locationRepo: locationRepo,
		templates:    templates,
	}
}

// Home renders the landing page with the active club locations
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	locations, err := h.locationRepo.ListActiveLocations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading locations", err)
		return
	}

	h.render(w, "home.tmpl", HomeViewData{
		Title:     "Home",
		Locations: locations,
	})
}

// About renders the about page
func (h *PublicHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about.tmpl", HomeViewData{Title: "About"})
}

// Contact renders the contact page with club locations
func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationRepo.ListActiveLocations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading locations", err)
		return
	}

	h.render(w, "contact.tmpl", HomeViewData{
		Title:     "Contact",
		Locations: locations,
	})
}

// PricingIndex renders every active location with its membership tiers
func (h *PublicHandler) PricingIndex(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationRepo.ListActiveLocations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading locations", err)
		return
	}

	tiers := make(map[int64][]models.MembershipType, len(locations))
	for _, location := range locations {
		list, err := h.locationRepo.ListMembershipTypes(location.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError,
				fmt.Sprintf("Error loading membership types for location %d", location.ID), err)
			return
		}
		for _, tier := range list {
			if tier.Active {
				tiers[location.ID] = append(tiers[location.ID], tier)
			}
		}
	}

	h.render(w, "pricing_index.tmpl", PricingIndexViewData{
		Title:     "Pricing",
		Locations: locations,
		Tiers:     tiers,
	})
}

// Pricing renders the membership tiers available at a location
func (h *PublicHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	location, err := h.locationRepo.GetLocationByID(locationID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading location %d", locationID), err)
		return
	}
	if location == nil || !location.Active {
		http.NotFound(w, r)
		return
	}

	tiers, err := h.locationRepo.ListMembershipTypes(locationID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, fmt.Sprintf("Error loading membership types for location %d", locationID), err)
		return
	}

	active := tiers[:0]
	for _, tier := range tiers {
		if tier.Active {
			active = append(active, tier)
		}
	}

	h.render(w, "pricing.tmpl", PricingViewData{
		Title:    location.Name + " Pricing",
		Location: location,
		Tiers:    active,
	})
}

func (h *PublicHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
