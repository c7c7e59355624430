package request_models

import (
	"travelbuddy/internal/models/trip_models"
)

// Dates are YYYY-MM-DD strings.
type TripDetailsRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Budget      string `json:"budget"`
}

type PreferencesRequest struct {
	Activities          []string `json:"activities"`
	Transportation      string   `json:"transportation"`
	DietaryRestrictions string   `json:"dietary_restrictions"`
	MobilityConcerns    string   `json:"mobility_concerns"`
}

type NaturalLanguageRequest struct {
	Text string `json:"text" binding:"required"`
}

type ClarificationRequest struct {
	Text string `json:"text" binding:"required"`
}

type RefinementRequest struct {
	Refinements string `json:"refinements"`
}

// ItineraryRequest is the one-shot body for POST /itineraries.
type ItineraryRequest struct {
	Origin              string   `json:"origin"`
	Destination         string   `json:"destination" binding:"required"`
	StartDate           string   `json:"start_date" binding:"required"`
	EndDate             string   `json:"end_date" binding:"required"`
	Budget              string   `json:"budget"`
	Transportation      string   `json:"transportation"`
	Activities          []string `json:"activities"`
	DietaryRestrictions string   `json:"dietary_restrictions"`
	MobilityConcerns    string   `json:"mobility_concerns"`
}

func (r ItineraryRequest) ToPreferences() trip_models.TripPreferences {
	return trip_models.TripPreferences{
		Origin:              r.Origin,
		Destination:         r.Destination,
		StartDate:           trip_models.ParseDate(r.StartDate),
		EndDate:             trip_models.ParseDate(r.EndDate),
		Budget:              trip_models.ParseBudget(r.Budget),
		Transportation:      trip_models.ParseTransportation(r.Transportation),
		Activities:          trip_models.NormalizeTags(r.Activities),
		DietaryRestrictions: r.DietaryRestrictions,
		MobilityConcerns:    r.MobilityConcerns,
	}
}
