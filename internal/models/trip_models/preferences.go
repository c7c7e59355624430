package trip_models

import (
	"sort"
	"strings"
	"time"
)

type Budget string

const (
	BudgetUnspecified Budget = ""
	BudgetBudget      Budget = "Budget"
	BudgetModerate    Budget = "Moderate"
	BudgetLuxury      Budget = "Luxury"
)

// ParseBudget accepts both the form values ("budget", "medium", "luxury") and the
// natural-language values ("Budget", "Moderate", "Luxury"). Anything else is unspecified.
func ParseBudget(s string) Budget {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "budget", "low", "cheap":
		return BudgetBudget
	case "moderate", "medium", "mid":
		return BudgetModerate
	case "luxury", "high":
		return BudgetLuxury
	default:
		return BudgetUnspecified
	}
}

type Transportation string

const (
	TransportUnspecified Transportation = ""
	TransportPublic      Transportation = "public"
	TransportRentalCar   Transportation = "rental car"
	TransportTaxi        Transportation = "taxi"
)

func ParseTransportation(s string) Transportation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "public transit", "public transport":
		return TransportPublic
	case "rental car", "rental", "car":
		return TransportRentalCar
	case "taxi", "rideshare", "taxi/rideshare":
		return TransportTaxi
	default:
		return TransportUnspecified
	}
}

const DateLayout = "2006-01-02"

const InvalidDateRangeNotice = "End date must be after start date"

type TripPreferences struct {
	Origin              string         `json:"origin,omitempty"`
	Destination         string         `json:"destination,omitempty"`
	StartDate           *time.Time     `json:"start_date,omitempty"`
	EndDate             *time.Time     `json:"end_date,omitempty"`
	Budget              Budget         `json:"budget,omitempty"`
	Transportation      Transportation `json:"transportation,omitempty"`
	Activities          []string       `json:"activities,omitempty"`
	DietaryRestrictions string         `json:"dietary_restrictions,omitempty"`
	MobilityConcerns    string         `json:"mobility_concerns,omitempty"`
	Refinements         string         `json:"refinements,omitempty"`
	OriginalInput       string         `json:"original_input,omitempty"`
}

// TripLength is derived from the date range on every call. A missing date yields 0.
// A range shorter than one day is clamped to 1 and the notice is returned alongside.
func (p TripPreferences) TripLength() (int, string) {
	if p.StartDate == nil || p.EndDate == nil {
		return 0, ""
	}
	days := int(p.EndDate.Sub(*p.StartDate).Hours() / 24)
	if days < 1 {
		return 1, InvalidDateRangeNotice
	}
	return days, ""
}

// Clone returns a deep copy so the caller can hand it off without sharing slices or dates.
func (p TripPreferences) Clone() TripPreferences {
	out := p
	if p.StartDate != nil {
		d := *p.StartDate
		out.StartDate = &d
	}
	if p.EndDate != nil {
		d := *p.EndDate
		out.EndDate = &d
	}
	if p.Activities != nil {
		out.Activities = append([]string(nil), p.Activities...)
	}
	return out
}

func (p TripPreferences) IsEmpty() bool {
	return p.Origin == "" && p.Destination == "" && p.StartDate == nil && p.EndDate == nil &&
		p.Budget == BudgetUnspecified && p.Transportation == TransportUnspecified &&
		len(p.Activities) == 0 && p.DietaryRestrictions == "" && p.MobilityConcerns == ""
}

// MissingRequired lists the fields a natural-language description must supply before
// refinement can start.
func (p TripPreferences) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(p.Destination) == "" {
		missing = append(missing, "destination")
	}
	if p.StartDate == nil {
		missing = append(missing, "start_date")
	}
	if p.EndDate == nil {
		missing = append(missing, "end_date")
	}
	return missing
}

// NormalizeTags trims, drops empties and dedupes case-insensitively, keeping the first
// spelling seen. The result is sorted since tag order carries no meaning.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

// ParseDate is strict YYYY-MM-DD. Anything else degrades to nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
