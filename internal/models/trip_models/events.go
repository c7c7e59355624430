package trip_models

import (
	"time"

	"travelbuddy/internal/models/response_models"
)

// Event is one input to the wizard. The concrete types below are the only implementations.
type Event interface {
	eventName() string
}

type SubmitTripDetails struct {
	Origin      string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      Budget
}

type SubmitPreferences struct {
	Activities          []string
	Transportation      Transportation
	DietaryRestrictions string
	MobilityConcerns    string
}

// SubmitNaturalLanguage carries an already-extracted record. ParseFailed routes the
// session into clarification regardless of which fields came back.
type SubmitNaturalLanguage struct {
	Text        string
	Extracted   TripPreferences
	ParseFailed bool
}

type SubmitClarification struct {
	Updated     TripPreferences
	ParseFailed bool
}

// QuestionsReady attaches backend-generated questions to the clarify or refine stage.
// Empty questions skip the stage, matching what happens when the backend is down.
type QuestionsReady struct {
	Questions string
}

type SubmitRefinements struct {
	Refinements string
}

// SkipRefinement leaves the refine stage without adding anything to the record.
type SkipRefinement struct{}

type ItineraryReady struct {
	Bundle response_models.ItineraryBundle
}

type Regenerate struct{}

type Back struct{}

type StartOver struct{}

func (SubmitTripDetails) eventName() string     { return "submit_trip_details" }
func (SubmitPreferences) eventName() string     { return "submit_preferences" }
func (SubmitNaturalLanguage) eventName() string { return "submit_natural_language" }
func (SubmitClarification) eventName() string   { return "submit_clarification" }
func (QuestionsReady) eventName() string        { return "questions_ready" }
func (SubmitRefinements) eventName() string     { return "submit_refinements" }
func (SkipRefinement) eventName() string        { return "skip_refinement" }
func (ItineraryReady) eventName() string        { return "itinerary_ready" }
func (Regenerate) eventName() string            { return "regenerate" }
func (Back) eventName() string                  { return "back" }
func (StartOver) eventName() string             { return "start_over" }

func EventName(e Event) string {
	return e.eventName()
}
