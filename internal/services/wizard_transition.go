package services

import (
	"fmt"
	"strings"

	"travelbuddy/internal/models/trip_models"
	"travelbuddy/pkg/utils"
)

// Transition computes the next wizard state. It has no side effects: extraction,
// question generation and orchestration happen before the matching event is built.
// The input state is never modified.
func Transition(state trip_models.WizardState, event trip_models.Event) (trip_models.WizardState, error) {
	if _, ok := event.(trip_models.StartOver); ok {
		return trip_models.NewWizardState(state.SessionID), nil
	}

	next := state.Clone()
	next.Notices = nil

	switch state.Stage {
	case trip_models.StageTripDetails:
		switch e := event.(type) {
		case trip_models.SubmitTripDetails:
			return submitTripDetails(next, e)
		case trip_models.SubmitNaturalLanguage:
			return submitNaturalLanguage(next, e), nil
		}

	case trip_models.StagePreferences:
		switch e := event.(type) {
		case trip_models.SubmitPreferences:
			next.Preferences.Activities = trip_models.NormalizeTags(e.Activities)
			next.Preferences.Transportation = e.Transportation
			next.Preferences.DietaryRestrictions = strings.TrimSpace(e.DietaryRestrictions)
			next.Preferences.MobilityConcerns = strings.TrimSpace(e.MobilityConcerns)
			return enterGenerate(next), nil
		case trip_models.Back:
			next.Stage = trip_models.StageTripDetails
			return next, nil
		}

	case trip_models.StageClarify:
		switch e := event.(type) {
		case trip_models.QuestionsReady:
			return clarifyQuestionsReady(next, e), nil
		case trip_models.SubmitClarification:
			next.Preferences = e.Updated.Clone()
			next.Preferences.OriginalInput = state.Preferences.OriginalInput
			next.Questions = ""
			if e.ParseFailed {
				next.Notices = append(next.Notices, "We couldn't read that answer. Please try describing your trip again.")
				return next, nil
			}
			if missing := next.Preferences.MissingRequired(); len(missing) > 0 {
				next.Notices = append(next.Notices, missingNotice(missing))
				return next, nil
			}
			next.Stage = trip_models.StageRefine
			return next, nil
		case trip_models.Back:
			next.Stage = trip_models.StageTripDetails
			next.Questions = ""
			return next, nil
		}

	case trip_models.StageRefine:
		switch e := event.(type) {
		case trip_models.QuestionsReady:
			if strings.TrimSpace(e.Questions) == "" {
				return enterGenerate(next), nil
			}
			next.Questions = strings.TrimSpace(e.Questions)
			return next, nil
		case trip_models.SubmitRefinements:
			next.Preferences.Refinements = strings.TrimSpace(e.Refinements)
			return enterGenerate(next), nil
		case trip_models.SkipRefinement:
			return enterGenerate(next), nil
		case trip_models.Back:
			next.Stage = trip_models.StageTripDetails
			next.Questions = ""
			return next, nil
		}

	case trip_models.StageGenerate:
		switch e := event.(type) {
		case trip_models.ItineraryReady:
			bundle := e.Bundle
			next.Stage = trip_models.StageResults
			next.Itinerary = &bundle
			return next, nil
		case trip_models.Back:
			return backFromGeneration(next), nil
		}

	case trip_models.StageResults:
		switch event.(type) {
		case trip_models.Regenerate:
			return enterGenerate(next), nil
		case trip_models.Back:
			return backFromGeneration(next), nil
		}
	}

	return state, fmt.Errorf("%w: %s during %s", utils.ErrIllegalTransition, trip_models.EventName(event), state.Stage)
}

func submitTripDetails(next trip_models.WizardState, e trip_models.SubmitTripDetails) (trip_models.WizardState, error) {
	destination := strings.TrimSpace(e.Destination)
	if destination == "" {
		return next, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}

	next.Mode = trip_models.InputModeForm
	next.Preferences.Origin = strings.TrimSpace(e.Origin)
	next.Preferences.Destination = destination
	next.Preferences.StartDate = e.StartDate
	next.Preferences.EndDate = e.EndDate
	next.Preferences.Budget = e.Budget
	if _, notice := next.Preferences.TripLength(); notice != "" {
		next.Notices = append(next.Notices, notice)
	}
	next.Stage = trip_models.StagePreferences
	return next, nil
}

// submitNaturalLanguage always leaves trip_details. A failed parse or missing required
// field lands in clarify; a complete record goes straight to refine.
func submitNaturalLanguage(next trip_models.WizardState, e trip_models.SubmitNaturalLanguage) trip_models.WizardState {
	next.Mode = trip_models.InputModeNaturalLanguage
	next.Preferences = e.Extracted.Clone()
	next.Preferences.OriginalInput = e.Text
	next.Questions = ""

	if e.ParseFailed {
		next.Notices = append(next.Notices, "We couldn't fully understand your trip description. A few questions will help.")
		next.Stage = trip_models.StageClarify
		return next
	}
	if missing := next.Preferences.MissingRequired(); len(missing) > 0 {
		next.Notices = append(next.Notices, missingNotice(missing))
		next.Stage = trip_models.StageClarify
		return next
	}
	next.Stage = trip_models.StageRefine
	return next
}

// clarifyQuestionsReady skips clarification when nothing is missing and the backend had
// no questions. With required fields still missing the user is asked for them directly.
func clarifyQuestionsReady(next trip_models.WizardState, e trip_models.QuestionsReady) trip_models.WizardState {
	questions := strings.TrimSpace(e.Questions)
	missing := next.Preferences.MissingRequired()
	switch {
	case questions != "":
		next.Questions = questions
	case len(missing) > 0:
		next.Questions = fallbackQuestions(missing)
	default:
		next.Stage = trip_models.StageRefine
		next.Questions = ""
	}
	return next
}

func enterGenerate(next trip_models.WizardState) trip_models.WizardState {
	next.Stage = trip_models.StageGenerate
	next.Questions = ""
	next.Itinerary = nil
	return next
}

func backFromGeneration(next trip_models.WizardState) trip_models.WizardState {
	next.Itinerary = nil
	next.Questions = ""
	if next.Mode == trip_models.InputModeNaturalLanguage {
		next.Stage = trip_models.StageRefine
	} else {
		next.Stage = trip_models.StagePreferences
	}
	return next
}

var missingFieldLabels = map[string]string{
	"destination": "destination",
	"start_date":  "start date",
	"end_date":    "end date",
}

func missingNotice(missing []string) string {
	labels := make([]string, 0, len(missing))
	for _, m := range missing {
		labels = append(labels, missingFieldLabels[m])
	}
	return "Still missing: " + strings.Join(labels, ", ")
}

func fallbackQuestions(missing []string) string {
	var b strings.Builder
	for i, m := range missing {
		switch m {
		case "destination":
			fmt.Fprintf(&b, "%d. Where would you like to go?\n", i+1)
		case "start_date":
			fmt.Fprintf(&b, "%d. When does your trip start (YYYY-MM-DD)?\n", i+1)
		case "end_date":
			fmt.Fprintf(&b, "%d. When does your trip end (YYYY-MM-DD)?\n", i+1)
		}
	}
	return strings.TrimSpace(b.String())
}
