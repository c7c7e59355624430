package services

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"travelbuddy/internal/models/response_models"
	"travelbuddy/internal/models/trip_models"
	"travelbuddy/pkg/utils"
)

func mustTransition(t *testing.T, state trip_models.WizardState, event trip_models.Event) trip_models.WizardState {
	t.Helper()
	next, err := Transition(state, event)
	if err != nil {
		t.Fatalf("%s during %s: %v", trip_models.EventName(event), state.Stage, err)
	}
	return next
}

func tripDetailsEvent() trip_models.SubmitTripDetails {
	p := tokyoPreferences()
	return trip_models.SubmitTripDetails{
		Origin:      " Seoul ",
		Destination: "Tokyo",
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Budget:      trip_models.BudgetLuxury,
	}
}

func TestTransitionFormFlow(t *testing.T) {
	state := trip_models.NewWizardState("s1")

	state = mustTransition(t, state, tripDetailsEvent())
	if state.Stage != trip_models.StagePreferences || state.Mode != trip_models.InputModeForm {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.Preferences.Origin != "Seoul" || state.Preferences.Budget != trip_models.BudgetLuxury {
		t.Errorf("unexpected preferences %+v", state.Preferences)
	}

	state = mustTransition(t, state, trip_models.SubmitPreferences{
		Activities:     []string{"museums", " Food ", "Museums", ""},
		Transportation: trip_models.TransportPublic,
	})
	if state.Stage != trip_models.StageGenerate || state.Itinerary != nil {
		t.Fatalf("unexpected state %+v", state)
	}
	if !reflect.DeepEqual(state.Preferences.Activities, []string{"Food", "museums"}) {
		t.Errorf("unexpected activities %v", state.Preferences.Activities)
	}

	state = mustTransition(t, state, trip_models.ItineraryReady{Bundle: response_models.ItineraryBundle{Itinerary: "Day 1: Go"}})
	if state.Stage != trip_models.StageResults || state.Itinerary == nil || state.Itinerary.Itinerary != "Day 1: Go" {
		t.Fatalf("unexpected state %+v", state)
	}

	state = mustTransition(t, state, trip_models.Regenerate{})
	if state.Stage != trip_models.StageGenerate || state.Itinerary != nil {
		t.Errorf("expected regenerate to clear the itinerary, got %+v", state)
	}
}

func TestTransitionTripDetailsValidation(t *testing.T) {
	e := tripDetailsEvent()
	e.Destination = " "
	state := trip_models.NewWizardState("s1")

	next, err := Transition(state, e)
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if next.Stage != trip_models.StageTripDetails {
		t.Errorf("expected to stay in trip_details, got %s", next.Stage)
	}

	e = tripDetailsEvent()
	e.EndDate = e.StartDate
	next = mustTransition(t, state, e)
	if len(next.Notices) != 1 || next.Notices[0] != trip_models.InvalidDateRangeNotice {
		t.Errorf("expected date range notice, got %v", next.Notices)
	}
}

func TestTransitionNaturalLanguage(t *testing.T) {
	complete := tokyoPreferences()
	partial := trip_models.TripPreferences{Destination: "Paris"}

	tests := []struct {
		name      string
		event     trip_models.SubmitNaturalLanguage
		wantStage trip_models.Stage
		notice    string
	}{
		{"complete record", trip_models.SubmitNaturalLanguage{Text: "Tokyo in April", Extracted: complete}, trip_models.StageRefine, ""},
		{"missing dates", trip_models.SubmitNaturalLanguage{Text: "Paris", Extracted: partial}, trip_models.StageClarify, "Still missing: start date, end date"},
		{"parse failure", trip_models.SubmitNaturalLanguage{Text: "???", ParseFailed: true}, trip_models.StageClarify, "couldn't fully understand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := mustTransition(t, trip_models.NewWizardState("s1"), tt.event)
			if next.Stage != tt.wantStage || next.Mode != trip_models.InputModeNaturalLanguage {
				t.Errorf("expected %s, got %+v", tt.wantStage, next)
			}
			if next.Preferences.OriginalInput != tt.event.Text {
				t.Errorf("expected original input %q, got %q", tt.event.Text, next.Preferences.OriginalInput)
			}
			if tt.notice == "" && len(next.Notices) != 0 {
				t.Errorf("unexpected notices %v", next.Notices)
			}
			if tt.notice != "" && (len(next.Notices) != 1 || !strings.Contains(next.Notices[0], tt.notice)) {
				t.Errorf("expected notice containing %q, got %v", tt.notice, next.Notices)
			}
		})
	}
}

func clarifyState(prefs trip_models.TripPreferences) trip_models.WizardState {
	s := trip_models.NewWizardState("s1")
	s.Stage = trip_models.StageClarify
	s.Mode = trip_models.InputModeNaturalLanguage
	s.Preferences = prefs
	return s
}

func TestTransitionClarifyQuestions(t *testing.T) {
	partial := trip_models.TripPreferences{Destination: "Paris"}

	next := mustTransition(t, clarifyState(partial), trip_models.QuestionsReady{Questions: " - When? "})
	if next.Stage != trip_models.StageClarify || next.Questions != "- When?" {
		t.Errorf("unexpected state %+v", next)
	}

	next = mustTransition(t, clarifyState(partial), trip_models.QuestionsReady{})
	if next.Stage != trip_models.StageClarify {
		t.Fatalf("expected to stay in clarify, got %s", next.Stage)
	}
	want := "1. When does your trip start (YYYY-MM-DD)?\n2. When does your trip end (YYYY-MM-DD)?"
	if next.Questions != want {
		t.Errorf("expected fallback questions %q, got %q", want, next.Questions)
	}

	next = mustTransition(t, clarifyState(tokyoPreferences()), trip_models.QuestionsReady{})
	if next.Stage != trip_models.StageRefine || next.Questions != "" {
		t.Errorf("expected to skip to refine, got %+v", next)
	}
}

func TestTransitionClarification(t *testing.T) {
	state := clarifyState(trip_models.TripPreferences{Destination: "Paris", OriginalInput: "Paris please"})
	state.Questions = "When?"

	next := mustTransition(t, state, trip_models.SubmitClarification{Updated: trip_models.TripPreferences{Destination: "Paris", StartDate: tokyoPreferences().StartDate}})
	if next.Stage != trip_models.StageClarify || next.Questions != "" {
		t.Errorf("expected another clarify round, got %+v", next)
	}
	if next.Preferences.OriginalInput != "Paris please" || len(next.Notices) != 1 {
		t.Errorf("unexpected state %+v", next)
	}

	complete := tokyoPreferences()
	next = mustTransition(t, state, trip_models.SubmitClarification{Updated: complete})
	if next.Stage != trip_models.StageRefine {
		t.Errorf("expected refine, got %s", next.Stage)
	}

	next = mustTransition(t, state, trip_models.SubmitClarification{Updated: state.Preferences, ParseFailed: true})
	if next.Stage != trip_models.StageClarify || len(next.Notices) != 1 {
		t.Errorf("expected a notice and another clarify round, got %+v", next)
	}
}

func TestTransitionRefine(t *testing.T) {
	state := trip_models.NewWizardState("s1")
	state.Stage = trip_models.StageRefine
	state.Mode = trip_models.InputModeNaturalLanguage
	state.Preferences = tokyoPreferences()

	next := mustTransition(t, state, trip_models.QuestionsReady{})
	if next.Stage != trip_models.StageGenerate {
		t.Errorf("expected empty questions to skip to generate, got %s", next.Stage)
	}

	state.Questions = "Relaxed or packed?"
	next = mustTransition(t, state, trip_models.SubmitRefinements{Refinements: " relaxed "})
	if next.Stage != trip_models.StageGenerate || next.Preferences.Refinements != "relaxed" || next.Questions != "" {
		t.Errorf("unexpected state %+v", next)
	}

	next = mustTransition(t, state, trip_models.SkipRefinement{})
	if next.Stage != trip_models.StageGenerate || next.Preferences.Refinements != "" {
		t.Errorf("unexpected state %+v", next)
	}
}

func TestTransitionBack(t *testing.T) {
	bundle := &response_models.ItineraryBundle{Itinerary: "x"}
	tests := []struct {
		stage trip_models.Stage
		mode  trip_models.InputMode
		want  trip_models.Stage
	}{
		{trip_models.StagePreferences, trip_models.InputModeForm, trip_models.StageTripDetails},
		{trip_models.StageClarify, trip_models.InputModeNaturalLanguage, trip_models.StageTripDetails},
		{trip_models.StageRefine, trip_models.InputModeNaturalLanguage, trip_models.StageTripDetails},
		{trip_models.StageGenerate, trip_models.InputModeForm, trip_models.StagePreferences},
		{trip_models.StageResults, trip_models.InputModeForm, trip_models.StagePreferences},
		{trip_models.StageResults, trip_models.InputModeNaturalLanguage, trip_models.StageRefine},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage)+"/"+string(tt.mode), func(t *testing.T) {
			state := trip_models.NewWizardState("s1")
			state.Stage = tt.stage
			state.Mode = tt.mode
			state.Preferences = tokyoPreferences()
			state.Itinerary = bundle

			next := mustTransition(t, state, trip_models.Back{})
			if next.Stage != tt.want {
				t.Errorf("expected %s, got %s", tt.want, next.Stage)
			}
			if next.Preferences.Destination != "Tokyo" {
				t.Error("expected preferences to survive going back")
			}
		})
	}
}

func TestTransitionIllegal(t *testing.T) {
	state := trip_models.NewWizardState("s1")
	for _, e := range []trip_models.Event{trip_models.Back{}, trip_models.Regenerate{}, trip_models.SubmitRefinements{}} {
		next, err := Transition(state, e)
		if !errors.Is(err, utils.ErrIllegalTransition) {
			t.Errorf("%s: expected ErrIllegalTransition, got %v", trip_models.EventName(e), err)
		}
		if next.Stage != trip_models.StageTripDetails {
			t.Errorf("%s: expected unchanged state", trip_models.EventName(e))
		}
	}
}

func TestTransitionStartOver(t *testing.T) {
	state := trip_models.NewWizardState("s1")
	state.Stage = trip_models.StageResults
	state.Preferences = tokyoPreferences()
	state.Itinerary = &response_models.ItineraryBundle{Itinerary: "x"}

	next := mustTransition(t, state, trip_models.StartOver{})
	if !reflect.DeepEqual(next, trip_models.NewWizardState("s1")) {
		t.Errorf("expected a fresh state, got %+v", next)
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	state := trip_models.NewWizardState("s1")
	state.Stage = trip_models.StagePreferences
	state.Preferences = tokyoPreferences()
	state.Notices = []string{"keep me"}
	before := state.Clone()

	_ = mustTransition(t, state, trip_models.SubmitPreferences{Activities: []string{"Hiking"}})

	if !reflect.DeepEqual(state, before) {
		t.Errorf("input state changed: %+v", state)
	}
}
