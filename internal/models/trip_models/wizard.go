package trip_models

import "travelbuddy/internal/models/response_models"

type Stage string

const (
	StageTripDetails Stage = "trip_details"
	StagePreferences Stage = "preferences"
	StageClarify     Stage = "clarify"
	StageRefine      Stage = "refine"
	StageGenerate    Stage = "generate"
	StageResults     Stage = "results"
)

// InputMode records which flow the session took, since Back and the generate step
// differ between them.
type InputMode string

const (
	InputModeForm            InputMode = "form"
	InputModeNaturalLanguage InputMode = "natural_language"
)

// WizardState is a value: transitions build a new one instead of editing in place.
type WizardState struct {
	SessionID   string                           `json:"session_id"`
	Stage       Stage                            `json:"stage"`
	Mode        InputMode                        `json:"mode,omitempty"`
	Preferences TripPreferences                  `json:"preferences"`
	Questions   string                           `json:"questions,omitempty"`
	Notices     []string                         `json:"notices,omitempty"`
	Itinerary   *response_models.ItineraryBundle `json:"itinerary,omitempty"`
}

func NewWizardState(sessionID string) WizardState {
	return WizardState{SessionID: sessionID, Stage: StageTripDetails}
}

func (s WizardState) Clone() WizardState {
	out := s
	out.Preferences = s.Preferences.Clone()
	if s.Notices != nil {
		out.Notices = append([]string(nil), s.Notices...)
	}
	return out
}
