package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travelbuddy/internal/models/trip_models"
	mem "travelbuddy/pkg/memcache"
	"travelbuddy/pkg/utils"
)

type WizardServiceInterface interface {
	Start(ctx context.Context) trip_models.WizardState
	Get(ctx context.Context, sessionID string) (trip_models.WizardState, error)
	Apply(ctx context.Context, sessionID string, event trip_models.Event) (trip_models.WizardState, error)
	SubmitNaturalLanguage(ctx context.Context, sessionID, text string) (trip_models.WizardState, error)
	SubmitClarification(ctx context.Context, sessionID, text string) (trip_models.WizardState, error)
	Generate(ctx context.Context, sessionID string) (trip_models.WizardState, error)
	StartOver(ctx context.Context, sessionID string) (trip_models.WizardState, error)
}

// WizardService runs the side effects around Transition and persists every resulting
// state. After each user event it settles the state: stages that need backend questions
// or an itinerary get them before the state is returned.
type WizardService struct {
	sessions   mem.SessionStore
	extraction ExtractionServiceInterface
	itinerary  ItineraryServiceInterface
	logger     *zap.Logger
}

func NewWizardService(
	sessions mem.SessionStore,
	extraction ExtractionServiceInterface,
	itinerary ItineraryServiceInterface,
	logger *zap.Logger,
) WizardServiceInterface {
	return &WizardService{
		sessions:   sessions,
		extraction: extraction,
		itinerary:  itinerary,
		logger:     logger,
	}
}

func (w *WizardService) Start(ctx context.Context) trip_models.WizardState {
	state := trip_models.NewWizardState(uuid.NewString())
	w.sessions.Set(state)
	w.logger.Info("Wizard session started", zap.String("session_id", state.SessionID))
	return state
}

func (w *WizardService) Get(ctx context.Context, sessionID string) (trip_models.WizardState, error) {
	state, ok := w.sessions.Get(sessionID)
	if !ok {
		return trip_models.WizardState{}, utils.ErrSessionNotFound
	}
	return state, nil
}

func (w *WizardService) Apply(ctx context.Context, sessionID string, event trip_models.Event) (trip_models.WizardState, error) {
	state, err := w.Get(ctx, sessionID)
	if err != nil {
		return trip_models.WizardState{}, err
	}
	return w.step(ctx, state, event)
}

// SubmitNaturalLanguage extracts a record from the description before handing it to the
// state machine. A parse failure is not an error here: it routes the session to clarify.
func (w *WizardService) SubmitNaturalLanguage(ctx context.Context, sessionID, text string) (trip_models.WizardState, error) {
	state, err := w.Get(ctx, sessionID)
	if err != nil {
		return trip_models.WizardState{}, err
	}
	if state.Stage != trip_models.StageTripDetails {
		return state, fmt.Errorf("%w: natural language input during %s", utils.ErrIllegalTransition, state.Stage)
	}

	result := w.extraction.Extract(ctx, text)
	if result.Failed() {
		w.logger.Info("Extraction failed, asking for clarification",
			zap.String("session_id", sessionID), zap.Error(result.Err))
	}
	return w.step(ctx, state, trip_models.SubmitNaturalLanguage{
		Text:        text,
		Extracted:   result.Preferences,
		ParseFailed: result.Failed(),
	})
}

func (w *WizardService) SubmitClarification(ctx context.Context, sessionID, text string) (trip_models.WizardState, error) {
	state, err := w.Get(ctx, sessionID)
	if err != nil {
		return trip_models.WizardState{}, err
	}
	if state.Stage != trip_models.StageClarify {
		return state, fmt.Errorf("%w: clarification during %s", utils.ErrIllegalTransition, state.Stage)
	}

	result := w.extraction.MergeClarification(ctx, state.Preferences, text)
	return w.step(ctx, state, trip_models.SubmitClarification{
		Updated:     result.Preferences,
		ParseFailed: result.Failed(),
	})
}

// Generate regenerates from results, or retries a session stuck in generate.
func (w *WizardService) Generate(ctx context.Context, sessionID string) (trip_models.WizardState, error) {
	state, err := w.Get(ctx, sessionID)
	if err != nil {
		return trip_models.WizardState{}, err
	}
	if state.Stage == trip_models.StageGenerate {
		return w.settle(ctx, state)
	}
	return w.step(ctx, state, trip_models.Regenerate{})
}

func (w *WizardService) StartOver(ctx context.Context, sessionID string) (trip_models.WizardState, error) {
	return w.Apply(ctx, sessionID, trip_models.StartOver{})
}

func (w *WizardService) step(ctx context.Context, state trip_models.WizardState, event trip_models.Event) (trip_models.WizardState, error) {
	next, err := Transition(state, event)
	if err != nil {
		return state, err
	}
	w.logger.Debug("Wizard transition",
		zap.String("session_id", state.SessionID),
		zap.String("event", trip_models.EventName(event)),
		zap.String("from", string(state.Stage)),
		zap.String("to", string(next.Stage)))
	w.sessions.Set(next)
	return w.settle(ctx, next)
}

// settle drives automatic stages until the session waits on the user again. Each pass
// either leaves the loop or moves to a later stage, so it terminates.
func (w *WizardService) settle(ctx context.Context, state trip_models.WizardState) (trip_models.WizardState, error) {
	for {
		var event trip_models.Event
		switch {
		case state.Stage == trip_models.StageClarify && state.Questions == "":
			event = trip_models.QuestionsReady{Questions: w.extraction.ClarifyingQuestions(ctx, state.Preferences)}
		case state.Stage == trip_models.StageRefine && state.Questions == "":
			event = trip_models.QuestionsReady{Questions: w.extraction.RefinementQuestions(ctx, state.Preferences)}
		case state.Stage == trip_models.StageGenerate && state.Itinerary == nil:
			bundle, err := w.itinerary.Run(ctx, state.Preferences)
			if err != nil {
				return state, err
			}
			event = trip_models.ItineraryReady{Bundle: bundle}
		default:
			return state, nil
		}

		next, err := Transition(state, event)
		if err != nil {
			return state, err
		}
		// Notices from the user's step survive the automatic ones.
		next.Notices = append(append([]string(nil), state.Notices...), next.Notices...)
		w.sessions.Set(next)
		state = next
	}
}
