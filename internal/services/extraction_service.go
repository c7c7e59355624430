package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"travelbuddy/internal/models/trip_models"
	"travelbuddy/pkg/utils"
)

// ExtractionResult always carries a usable (possibly empty) record. Err is set when the
// caller should route the user to clarification instead of generating.
type ExtractionResult struct {
	Preferences trip_models.TripPreferences
	Err         error
}

func (r ExtractionResult) Failed() bool {
	return r.Err != nil
}

type ExtractionServiceInterface interface {
	Extract(ctx context.Context, freeText string) ExtractionResult
	MergeClarification(ctx context.Context, prefs trip_models.TripPreferences, clarification string) ExtractionResult
	ClarifyingQuestions(ctx context.Context, prefs trip_models.TripPreferences) string
	RefinementQuestions(ctx context.Context, prefs trip_models.TripPreferences) string
}

type ExtractionService struct {
	prompts PromptServiceInterface
	backend utils.BackendClientInterface
	logger  *zap.Logger
}

func NewExtractionService(prompts PromptServiceInterface, backend utils.BackendClientInterface, logger *zap.Logger) ExtractionServiceInterface {
	return &ExtractionService{
		prompts: prompts,
		backend: backend,
		logger:  logger,
	}
}

func (e *ExtractionService) Extract(ctx context.Context, freeText string) ExtractionResult {
	if strings.TrimSpace(freeText) == "" {
		return ExtractionResult{Err: fmt.Errorf("%w: empty description", utils.ErrExtractionParse)}
	}

	rec, err := e.requestRecord(ctx, e.prompts.BuildExtractionPrompt(freeText))
	if err != nil {
		return ExtractionResult{Err: err}
	}
	return ExtractionResult{Preferences: mergeRecord(trip_models.TripPreferences{}, rec)}
}

// MergeClarification replaces fields present in the backend's update and keeps the rest.
// On failure the original record comes back untouched.
func (e *ExtractionService) MergeClarification(ctx context.Context, prefs trip_models.TripPreferences, clarification string) ExtractionResult {
	if strings.TrimSpace(clarification) == "" {
		return ExtractionResult{Preferences: prefs.Clone()}
	}

	rec, err := e.requestRecord(ctx, e.prompts.BuildClarificationPrompt(prefs, clarification))
	if err != nil {
		return ExtractionResult{Preferences: prefs.Clone(), Err: err}
	}
	return ExtractionResult{Preferences: mergeRecord(prefs.Clone(), rec)}
}

func (e *ExtractionService) requestRecord(ctx context.Context, prompt string) (extractionRecord, error) {
	response, err := e.backend.Generate(ctx, utils.GenerateRequest{Prompt: prompt})
	if err != nil {
		e.logger.Warn("Extraction request failed", zap.Error(err))
		return extractionRecord{}, fmt.Errorf("%w: %w", utils.ErrExtractionParse, err)
	}

	var fields map[string]json.RawMessage
	if err := utils.DecodeLooseJSON(response, &fields); err != nil {
		e.logger.Warn("Couldn't find valid JSON in the response",
			zap.String("response", truncate(response, 500)))
		return extractionRecord{}, err
	}
	return recordFromFields(fields), nil
}

// recordFromFields converts each key on its own so one mistyped value only loses that
// field. Null and mistyped values count as absent.
func recordFromFields(fields map[string]json.RawMessage) extractionRecord {
	return extractionRecord{
		Destination:         stringField(fields, "destination"),
		Origin:              stringField(fields, "origin"),
		StartDate:           stringField(fields, "start_date"),
		EndDate:             stringField(fields, "end_date"),
		Budget:              stringField(fields, "budget"),
		TravelStyle:         stringListField(fields, "travel_style"),
		DietaryRestrictions: stringField(fields, "dietary_restrictions"),
		MobilityConcerns:    stringField(fields, "mobility_concerns"),
		Transportation:      stringField(fields, "transportation"),
		Refinements:         stringField(fields, "refinements"),
	}
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}

// stringListField also accepts a lone string, which models often send for one style.
func stringListField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	if s := stringField(fields, key); s != nil {
		return []string{*s}
	}
	return nil
}

// mergeRecord applies every key the backend sent. Unparsable dates and unknown budgets
// count as absent so they never erase a known value.
func mergeRecord(prefs trip_models.TripPreferences, rec extractionRecord) trip_models.TripPreferences {
	if rec.Destination != nil {
		prefs.Destination = strings.TrimSpace(*rec.Destination)
	}
	if rec.Origin != nil {
		prefs.Origin = strings.TrimSpace(*rec.Origin)
	}
	if rec.StartDate != nil {
		if d := trip_models.ParseDate(*rec.StartDate); d != nil {
			prefs.StartDate = d
		}
	}
	if rec.EndDate != nil {
		if d := trip_models.ParseDate(*rec.EndDate); d != nil {
			prefs.EndDate = d
		}
	}
	if rec.Budget != nil {
		if b := trip_models.ParseBudget(*rec.Budget); b != trip_models.BudgetUnspecified {
			prefs.Budget = b
		}
	}
	if rec.TravelStyle != nil {
		prefs.Activities = trip_models.NormalizeTags(rec.TravelStyle)
	}
	if rec.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = strings.TrimSpace(*rec.DietaryRestrictions)
	}
	if rec.MobilityConcerns != nil {
		prefs.MobilityConcerns = strings.TrimSpace(*rec.MobilityConcerns)
	}
	if rec.Transportation != nil {
		if t := trip_models.ParseTransportation(*rec.Transportation); t != trip_models.TransportUnspecified {
			prefs.Transportation = t
		}
	}
	if rec.Refinements != nil {
		prefs.Refinements = strings.TrimSpace(*rec.Refinements)
	}
	return prefs
}

// ClarifyingQuestions returns "" when the backend is unavailable; the wizard then skips
// the question step.
func (e *ExtractionService) ClarifyingQuestions(ctx context.Context, prefs trip_models.TripPreferences) string {
	return e.questions(ctx, "clarifying", e.prompts.BuildClarifyingQuestionsPrompt(prefs))
}

func (e *ExtractionService) RefinementQuestions(ctx context.Context, prefs trip_models.TripPreferences) string {
	return e.questions(ctx, "refinement", e.prompts.BuildRefinementQuestionsPrompt(prefs))
}

func (e *ExtractionService) questions(ctx context.Context, kind, prompt string) string {
	text, err := e.backend.Generate(ctx, utils.GenerateRequest{Prompt: prompt})
	if err != nil {
		e.logger.Warn("Couldn't generate questions", zap.String("kind", kind), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
