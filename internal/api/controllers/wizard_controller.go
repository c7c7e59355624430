package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbuddy/internal/models/request_models"
	"travelbuddy/internal/models/trip_models"
	"travelbuddy/internal/services"
	"travelbuddy/pkg/utils"
)

type WizardController struct {
	wizardService services.WizardServiceInterface
	logger        *zap.Logger
}

func NewWizardController(wizardService services.WizardServiceInterface, logger *zap.Logger) *WizardController {
	return &WizardController{
		wizardService: wizardService,
		logger:        logger,
	}
}

// POST /sessions
func (w *WizardController) StartSessionHandler(c *gin.Context) {
	state := w.wizardService.Start(c.Request.Context())
	utils.RespondSuccess(c, state, "Session started")
}

// GET /sessions/:id
func (w *WizardController) GetSessionHandler(c *gin.Context) {
	state, err := w.wizardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Session retrieved")
}

// DELETE /sessions/:id
func (w *WizardController) StartOverHandler(c *gin.Context) {
	state, err := w.wizardService.StartOver(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Session reset")
}

// POST /sessions/:id/trip-details
func (w *WizardController) TripDetailsHandler(c *gin.Context) {
	var req request_models.TripDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "destination, start_date and end_date are required")
		return
	}
	start, end := trip_models.ParseDate(req.StartDate), trip_models.ParseDate(req.EndDate)
	if start == nil || end == nil {
		utils.RespondError(c, http.StatusBadRequest, "Dates must be formatted as YYYY-MM-DD")
		return
	}

	w.apply(c, trip_models.SubmitTripDetails{
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   start,
		EndDate:     end,
		Budget:      trip_models.ParseBudget(req.Budget),
	}, "Trip details saved")
}

// POST /sessions/:id/preferences
func (w *WizardController) PreferencesHandler(c *gin.Context) {
	var req request_models.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	w.apply(c, trip_models.SubmitPreferences{
		Activities:          req.Activities,
		Transportation:      trip_models.ParseTransportation(req.Transportation),
		DietaryRestrictions: req.DietaryRestrictions,
		MobilityConcerns:    req.MobilityConcerns,
	}, "Itinerary generated")
}

// POST /sessions/:id/natural-language
func (w *WizardController) NaturalLanguageHandler(c *gin.Context) {
	var req request_models.NaturalLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "text is required")
		return
	}
	state, err := w.wizardService.SubmitNaturalLanguage(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Trip description processed")
}

// POST /sessions/:id/clarify
func (w *WizardController) ClarifyHandler(c *gin.Context) {
	var req request_models.ClarificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "text is required")
		return
	}
	state, err := w.wizardService.SubmitClarification(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Clarification processed")
}

// POST /sessions/:id/refine
// An empty body or empty refinements skips the step.
func (w *WizardController) RefineHandler(c *gin.Context) {
	var req request_models.RefinementRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	var event trip_models.Event = trip_models.SubmitRefinements{Refinements: req.Refinements}
	if req.Refinements == "" {
		event = trip_models.SkipRefinement{}
	}
	w.apply(c, event, "Itinerary generated")
}

// POST /sessions/:id/back
func (w *WizardController) BackHandler(c *gin.Context) {
	w.apply(c, trip_models.Back{}, "Moved back")
}

// POST /sessions/:id/generate
func (w *WizardController) GenerateHandler(c *gin.Context) {
	state, err := w.wizardService.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, state, "Itinerary generated")
}

func (w *WizardController) apply(c *gin.Context, event trip_models.Event, message string) {
	state, err := w.wizardService.Apply(c.Request.Context(), c.Param("id"), event)
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, state, message)
}
