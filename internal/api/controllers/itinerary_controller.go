package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbuddy/internal/models/request_models"
	"travelbuddy/internal/services"
	"travelbuddy/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	logger           *zap.Logger
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface, logger *zap.Logger) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		logger:           logger,
	}
}

// POST /itineraries
func (i *ItineraryController) CreateItineraryHandler(c *gin.Context) {
	var req request_models.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "destination, start_date and end_date are required")
		return
	}
	prefs := req.ToPreferences()
	if prefs.StartDate == nil || prefs.EndDate == nil {
		utils.RespondError(c, http.StatusBadRequest, "Dates must be formatted as YYYY-MM-DD")
		return
	}

	bundle, err := i.itineraryService.Run(c.Request.Context(), prefs)
	if err != nil {
		utils.HandleServiceError(c, i.logger, err)
		return
	}
	utils.RespondSuccess(c, bundle, "Itinerary generated")
}
