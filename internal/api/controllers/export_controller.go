package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelbuddy/internal/services"
	"travelbuddy/pkg/utils"
)

type ExportController struct {
	wizardService services.WizardServiceInterface
	exportService services.ExportServiceInterface
	logger        *zap.Logger
}

func NewExportController(
	wizardService services.WizardServiceInterface,
	exportService services.ExportServiceInterface,
	logger *zap.Logger,
) *ExportController {
	return &ExportController{
		wizardService: wizardService,
		exportService: exportService,
		logger:        logger,
	}
}

// GET /sessions/:id/export/markdown
func (e *ExportController) MarkdownHandler(c *gin.Context) {
	state, err := e.wizardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, e.logger, err)
		return
	}
	file, err := e.exportService.Markdown(state)
	if err != nil {
		utils.HandleServiceError(c, e.logger, err)
		return
	}
	sendFile(c, file, true)
}

// GET /sessions/:id/export/pdf
func (e *ExportController) PDFHandler(c *gin.Context) {
	state, err := e.wizardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, e.logger, err)
		return
	}
	file, err := e.exportService.PDF(state)
	if err != nil {
		utils.HandleServiceError(c, e.logger, err)
		return
	}
	sendFile(c, file, true)
}

// GET /sessions/:id/share.png
func (e *ExportController) ShareQRHandler(c *gin.Context) {
	state, err := e.wizardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, e.logger, err)
		return
	}
	file, err := e.exportService.ShareQR(state.SessionID)
	if err != nil {
		utils.HandleServiceError(c, e.logger, err)
		return
	}
	sendFile(c, file, false)
}

func sendFile(c *gin.Context, file services.ExportedFile, attachment bool) {
	if attachment {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	}
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
