package controllers_fx

import (
	"go.uber.org/fx"

	"travelbuddy/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewWizardController),
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewExportController),
	fx.Provide(controllers.NewHealthController))
