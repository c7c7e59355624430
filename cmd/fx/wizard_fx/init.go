package wizard_fx

import (
	"go.uber.org/fx"

	"travelbuddy/internal/infra"
	"travelbuddy/internal/services"
)

var Module = fx.Provide(
	services.NewItineraryService,
	services.NewWizardService,
	ProvideExportService,
)

func ProvideExportService(cfg infra.Config) services.ExportServiceInterface {
	return services.NewExportService(cfg.PublicBaseURL)
}
