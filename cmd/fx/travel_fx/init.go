package travel_fx

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"travelbuddy/internal/infra"
	"travelbuddy/internal/services"
	"travelbuddy/pkg/scraper"
)

var Module = fx.Provide(
	ProvideRandom,
	ProvideTravelDataService,
	services.NewMapService,
)

func ProvideRandom() services.Random {
	return services.NewTimeSeededRandom()
}

func ProvideTravelDataService(cfg infra.Config, rnd services.Random, logger *zap.Logger) services.TravelDataServiceInterface {
	httpClient := &http.Client{Timeout: cfg.ScraperTimeout}
	return services.NewTravelDataService(
		scraper.NewDuckDuckGoSearcher(cfg.SearchEndpoint, httpClient),
		scraper.NewHTTPPageFetcher(httpClient),
		rnd,
		services.TravelDataConfig{
			HotelSite:        cfg.HotelSearchSite,
			MaxSearchResults: cfg.ScraperMaxResults,
			FetchTimeout:     cfg.ScraperTimeout,
			FlightResults:    cfg.FlightResults,
			CarRentalResults: cfg.CarRentalResults,
		},
		logger,
	)
}
