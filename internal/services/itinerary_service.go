package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"travelbuddy/internal/models/response_models"
	"travelbuddy/internal/models/trip_models"
	"travelbuddy/pkg/utils"
)

type ItineraryServiceInterface interface {
	Run(ctx context.Context, prefs trip_models.TripPreferences) (response_models.ItineraryBundle, error)
}

// ItineraryService produces one bundle per request: the generated itinerary plus flight,
// hotel and car rental listings gathered alongside it.
type ItineraryService struct {
	prompts PromptServiceInterface
	backend utils.BackendClientInterface
	travel  TravelDataServiceInterface
	maps    MapServiceInterface
	logger  *zap.Logger
	now     func() time.Time
}

func NewItineraryService(
	prompts PromptServiceInterface,
	backend utils.BackendClientInterface,
	travel TravelDataServiceInterface,
	maps MapServiceInterface,
	logger *zap.Logger,
) ItineraryServiceInterface {
	return &ItineraryService{
		prompts: prompts,
		backend: backend,
		travel:  travel,
		maps:    maps,
		logger:  logger,
		now:     time.Now,
	}
}

// Run only fails for input it cannot work with. Backend and live-data failures are
// folded into the bundle so the caller can still show the listings.
func (s *ItineraryService) Run(ctx context.Context, prefs trip_models.TripPreferences) (response_models.ItineraryBundle, error) {
	destination := strings.TrimSpace(prefs.Destination)
	if destination == "" {
		return response_models.ItineraryBundle{}, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}

	tripLength, notice := prefs.TripLength()
	prompt := s.prompts.BuildItineraryPrompt(prefs)
	query := TravelQuery{
		Origin:      prefs.Origin,
		Destination: destination,
		StartDate:   prefs.StartDate,
		EndDate:     prefs.EndDate,
	}

	var (
		itinerary  string
		genErr     error
		flights    Sourced[response_models.Flight]
		hotels     Sourced[response_models.Hotel]
		carRentals Sourced[response_models.CarRental]
	)

	// Each task writes only its own variables; Wait is the barrier.
	var g errgroup.Group
	g.Go(guard("itinerary", func() error {
		itinerary, genErr = s.backend.Generate(ctx, utils.GenerateRequest{Prompt: prompt})
		return nil
	}, func(err error) {
		genErr = err
	}))
	g.Go(guard("flights", func() error {
		flights = s.travel.FetchFlights(ctx, query)
		return nil
	}, func(err error) {
		flights = recovered("flight", err, NewFlightGenerator(NewTimeSeededRandom()).
			Generate(query.Origin, destination, query.StartDate, query.EndDate, fallbackFlightCount))
	}))
	g.Go(guard("hotels", func() error {
		hotels = s.travel.FetchHotels(ctx, query)
		return nil
	}, func(err error) {
		hotels = recovered("hotel", err, FallbackHotels(destination))
	}))
	g.Go(guard("car rentals", func() error {
		carRentals = s.travel.FetchCarRentals(ctx, query)
		return nil
	}, func(err error) {
		carRentals = recovered("car rental", err, NewCarRentalGenerator(NewTimeSeededRandom()).
			Generate(destination, query.StartDate, query.EndDate, fallbackCarRentalCount))
	}))
	_ = g.Wait()

	bundle := response_models.ItineraryBundle{
		Destination: destination,
		TripLength:  tripLength,
		Flights:     flights.Items,
		Hotels:      hotels.Items,
		CarRentals:  carRentals.Items,
		GeneratedAt: s.now().UTC(),
	}

	if notice != "" {
		bundle.Advisories = append(bundle.Advisories, notice)
	}
	for _, a := range []string{flights.Advisory, hotels.Advisory, carRentals.Advisory} {
		if a != "" {
			bundle.Advisories = append(bundle.Advisories, a)
		}
	}

	if genErr != nil {
		s.logger.Error("Itinerary generation failed",
			zap.String("destination", destination),
			zap.String("provider", s.backend.Provider()),
			zap.Error(genErr))
		bundle.ItineraryError = &response_models.BundleError{
			Code:    utils.ErrorCode(genErr),
			Message: genErr.Error(),
		}
	} else {
		bundle.Itinerary = itinerary
		bundle.Days = ParseItineraryDays(itinerary)
	}

	if s.maps != nil {
		bundle.MapPins = s.maps.Pins(destination, bundle.Hotels)
	}

	s.logger.Info("Itinerary bundle ready",
		zap.String("destination", destination),
		zap.Int("trip_length", tripLength),
		zap.Bool("has_itinerary", bundle.HasItinerary()),
		zap.Int("flights", len(bundle.Flights)),
		zap.Int("hotels", len(bundle.Hotels)),
		zap.Int("car_rentals", len(bundle.CarRentals)))
	return bundle, nil
}

const (
	fallbackFlightCount    = 3
	fallbackCarRentalCount = 2
)

// guard turns a panic in a fan-out task into an error handed to onPanic, which must
// leave the task's result usable.
func guard(task string, fn func() error, onPanic func(error)) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				onPanic(fmt.Errorf("%s task panicked: %v", task, r))
			}
		}()
		return fn()
	}
}

func recovered[T any](source string, err error, items []T) Sourced[T] {
	return Sourced[T]{
		Items:    items,
		Err:      fmt.Errorf("%w: %w", utils.ErrLiveFetch, err),
		Advisory: fmt.Sprintf("%s data couldn't be loaded: %v. Using simulated data instead.", capitalize(source), err),
	}
}
