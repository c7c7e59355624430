package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"travelbuddy/internal/models/response_models"
	"travelbuddy/pkg/scraper"
	"travelbuddy/pkg/utils"
)

// Sourced is the result of a travel-data fetch. It never carries a fatal error: Err and
// Advisory only explain why Items are synthetic.
type Sourced[T any] struct {
	Items    []T
	Live     bool
	Advisory string
	Err      error
}

// LiveAttempt is the outcome of a live lookup waiting for its fallback.
type LiveAttempt[T any] struct {
	source  string
	items   []T
	err     error
	cause   error
	skipped bool
}

// TryLive runs the live lookup, turning panics into errors. A nil lookup means the
// source has no live path and the fallback is used without an advisory.
func TryLive[T any](ctx context.Context, source string, live func(ctx context.Context) ([]T, error)) (attempt LiveAttempt[T]) {
	attempt.source = source
	if live == nil {
		attempt.skipped = true
		return attempt
	}
	defer func() {
		if r := recover(); r != nil {
			attempt.items = nil
			attempt.cause = fmt.Errorf("panic: %v", r)
			attempt.err = fmt.Errorf("%w: %s: %w", utils.ErrLiveFetch, source, attempt.cause)
		}
	}()

	items, err := live(ctx)
	if err != nil {
		attempt.cause = err
		attempt.err = fmt.Errorf("%w: %s: %w", utils.ErrLiveFetch, source, err)
		return attempt
	}
	attempt.items = items
	return attempt
}

func (a LiveAttempt[T]) OrElse(synthesize func() []T) Sourced[T] {
	switch {
	case a.skipped:
		return Sourced[T]{Items: synthesize()}
	case a.err != nil:
		return Sourced[T]{
			Items:    synthesize(),
			Err:      a.err,
			Advisory: fmt.Sprintf("%s data couldn't be fetched live: %v. Using simulated data instead.", capitalize(a.source), a.cause),
		}
	case len(a.items) == 0:
		return Sourced[T]{
			Items:    synthesize(),
			Err:      fmt.Errorf("%w: %s: no results", utils.ErrLiveFetch, a.source),
			Advisory: fmt.Sprintf("No live %s data found. Using simulated data instead.", a.source),
		}
	default:
		return Sourced[T]{Items: a.items, Live: true}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type TravelQuery struct {
	Origin      string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
}

type TravelDataServiceInterface interface {
	FetchFlights(ctx context.Context, q TravelQuery) Sourced[response_models.Flight]
	FetchHotels(ctx context.Context, q TravelQuery) Sourced[response_models.Hotel]
	FetchCarRentals(ctx context.Context, q TravelQuery) Sourced[response_models.CarRental]
}

const defaultFetchTimeout = 10 * time.Second

type TravelDataConfig struct {
	HotelSite        string
	MaxSearchResults int
	FetchTimeout     time.Duration
	FlightResults    int
	CarRentalResults int
}

type TravelDataService struct {
	searcher scraper.WebSearcher
	fetcher  scraper.PageFetcher
	flights  *FlightGenerator
	cars     *CarRentalGenerator
	cfg      TravelDataConfig
	logger   *zap.Logger
}

func NewTravelDataService(
	searcher scraper.WebSearcher,
	fetcher scraper.PageFetcher,
	rnd Random,
	cfg TravelDataConfig,
	logger *zap.Logger,
) *TravelDataService {
	if cfg.FlightResults <= 0 {
		cfg.FlightResults = 3
	}
	if cfg.CarRentalResults <= 0 {
		cfg.CarRentalResults = 2
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = 5
	}
	if cfg.HotelSite == "" {
		cfg.HotelSite = "booking.com"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	return &TravelDataService{
		searcher: searcher,
		fetcher:  fetcher,
		flights:  NewFlightGenerator(rnd),
		cars:     NewCarRentalGenerator(rnd),
		cfg:      cfg,
		logger:   logger,
	}
}

// FetchFlights has no live source.
func (t *TravelDataService) FetchFlights(ctx context.Context, q TravelQuery) Sourced[response_models.Flight] {
	return TryLive[response_models.Flight](ctx, "flight", nil).OrElse(func() []response_models.Flight {
		return t.flights.Generate(q.Origin, q.Destination, q.StartDate, q.EndDate, t.cfg.FlightResults)
	})
}

func (t *TravelDataService) FetchCarRentals(ctx context.Context, q TravelQuery) Sourced[response_models.CarRental] {
	return TryLive[response_models.CarRental](ctx, "car rental", nil).OrElse(func() []response_models.CarRental {
		return t.cars.Generate(q.Destination, q.StartDate, q.EndDate, t.cfg.CarRentalResults)
	})
}

func (t *TravelDataService) FetchHotels(ctx context.Context, q TravelQuery) Sourced[response_models.Hotel] {
	result := TryLive(ctx, "hotel", func(ctx context.Context) ([]response_models.Hotel, error) {
		return t.scrapeHotels(ctx, q.Destination)
	}).OrElse(func() []response_models.Hotel {
		return FallbackHotels(q.Destination)
	})

	if result.Err != nil {
		t.logger.Info("Hotel lookup fell back to simulated data",
			zap.String("destination", q.Destination),
			zap.Error(result.Err))
	}
	return result
}

func (t *TravelDataService) scrapeHotels(ctx context.Context, destination string) ([]response_models.Hotel, error) {
	if t.searcher == nil || t.fetcher == nil {
		return nil, errors.New("no hotel scraper configured")
	}

	links, err := t.searchHotelLinks(ctx, destination)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}

	// Indexed writes keep search order without locking.
	pages := make([]*scraper.PageDetails, len(links))
	var g errgroup.Group
	g.SetLimit(3)
	for i, link := range links {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, t.cfg.FetchTimeout)
			defer cancel()

			details, err := t.fetcher.Fetch(fctx, link)
			if err != nil {
				t.logger.Debug("Hotel page fetch failed", zap.String("url", link), zap.Error(err))
				return nil
			}
			pages[i] = &details
			return nil
		})
	}
	_ = g.Wait()

	var hotels []response_models.Hotel
	for _, p := range pages {
		if p == nil {
			continue
		}
		hotels = append(hotels, response_models.Hotel{Name: p.Title, Description: p.Description, URL: p.URL})
	}
	if len(hotels) == 0 {
		return nil, fmt.Errorf("all %d hotel pages failed to load", len(links))
	}
	return hotels, nil
}

func (t *TravelDataService) searchHotelLinks(ctx context.Context, destination string) ([]string, error) {
	sctx, cancel := context.WithTimeout(ctx, t.cfg.FetchTimeout)
	defer cancel()

	query := fmt.Sprintf("hotels in %s site:%s", destination, t.cfg.HotelSite)
	results, err := t.searcher.Search(sctx, query, t.cfg.MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("hotel search: %w", err)
	}

	var links []string
	for _, r := range results {
		if strings.Contains(r, t.cfg.HotelSite) {
			links = append(links, r)
		}
	}
	return links, nil
}
