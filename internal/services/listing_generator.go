package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"travelbuddy/internal/models/response_models"
	"travelbuddy/pkg/utils"
)

// Random is the subset of *rand.Rand the generators use.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// lockedRand makes a *rand.Rand safe for the orchestrator's concurrent fetches.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandom(seed int64) Random {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func NewTimeSeededRandom() Random {
	return NewRandom(time.Now().UnixNano())
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func pick[T any](r Random, options []T) T {
	return options[r.Intn(len(options))]
}

// between returns an int in [lo, hi].
func between(r Random, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

var (
	airlines        = []string{"SkyWings", "OceanAir", "Global Express"}
	departureTimes  = []clockTime{{6, 30}, {10, 15}, {14, 45}}
	durationMinutes = []int{0, 30}
)

type clockTime struct {
	hour, minute int
}

func (c clockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

type FlightGenerator struct {
	rnd Random
}

func NewFlightGenerator(rnd Random) *FlightGenerator {
	return &FlightGenerator{rnd: rnd}
}

// Generate builds n flights. Arrival hour is (departure hour + duration hours) mod 24 and
// keeps the departure minutes.
func (g *FlightGenerator) Generate(origin, destination string, departure, ret *time.Time, n int) []response_models.Flight {
	if strings.TrimSpace(origin) == "" {
		origin = "TBD"
	}
	flights := make([]response_models.Flight, 0, n)
	for i := 0; i < n; i++ {
		dep := pick(g.rnd, departureTimes)
		hours := between(g.rnd, 2, 6)
		mins := pick(g.rnd, durationMinutes)
		arr := clockTime{hour: (dep.hour + hours) % 24, minute: dep.minute}

		flights = append(flights, response_models.Flight{
			Airline:       pick(g.rnd, airlines),
			FlightNumber:  fmt.Sprintf("SK%d", between(g.rnd, 100, 999)),
			Departure:     response_models.FlightEndpoint{Airport: origin, Time: dep.String()},
			Arrival:       response_models.FlightEndpoint{Airport: destination, Time: arr.String()},
			DurationHours: hours,
			DurationMins:  mins,
			Duration:      fmt.Sprintf("%dh %dm", hours, mins),
			Price:         between(g.rnd, 200, 700),
			Stops:         between(g.rnd, 0, 1),
			DepartureDate: formatOptionalDate(departure),
			ReturnDate:    formatOptionalDate(ret),
		})
	}
	return flights
}

var (
	rentalCompanies = []string{"Hertz", "Avis"}
	carTypes        = []string{"Economy", "SUV", "Convertible"}
	carCategories   = []string{"Compact", "SUV", "Luxury"}
	carSeats        = []int{4, 5, 7}
	transmissions   = []string{"Automatic", "Manual"}
	carModels       = map[string]string{
		"Economy":     "Ford Focus",
		"SUV":         "Toyota RAV4",
		"Convertible": "Ford Mustang Convertible",
	}
)

type CarRentalGenerator struct {
	rnd Random
}

func NewCarRentalGenerator(rnd Random) *CarRentalGenerator {
	return &CarRentalGenerator{rnd: rnd}
}

// Generate builds n rentals; TotalPrice is PricePerDay times the billable days.
func (g *CarRentalGenerator) Generate(location string, pickup, dropoff *time.Time, n int) []response_models.CarRental {
	days := utils.RentalDays(pickup, dropoff)
	rentals := make([]response_models.CarRental, 0, n)
	for i := 0; i < n; i++ {
		carType := pick(g.rnd, carTypes)
		transmission := pick(g.rnd, transmissions)
		perDay := between(g.rnd, 30, 80)

		rentals = append(rentals, response_models.CarRental{
			Company:        pick(g.rnd, rentalCompanies),
			CarType:        carType,
			Model:          carModels[carType],
			Category:       pick(g.rnd, carCategories),
			Seats:          pick(g.rnd, carSeats),
			Transmission:   transmission,
			PricePerDay:    perDay,
			TotalPrice:     perDay * days,
			PickupLocation: fmt.Sprintf("%s Downtown", location),
			Features:       []string{transmission, "GPS"},
			Description:    fmt.Sprintf("Comfortable and reliable %s car for city and highway driving.", carType),
		})
	}
	return rentals
}

const fallbackHotelCount = 3

var knownHotelNames = map[string][]string{
	"paris":    {"Grand Hôtel de Paris", "Le Marais Suites", "Eiffel View Residence"},
	"tokyo":    {"Shinjuku Plaza Hotel", "Tokyo Bay Resort", "Imperial Garden Inn"},
	"new york": {"Manhattan Skyline Hotel", "Broadway Comfort Inn", "Central Park Lodge"},
	"dubai":    {"Palm Luxury Resort", "Desert Oasis Hotel", "Marina View Suites"},
}

var genericHotelNames = []string{"Luxury Hotel", "City Center Inn", "Plaza Resort"}

var hotelDescriptions = []string{
	"Experience the heart of %s at this centrally located hotel with modern amenities and exceptional service.",
	"Situated in the most vibrant district of %s, this hotel offers comfort and convenience for all travelers.",
	"Luxury accommodations with stunning views of %s's most iconic landmarks.",
}

// FallbackHotels is deterministic: the same destination always yields the same three entries.
func FallbackHotels(destination string) []response_models.Hotel {
	names, ok := knownHotelNames[strings.ToLower(strings.TrimSpace(destination))]
	if !ok {
		names = genericHotelNames
	}
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(destination)), " ", "-")

	hotels := make([]response_models.Hotel, 0, fallbackHotelCount)
	for i := 0; i < fallbackHotelCount && i < len(names); i++ {
		hotels = append(hotels, response_models.Hotel{
			Name:        names[i],
			Description: fmt.Sprintf(hotelDescriptions[i%len(hotelDescriptions)], destination),
			URL:         fmt.Sprintf("https://example.com/hotels/%s/%d", slug, i+1),
		})
	}
	return hotels
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
