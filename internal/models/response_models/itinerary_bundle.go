package response_models

import "time"

type FlightEndpoint struct {
	Airport string `json:"airport"`
	Time    string `json:"time"`
}

type Flight struct {
	Airline       string         `json:"airline"`
	FlightNumber  string         `json:"flight_number"`
	Departure     FlightEndpoint `json:"departure"`
	Arrival       FlightEndpoint `json:"arrival"`
	DurationHours int            `json:"duration_hours"`
	DurationMins  int            `json:"duration_mins"`
	Duration      string         `json:"duration"`
	Price         int            `json:"price"`
	Stops         int            `json:"stops"`
	DepartureDate string         `json:"departure_date,omitempty"`
	ReturnDate    string         `json:"return_date,omitempty"`
}

type Hotel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type CarRental struct {
	Company        string   `json:"company"`
	CarType        string   `json:"car_type"`
	Model          string   `json:"model"`
	Category       string   `json:"category"`
	Seats          int      `json:"seats"`
	Transmission   string   `json:"transmission"`
	PricePerDay    int      `json:"price_per_day"`
	TotalPrice     int      `json:"total_price"`
	PickupLocation string   `json:"pickup_location"`
	Features       []string `json:"features"`
	Description    string   `json:"description"`
}

type ItinerarySection struct {
	TimeOfDay  string   `json:"time_of_day,omitempty"` // Morning, Afternoon, Evening; empty for preamble
	Activities []string `json:"activities"`
	Text       string   `json:"text"`
}

type ItineraryDay struct {
	Day      int                `json:"day"`
	Title    string             `json:"title"`
	Sections []ItinerarySection `json:"sections"`
}

type MapPin struct {
	Label     string  `json:"label"`
	Kind      string  `json:"kind"` // destination, hotel, attraction
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BundleError marks an itinerary that could not be generated. Listings in the same
// bundle are still valid.
type BundleError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ItineraryBundle struct {
	Destination    string         `json:"destination"`
	TripLength     int            `json:"trip_length"`
	Itinerary      string         `json:"itinerary"`
	ItineraryError *BundleError   `json:"itinerary_error,omitempty"`
	Days           []ItineraryDay `json:"days,omitempty"`
	Flights        []Flight       `json:"flights"`
	Hotels         []Hotel        `json:"hotels"`
	CarRentals     []CarRental    `json:"car_rentals"`
	MapPins        []MapPin       `json:"map_pins,omitempty"`
	Advisories     []string       `json:"advisories,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

func (b ItineraryBundle) HasItinerary() bool {
	return b.ItineraryError == nil && b.Itinerary != ""
}
