package services

import (
	"strings"

	"travelbuddy/internal/models/response_models"
)

type GeoPoint struct {
	Lat float64
	Lng float64
}

var destinationCoordinates = map[string]GeoPoint{
	"paris":    {Lat: 48.8566, Lng: 2.3522},
	"tokyo":    {Lat: 35.6762, Lng: 139.6503},
	"new york": {Lat: 40.7128, Lng: -74.0060},
	"dubai":    {Lat: 25.2048, Lng: 55.2708},
}

var attractionKinds = []string{"Museum", "Restaurant", "Park", "Shopping"}

const (
	maxHotelPins        = 3
	hotelPinSpread      = 0.02
	attractionPinSpread = 0.03
)

const (
	PinKindDestination = "destination"
	PinKindHotel       = "hotel"
	PinKindAttraction  = "attraction"
)

type MapServiceInterface interface {
	Pins(destination string, hotels []response_models.Hotel) []response_models.MapPin
}

// MapService places approximate pins around a known city center. Hotel and attraction
// positions are simulated, so they only jitter around the center.
type MapService struct {
	rnd Random
}

func NewMapService(rnd Random) MapServiceInterface {
	return &MapService{rnd: rnd}
}

func LookupCoordinates(destination string) (GeoPoint, bool) {
	p, ok := destinationCoordinates[strings.ToLower(strings.TrimSpace(destination))]
	return p, ok
}

// Pins returns nil for a destination without known coordinates.
func (m *MapService) Pins(destination string, hotels []response_models.Hotel) []response_models.MapPin {
	center, ok := LookupCoordinates(destination)
	if !ok {
		return nil
	}

	pins := []response_models.MapPin{{
		Label:     strings.TrimSpace(destination),
		Kind:      PinKindDestination,
		Latitude:  center.Lat,
		Longitude: center.Lng,
	}}

	for i, h := range hotels {
		if i == maxHotelPins {
			break
		}
		pins = append(pins, m.near(center, h.Name, PinKindHotel, hotelPinSpread))
	}
	for _, a := range attractionKinds {
		pins = append(pins, m.near(center, a, PinKindAttraction, attractionPinSpread))
	}
	return pins
}

// near offsets the center by up to spread/2 on each axis.
func (m *MapService) near(center GeoPoint, label, kind string, spread float64) response_models.MapPin {
	return response_models.MapPin{
		Label:     label,
		Kind:      kind,
		Latitude:  center.Lat + (m.rnd.Float64()-0.5)*spread,
		Longitude: center.Lng + (m.rnd.Float64()-0.5)*spread,
	}
}
