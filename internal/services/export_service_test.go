package services

import (
	"bytes"
	"errors"
	"testing"

	"travelbuddy/internal/models/response_models"
	"travelbuddy/internal/models/trip_models"
	"travelbuddy/pkg/utils"
)

func resultsState() trip_models.WizardState {
	state := trip_models.NewWizardState("abc-123")
	state.Stage = trip_models.StageResults
	state.Preferences = tokyoPreferences()
	state.Itinerary = &response_models.ItineraryBundle{
		Destination: "New York",
		TripLength:  3,
		Itinerary:   tokyoItinerary,
		Days:        ParseItineraryDays(tokyoItinerary),
		Flights:     NewFlightGenerator(NewRandom(1)).Generate("Seoul", "New York", nil, nil, 2),
		Hotels:      FallbackHotels("New York"),
		CarRentals:  NewCarRentalGenerator(NewRandom(1)).Generate("New York", nil, nil, 1),
	}
	return state
}

func TestExportMarkdown(t *testing.T) {
	file, err := NewExportService("http://localhost:8080/").Markdown(resultsState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.FileName != "New_York_itinerary.md" {
		t.Errorf("unexpected file name %q", file.FileName)
	}
	if string(file.Body) != tokyoItinerary {
		t.Errorf("expected the itinerary text unchanged, got %q", file.Body)
	}
}

func TestExportNotReady(t *testing.T) {
	svc := NewExportService("")

	state := trip_models.NewWizardState("abc")
	if _, err := svc.Markdown(state); !errors.Is(err, utils.ErrItineraryNotReady) {
		t.Errorf("expected ErrItineraryNotReady, got %v", err)
	}

	state.Itinerary = &response_models.ItineraryBundle{ItineraryError: &response_models.BundleError{Code: "BACKEND_UNREACHABLE"}}
	if _, err := svc.PDF(state); !errors.Is(err, utils.ErrItineraryNotReady) {
		t.Errorf("expected ErrItineraryNotReady for a failed generation, got %v", err)
	}
}

func TestExportPDF(t *testing.T) {
	file, err := NewExportService("http://localhost:8080").PDF(resultsState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.FileName != "New_York_itinerary.pdf" || file.ContentType != "application/pdf" {
		t.Errorf("unexpected file %q %q", file.FileName, file.ContentType)
	}
	if !bytes.HasPrefix(file.Body, []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}

func TestExportShare(t *testing.T) {
	svc := NewExportService("https://trips.example.com/")
	if got := svc.ShareURL("abc"); got != "https://trips.example.com/sessions/abc" {
		t.Errorf("unexpected share url %q", got)
	}

	file, err := svc.ShareQR("abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(file.Body, []byte("\x89PNG")) {
		t.Error("expected a PNG image")
	}
}

func TestExportFileName(t *testing.T) {
	tests := map[string]string{
		"Paris":            "Paris_itinerary.md",
		" São Paulo ":      "S_o_Paulo_itinerary.md",
		"../../etc/passwd": "etc_passwd_itinerary.md",
		"":                 "trip_itinerary.md",
	}
	for in, want := range tests {
		if got := exportFileName(in, "md"); got != want {
			t.Errorf("exportFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
