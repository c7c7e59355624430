package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"travelbuddy/internal/models/response_models"
	"travelbuddy/internal/models/trip_models"
	"travelbuddy/pkg/utils"
)

type ExportedFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

type ExportServiceInterface interface {
	Markdown(state trip_models.WizardState) (ExportedFile, error)
	PDF(state trip_models.WizardState) (ExportedFile, error)
	ShareQR(sessionID string) (ExportedFile, error)
	ShareURL(sessionID string) string
}

type ExportService struct {
	publicBaseURL string
}

func NewExportService(publicBaseURL string) ExportServiceInterface {
	return &ExportService{publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (e *ExportService) ShareURL(sessionID string) string {
	return fmt.Sprintf("%s/sessions/%s", e.publicBaseURL, sessionID)
}

// Markdown returns the itinerary text exactly as generated.
func (e *ExportService) Markdown(state trip_models.WizardState) (ExportedFile, error) {
	bundle, err := readyItinerary(state)
	if err != nil {
		return ExportedFile{}, err
	}
	return ExportedFile{
		FileName:    exportFileName(bundle.Destination, "md"),
		ContentType: "text/markdown; charset=utf-8",
		Body:        []byte(bundle.Itinerary),
	}, nil
}

func (e *ExportService) ShareQR(sessionID string) (ExportedFile, error) {
	png, err := qrcode.Encode(e.ShareURL(sessionID), qrcode.Medium, 256)
	if err != nil {
		return ExportedFile{}, fmt.Errorf("encode share code: %w", err)
	}
	return ExportedFile{
		FileName:    "share.png",
		ContentType: "image/png",
		Body:        png,
	}, nil
}

func (e *ExportService) PDF(state trip_models.WizardState) (ExportedFile, error) {
	bundle, err := readyItinerary(state)
	if err != nil {
		return ExportedFile{}, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("%s itinerary", bundle.Destination)), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Your %s Itinerary", bundle.Destination)))
	pdf.Ln(12)

	prefs := state.Preferences
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Dates: %s to %s (%d days)",
		utils.FormatDisplayDate(prefs.StartDate), utils.FormatDisplayDate(prefs.EndDate), bundle.TripLength)))
	pdf.Ln(6)
	if prefs.Budget != trip_models.BudgetUnspecified {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Budget: %s", prefs.Budget)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	days := bundle.Days
	if len(days) == 0 {
		days = ParseItineraryDays(bundle.Itinerary)
	}
	for _, day := range days {
		pdf.SetFont("Arial", "B", 14)
		title := fmt.Sprintf("Day %d", day.Day)
		if day.Title != "" {
			title += ": " + day.Title
		}
		pdf.MultiCell(0, 8, tr(stripMarkdown(title)), "", "L", false)
		for _, s := range day.Sections {
			if s.TimeOfDay != "" {
				pdf.SetFont("Arial", "B", 11)
				pdf.MultiCell(0, 6, tr(s.TimeOfDay), "", "L", false)
			}
			pdf.SetFont("Arial", "", 11)
			if s.Text != "" {
				pdf.MultiCell(0, 5, tr(stripMarkdown(s.Text)), "", "L", false)
			}
			for _, a := range s.Activities {
				pdf.MultiCell(0, 5, tr("  - "+stripMarkdown(a)), "", "L", false)
			}
		}
		pdf.Ln(3)
	}

	writeListings(pdf, tr, bundle)

	// Share code in the bottom right corner of the last page.
	if png, err := qrcode.Encode(e.ShareURL(state.SessionID), qrcode.Medium, 256); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("share", opts, bytes.NewReader(png))
		pdf.ImageOptions("share", 160, 250, 35, 35, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return ExportedFile{}, fmt.Errorf("render pdf: %w", err)
	}
	return ExportedFile{
		FileName:    exportFileName(bundle.Destination, "pdf"),
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}

func writeListings(pdf *gofpdf.Fpdf, tr func(string) string, bundle response_models.ItineraryBundle) {
	heading := func(s string) {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, s)
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
	}

	if len(bundle.Flights) > 0 {
		heading("Flights")
		for _, f := range bundle.Flights {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s %s  %s %s -> %s %s  %s  $%d",
				f.Airline, f.FlightNumber,
				f.Departure.Airport, f.Departure.Time,
				f.Arrival.Airport, f.Arrival.Time,
				f.Duration, f.Price)), "", "L", false)
		}
	}
	if len(bundle.Hotels) > 0 {
		heading("Hotels")
		for _, h := range bundle.Hotels {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", h.Name, h.Description)), "", "L", false)
		}
	}
	if len(bundle.CarRentals) > 0 {
		heading("Car rentals")
		for _, c := range bundle.CarRentals {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s %s (%s)  $%d/day, $%d total",
				c.Company, c.Model, c.CarType, c.PricePerDay, c.TotalPrice)), "", "L", false)
		}
	}
}

func readyItinerary(state trip_models.WizardState) (response_models.ItineraryBundle, error) {
	if state.Itinerary == nil || !state.Itinerary.HasItinerary() {
		return response_models.ItineraryBundle{}, utils.ErrItineraryNotReady
	}
	return *state.Itinerary, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func exportFileName(destination, ext string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(destination), "_"), "_")
	if name == "" {
		name = "trip"
	}
	return fmt.Sprintf("%s_itinerary.%s", name, ext)
}

func stripMarkdown(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
