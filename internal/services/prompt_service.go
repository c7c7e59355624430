package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"travelbuddy/internal/models/trip_models"
)

type PromptTemplate string

const (
	PromptTemplateStandard     PromptTemplate = "standard"
	PromptTemplateConcise      PromptTemplate = "concise"
	PromptTemplateProfessional PromptTemplate = "professional"
)

// Trips longer than this many days get the condensed per-day form and a length instruction.
const LongTripThreshold = 3

const (
	placeholderGeneral      = "General"
	placeholderNotSpecified = "Not specified"
)

type PromptServiceInterface interface {
	Template() PromptTemplate
	BuildItineraryPrompt(prefs trip_models.TripPreferences) string
	BuildExtractionPrompt(freeText string) string
	BuildClarificationPrompt(prefs trip_models.TripPreferences, clarification string) string
	BuildClarifyingQuestionsPrompt(prefs trip_models.TripPreferences) string
	BuildRefinementQuestionsPrompt(prefs trip_models.TripPreferences) string
}

type itineraryRenderer func(f promptFields) string

var itineraryTemplates = map[PromptTemplate]itineraryRenderer{
	PromptTemplateStandard:     renderStandardItinerary,
	PromptTemplateConcise:      renderConciseItinerary,
	PromptTemplateProfessional: renderProfessionalItinerary,
}

func AvailablePromptTemplates() []PromptTemplate {
	out := make([]PromptTemplate, 0, len(itineraryTemplates))
	for t := range itineraryTemplates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PromptService builds every prompt sent to the backend. It holds no state beyond the
// selected itinerary template, so all methods are pure.
type PromptService struct {
	template PromptTemplate
	render   itineraryRenderer
}

func NewPromptService(template string) (*PromptService, error) {
	t := PromptTemplate(strings.ToLower(strings.TrimSpace(template)))
	if t == "" {
		t = PromptTemplateStandard
	}
	render, ok := itineraryTemplates[t]
	if !ok {
		return nil, fmt.Errorf("unknown prompt template %q (available: %v)", template, AvailablePromptTemplates())
	}
	return &PromptService{template: t, render: render}, nil
}

func (p *PromptService) Template() PromptTemplate {
	return p.template
}

func (p *PromptService) BuildItineraryPrompt(prefs trip_models.TripPreferences) string {
	return p.render(newPromptFields(prefs))
}

type promptFields struct {
	Origin         string
	Destination    string
	TripLength     int
	StartDate      string
	EndDate        string
	Budget         string
	Transportation string
	Interests      string
	prefs          trip_models.TripPreferences
}

func newPromptFields(prefs trip_models.TripPreferences) promptFields {
	length, _ := prefs.TripLength()
	interests := placeholderGeneral
	if tags := trip_models.NormalizeTags(prefs.Activities); len(tags) > 0 {
		interests = strings.Join(tags, ", ")
	}
	return promptFields{
		Origin:         orPlaceholder(prefs.Origin),
		Destination:    orPlaceholder(prefs.Destination),
		TripLength:     length,
		StartDate:      orPlaceholder(trip_models.FormatDate(prefs.StartDate)),
		EndDate:        orPlaceholder(trip_models.FormatDate(prefs.EndDate)),
		Budget:         orPlaceholder(string(prefs.Budget)),
		Transportation: orPlaceholder(string(prefs.Transportation)),
		Interests:      interests,
		prefs:          prefs,
	}
}

func (f promptFields) isLongTrip() bool {
	return f.TripLength > LongTripThreshold
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholderNotSpecified
	}
	return s
}

func writeContextHeader(b *strings.Builder, f promptFields) {
	fmt.Fprintf(b, "Origin: %s\n", f.Origin)
	fmt.Fprintf(b, "Destination: %s\n", f.Destination)
	fmt.Fprintf(b, "Trip Duration: %d days\n", f.TripLength)
	fmt.Fprintf(b, "Dates: %s to %s\n", f.StartDate, f.EndDate)
	fmt.Fprintf(b, "Budget: %s\n", f.Budget)
	fmt.Fprintf(b, "Preferred Transportation: %s\n", f.Transportation)
	fmt.Fprintf(b, "Interests: %s\n", f.Interests)
	if f.prefs.DietaryRestrictions != "" {
		fmt.Fprintf(b, "Dietary Restrictions: %s\n", f.prefs.DietaryRestrictions)
	}
	if f.prefs.MobilityConcerns != "" {
		fmt.Fprintf(b, "Mobility Concerns: %s\n", f.prefs.MobilityConcerns)
	}
	if f.prefs.Refinements != "" {
		fmt.Fprintf(b, "Additional Requests: %s\n", f.prefs.Refinements)
	}
}

func writeLengthDiscipline(b *strings.Builder, f promptFields) {
	if !f.isLongTrip() {
		return
	}
	fmt.Fprintf(b, "\nThis is a %d-day trip. Keep the answer readable: summarize similar days together "+
		"instead of repeating the full structure for every day.\n", f.TripLength)
}

const fullDayInstructions = `2. For each day, provide:
   - Day heading (e.g., Day 1: Arrival and Explore Downtown)
   - Morning activity (with timing)
   - Lunch suggestion (restaurant or local food)
   - Afternoon activity
   - Dinner suggestion
   - Transportation tip (if relevant)
   - Bonus: local tip or fun fact
`

const condensedDayInstructions = `2. For each day, provide:
   - Day heading with a theme (e.g., Day 4: Markets and Old Town)
   - One meal recommendation
   - One practical tip
`

const formattingRules = "Use Markdown for formatting, like **bold** for highlights, and `code` for special notes.\n"

func renderStandardItinerary(f promptFields) string {
	var b strings.Builder
	b.WriteString("You are a professional travel assistant. Create a detailed travel itinerary with the following details:\n\n")
	writeContextHeader(&b, f)

	b.WriteString("\nInstructions:\n")
	b.WriteString("1. Give a friendly intro paragraph for the destination.\n")
	if f.isLongTrip() {
		b.WriteString(condensedDayInstructions)
	} else {
		b.WriteString(fullDayInstructions)
	}

	b.WriteString("\n")
	b.WriteString(formattingRules)
	writeLengthDiscipline(&b, f)
	return b.String()
}

func renderConciseItinerary(f promptFields) string {
	var b strings.Builder
	b.WriteString("You are a travel assistant. Write a short, practical itinerary.\n\n")
	writeContextHeader(&b, f)

	b.WriteString("\nInstructions:\n")
	b.WriteString("1. Start with two sentences introducing the destination.\n")
	b.WriteString(condensedDayInstructions)
	b.WriteString("3. Skip anything the traveler did not ask about.\n")

	b.WriteString("\n")
	b.WriteString(formattingRules)
	writeLengthDiscipline(&b, f)
	return b.String()
}

// professionalContext is marshalled in field order, which keeps the prompt byte-stable.
type professionalContext struct {
	Origin              string   `json:"origin"`
	Destination         string   `json:"destination"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	TripLength          int      `json:"trip_length"`
	Budget              string   `json:"budget"`
	Transportation      string   `json:"transportation"`
	Interests           string   `json:"interests"`
	DietaryRestrictions string   `json:"dietary_restrictions,omitempty"`
	MobilityConcerns    string   `json:"mobility_concerns,omitempty"`
	Refinements         string   `json:"refinements,omitempty"`
	TravelStyle         []string `json:"travel_style,omitempty"`
}

func renderProfessionalItinerary(f promptFields) string {
	ctx := professionalContext{
		Origin:              f.Origin,
		Destination:         f.Destination,
		StartDate:           f.StartDate,
		EndDate:             f.EndDate,
		TripLength:          f.TripLength,
		Budget:              f.Budget,
		Transportation:      f.Transportation,
		Interests:           f.Interests,
		DietaryRestrictions: f.prefs.DietaryRestrictions,
		MobilityConcerns:    f.prefs.MobilityConcerns,
		Refinements:         f.prefs.Refinements,
	}
	raw, _ := json.MarshalIndent(ctx, "", "  ")

	var b strings.Builder
	b.WriteString("Create a detailed, day-by-day travel itinerary based on:\n")
	b.Write(raw)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("1. Structure logically with morning/afternoon/evening activities\n")
	b.WriteString("2. Include both famous attractions and hidden gems\n")
	b.WriteString("3. Consider travel time between locations\n")
	b.WriteString("4. Accommodate all user preferences and constraints\n")
	b.WriteString("5. Suggest appropriate dining options\n")
	b.WriteString("6. Provide helpful tips and alternatives\n")
	if f.isLongTrip() {
		b.WriteString("7. For each day give a theme, one meal recommendation and one tip rather than a full schedule\n")
	}

	b.WriteString("\nFormat with clear headings and brief descriptions for each activity.\n")
	b.WriteString(formattingRules)
	b.WriteString(`Example format:

Day 1: Arrival in [City]
- Morning:
  * Activity 1 (time)
  * Description and details
- Afternoon:
  * Activity 2 (time)
  * Description and details
- Evening:
  * Dinner recommendation
  * Evening activity (if applicable)
`)
	writeLengthDiscipline(&b, f)
	return b.String()
}

func (p *PromptService) BuildExtractionPrompt(freeText string) string {
	return fmt.Sprintf(`The user provided this travel description: %q

Extract the following information as valid JSON:
- destination (string)
- origin (string or null if not mentioned)
- start_date (string in YYYY-MM-DD format or null if not mentioned)
- end_date (string in YYYY-MM-DD format or null if not mentioned)
- budget (one of: "Budget", "Moderate", "Luxury", or null)
- travel_style (array of strings from: "Adventure", "Relaxation", "Cultural", "Foodie", "Nature", "Shopping", "History")
- dietary_restrictions (string or null)
- mobility_concerns (string or null)

Return ONLY the JSON object, with all property names in double quotes.
Example:
{
  "destination": "Paris",
  "origin": "New York",
  "start_date": "2023-11-15",
  "end_date": "2023-11-22",
  "budget": "Moderate",
  "travel_style": ["Cultural", "Foodie"],
  "dietary_restrictions": "Vegetarian",
  "mobility_concerns": null
}
`, freeText)
}

func (p *PromptService) BuildClarificationPrompt(prefs trip_models.TripPreferences, clarification string) string {
	return fmt.Sprintf(`Original user info: %s

New clarifications: %q

Update the JSON by incorporating the new information.
Keep existing fields unless the clarification changes them.
Use YYYY-MM-DD for dates.
Return only the updated JSON.
`, preferencesJSON(prefs), clarification)
}

func (p *PromptService) BuildClarifyingQuestionsPrompt(prefs trip_models.TripPreferences) string {
	return fmt.Sprintf(`Based on this partial travel information:
%s

Generate 2-3 concise, friendly questions to clarify missing or vague information that would significantly impact itinerary quality.
Focus on the most important gaps.
Format as bullet points.
`, preferencesJSON(prefs))
}

func (p *PromptService) BuildRefinementQuestionsPrompt(prefs trip_models.TripPreferences) string {
	return fmt.Sprintf(`Based on these travel details:
%s

Generate 2-3 thoughtful questions to refine preferences for a better itinerary.
Focus on aspects like:
- Specific interests within their general travel styles
- Preferred pace (relaxed vs. packed schedule)
- Special requests not yet mentioned
- Any other details that would personalize the itinerary

Present questions conversationally.
`, preferencesJSON(prefs))
}

// extractionRecord is the wire shape the backend is asked to return. Pointers tell an
// absent key from an explicit value when merging clarifications.
type extractionRecord struct {
	Destination         *string  `json:"destination"`
	Origin              *string  `json:"origin"`
	StartDate           *string  `json:"start_date"`
	EndDate             *string  `json:"end_date"`
	Budget              *string  `json:"budget"`
	TravelStyle         []string `json:"travel_style"`
	DietaryRestrictions *string  `json:"dietary_restrictions"`
	MobilityConcerns    *string  `json:"mobility_concerns"`
	Transportation      *string  `json:"transportation,omitempty"`
	Refinements         *string  `json:"refinements,omitempty"`
}

func preferencesJSON(prefs trip_models.TripPreferences) string {
	str := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	rec := extractionRecord{
		Destination:         str(prefs.Destination),
		Origin:              str(prefs.Origin),
		StartDate:           str(trip_models.FormatDate(prefs.StartDate)),
		EndDate:             str(trip_models.FormatDate(prefs.EndDate)),
		Budget:              str(string(prefs.Budget)),
		TravelStyle:         trip_models.NormalizeTags(prefs.Activities),
		DietaryRestrictions: str(prefs.DietaryRestrictions),
		MobilityConcerns:    str(prefs.MobilityConcerns),
		Transportation:      str(string(prefs.Transportation)),
		Refinements:         str(prefs.Refinements),
	}
	if rec.TravelStyle == nil {
		rec.TravelStyle = []string{}
	}
	raw, _ := json.MarshalIndent(rec, "", "  ")
	return string(raw)
}
