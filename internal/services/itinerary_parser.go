package services

import (
	"regexp"
	"strconv"
	"strings"

	"travelbuddy/internal/models/response_models"
)

var (
	dayHeading     = regexp.MustCompile(`^\s*(?:\*\*)?Day\s+(\d+)\s*:\s*(.*?)(?:\*\*)?\s*$`)
	sectionHeading = regexp.MustCompile(`^\s*-\s*(Morning|Afternoon|Evening)\s*:\s*(.*)$`)
	activityBullet = regexp.MustCompile(`^\s*\*\s+(.*)$`)
)

// ParseItineraryDays splits generated text into days and time-of-day sections for display.
// Text without any "Day N:" heading comes back as a single untitled day so nothing is lost.
func ParseItineraryDays(text string) []response_models.ItineraryDay {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		days    []response_models.ItineraryDay
		day     *response_models.ItineraryDay
		section *response_models.ItinerarySection
	)

	flushSection := func() {
		if day != nil && section != nil {
			section.Text = strings.TrimSpace(section.Text)
			if section.Text != "" || len(section.Activities) > 0 {
				day.Sections = append(day.Sections, *section)
			}
		}
		section = nil
	}
	flushDay := func() {
		flushSection()
		if day != nil {
			days = append(days, *day)
		}
		day = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := dayHeading.FindStringSubmatch(line); m != nil {
			flushDay()
			n, _ := strconv.Atoi(m[1])
			day = &response_models.ItineraryDay{Day: n, Title: strings.TrimSpace(m[2])}
			continue
		}
		if day == nil {
			// Preamble before the first heading.
			day = &response_models.ItineraryDay{}
		}
		if m := sectionHeading.FindStringSubmatch(line); m != nil {
			flushSection()
			section = &response_models.ItinerarySection{TimeOfDay: m[1]}
			if rest := strings.TrimSpace(m[2]); rest != "" {
				section.Text = rest + "\n"
			}
			continue
		}
		if section == nil {
			section = &response_models.ItinerarySection{}
		}
		if m := activityBullet.FindStringSubmatch(line); m != nil {
			if act := strings.TrimSpace(m[1]); act != "" {
				section.Activities = append(section.Activities, act)
			}
			continue
		}
		section.Text += line + "\n"
	}
	flushDay()

	// Drop an empty preamble day.
	out := days[:0]
	for _, d := range days {
		if d.Day == 0 && len(d.Sections) == 0 {
			continue
		}
		out = append(out, d)
	}
	if len(out) == 1 && out[0].Day == 0 {
		out[0].Day = 1
	}
	return out
}
