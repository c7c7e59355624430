package utils

import "time"

// Format helpers for human-facing output (exports, headers).
func FormatDisplayDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "Not specified"
	}
	return t.Format("Jan 02, 2006")
}

func FormatShortDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("Jan 02")
}

// RentalDays counts billable days between pickup and return, at least one.
func RentalDays(pickup, dropoff *time.Time) int {
	if pickup == nil || dropoff == nil {
		return 1
	}
	days := int(dropoff.Sub(*pickup).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
