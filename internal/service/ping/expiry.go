package ping

import (
	"fmt"
	"time"

	domain "pingboard/internal/domain/ping"
)

const dateLayout = "2006-01-02"

// Accepted wall-clock forms. The 12-hour forms are what older clients emit
// for happening-now pings; everything else arrives as 24-hour HH:MM.
var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "03:04 PM"}

// combineStart interprets the date and wall-clock pair literally on the UTC
// timeline. The digits are not converted from any local zone; a user's
// local "2pm" is stored as 2pm UTC. Kept for compatibility with existing
// records (see DESIGN.md).
func combineStart(date, clock string) (time.Time, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Reason: fmt.Sprintf("invalid date %q", date)}
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, &domain.ValidationError{Reason: fmt.Sprintf("invalid time %q", clock)}
}

// computeExpireAt derives the instant a ping's validity window ends:
// combine(date, time) plus the duration.
func computeExpireAt(date, clock string, durationMinutes int) (time.Time, error) {
	if durationMinutes < 0 {
		return time.Time{}, &domain.ValidationError{Reason: "durationMinutes must not be negative"}
	}
	start, err := combineStart(date, clock)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(durationMinutes) * time.Minute), nil
}
