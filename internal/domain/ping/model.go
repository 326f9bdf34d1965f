package ping

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CampusLocation is one of the fixed named zones a ping can be announced for.
type CampusLocation string

const (
	CampusBusch         CampusLocation = "Busch Campus"
	CampusCollegeAvenue CampusLocation = "College Avenue Campus"
	CampusLivingston    CampusLocation = "Livingston Campus"
	CampusCookDouglass  CampusLocation = "Cook/Douglass Campus"
)

// Valid reports whether the value is one of the known campus zones.
func (c CampusLocation) Valid() bool {
	switch c {
	case CampusBusch, CampusCollegeAvenue, CampusLivingston, CampusCookDouglass:
		return true
	}
	return false
}

// ExpireAtLayout renders instants the way they are stored and sent on the
// wire: an ISO-8601 UTC string with millisecond precision. The string form
// is kept for compatibility with existing stored records.
const ExpireAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Ping is a single timed activity announcement.
//
// Date and Time hold the caller-supplied wall clock ("2006-01-02" and
// "15:04"); ExpireAt is derived from them plus DurationMinutes and is the
// only field recomputed on update. ID and Owner never change after creation.
type Ping struct {
	ID               string         `json:"id"`
	Owner            string         `json:"owner"`
	CampusLocation   CampusLocation `json:"campusLocation"`
	SpecificLocation string         `json:"specificLocation"`
	Description      string         `json:"description"`
	Date             string         `json:"date"`
	Time             string         `json:"time"`
	DurationMinutes  int            `json:"durationMinutes"`
	HappeningNow     bool           `json:"happeningNow"`
	CreatedAt        time.Time      `json:"createdAt"`
	ExpireAt         string         `json:"expireAt"`
}

// FormatExpireAt renders an instant in the stored string form.
func FormatExpireAt(t time.Time) string {
	return t.UTC().Format(ExpireAtLayout)
}

// ParseExpireAt reads an instant back from the stored string form.
func ParseExpireAt(s string) (time.Time, error) {
	return time.Parse(ExpireAtLayout, s)
}

// Expired reports the derived read-time classification of a ping. It is
// never persisted; a ping with an unparseable ExpireAt counts as expired.
func (p Ping) Expired(now time.Time) bool {
	exp, err := ParseExpireAt(p.ExpireAt)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}

// Place is the decoded form of the specificLocation field: either free text
// or a coordinate pair. The overloaded string encoding exists only at the
// wire and storage edge.
type Place struct {
	Text        string
	Coordinates *Coordinates
}

// Coordinates is a latitude/longitude pair picked on a map.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

var coordinatePattern = regexp.MustCompile(`^Latitude:\s*([-+]?\d*\.?\d+),\s*Longitude:\s*([-+]?\d*\.?\d+)$`)

// ParsePlace pattern-detects which of the two encodings a specificLocation
// value carries. Anything that does not match the coordinate form is free
// text.
func ParsePlace(s string) Place {
	m := coordinatePattern.FindStringSubmatch(s)
	if m == nil {
		return Place{Text: s}
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return Place{Text: s}
	}
	return Place{Coordinates: &Coordinates{Latitude: lat, Longitude: lng}}
}

// Encode renders the place back into the single wire field.
func (p Place) Encode() string {
	if p.Coordinates == nil {
		return p.Text
	}
	return fmt.Sprintf("Latitude: %v, Longitude: %v", p.Coordinates.Latitude, p.Coordinates.Longitude)
}

// Place decodes the ping's specificLocation field.
func (p Ping) Place() Place {
	return ParsePlace(p.SpecificLocation)
}

// ErrNotFound covers both "no such ping" and "ping owned by someone else".
// The two cases are deliberately indistinguishable so a caller cannot probe
// for the existence of another user's record.
var ErrNotFound = errors.New("ping not found")

// ValidationError marks caller input that cannot be accepted; the request is
// recoverable by resubmission.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
