package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// RawRow is one row of the source file keyed by header name. Column order is
// irrelevant and unknown columns are ignored.
type RawRow map[string]string

// Column names read from a RawRow.
const (
	ColumnDatetime   = "datetime"
	ColumnLatitude   = "latitude"
	ColumnLongitude  = "longitude"
	ColumnBrightness = "bright_ti4"
	ColumnFRP        = "frp"
	ColumnConfidence = "confidence"
)

// Confidence is the categorical detection confidence reported by FIRMS.
type Confidence string

const (
	ConfidenceLow     Confidence = "low"
	ConfidenceNominal Confidence = "nominal"
	ConfidenceHigh    Confidence = "high"
)

// ParseConfidence accepts the single-letter FIRMS codes and the spelled-out
// words in any case. Anything else, including the empty string, is nominal.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return ConfidenceLow
	case "h", "high":
		return ConfidenceHigh
	default:
		return ConfidenceNominal
	}
}

// Detection is one satellite-observed hotspot.
type Detection struct {
	ID             string
	Timestamp      time.Time
	Latitude       float64
	Longitude      float64
	Brightness     float64 // bright_ti4, NaN when absent
	RadiativePower float64 // frp, NaN when absent
	Confidence     Confidence
}

// Day returns the calendar day the detection belongs to.
func (d Detection) Day() time.Time {
	return DayOf(d.Timestamp)
}

// DayOf truncates t to 00:00 UTC of its calendar day.
func DayOf(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b. Both must already be
// truncated with DayOf.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

type detectionJSON struct {
	ID             string     `json:"id"`
	Timestamp      time.Time  `json:"timestamp"`
	Day            string     `json:"day"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Brightness     *float64   `json:"bright_ti4"`
	RadiativePower *float64   `json:"frp"`
	Confidence     Confidence `json:"confidence"`
}

// MarshalJSON writes non-finite measurements as null.
func (d Detection) MarshalJSON() ([]byte, error) {
	return json.Marshal(detectionJSON{
		ID:             d.ID,
		Timestamp:      d.Timestamp,
		Day:            d.Day().Format(DayLayout),
		Latitude:       d.Latitude,
		Longitude:      d.Longitude,
		Brightness:     FinitePtr(d.Brightness),
		RadiativePower: FinitePtr(d.RadiativePower),
		Confidence:     d.Confidence,
	})
}

// UnmarshalJSON reads null measurements back as NaN.
func (d *Detection) UnmarshalJSON(data []byte) error {
	var v detectionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Detection{
		ID:             v.ID,
		Timestamp:      v.Timestamp,
		Latitude:       v.Latitude,
		Longitude:      v.Longitude,
		Brightness:     nanIfNil(v.Brightness),
		RadiativePower: nanIfNil(v.RadiativePower),
		Confidence:     v.Confidence,
	}
	return nil
}

// DayLayout formats calendar days in JSON payloads and message headers.
const DayLayout = "2006-01-02"

// FinitePtr returns nil for NaN and ±Inf so the value encodes as JSON null.
func FinitePtr(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

func nanIfNil(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// LocationKey is the coarse grouping key used by the duration filter:
// latitude and longitude in hundredths of a degree.
type LocationKey struct {
	Lat int64
	Lon int64
}

// KeyOf rounds a detection's coordinates to two decimals, half up.
func KeyOf(d Detection) LocationKey {
	return LocationKey{
		Lat: roundHundredths(d.Latitude),
		Lon: roundHundredths(d.Longitude),
	}
}

// roundHundredths rounds half toward +Inf, so -1.005 and 1.005 both move up.
func roundHundredths(v float64) int64 {
	return int64(math.Floor(v*100 + 0.5))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
