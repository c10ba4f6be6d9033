package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimestamp means the datetime column is missing or unparseable.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrInvalidCoordinate means latitude or longitude is missing, non-finite, or out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// timestampLayouts are tried in order. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseRow converts a raw row into a Detection. It fails only on the fields
// that decide where and when a detection is placed; brightness and FRP that do
// not parse are kept as NaN.
func ParseRow(row RawRow) (Detection, error) {
	ts, err := parseTimestamp(row[ColumnDatetime])
	if err != nil {
		return Detection{}, err
	}

	lat, latOK := parseFinite(row[ColumnLatitude])
	lon, lonOK := parseFinite(row[ColumnLongitude])
	if !latOK || !lonOK {
		return Detection{}, fmt.Errorf("%w: latitude=%q longitude=%q", ErrInvalidCoordinate, row[ColumnLatitude], row[ColumnLongitude])
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Detection{}, fmt.Errorf("%w: (%g, %g) out of range", ErrInvalidCoordinate, lat, lon)
	}

	brightness, _ := parseFinite(row[ColumnBrightness])
	frp, _ := parseFinite(row[ColumnFRP])

	return Detection{
		ID:             generateID(ts, lat, lon),
		Timestamp:      ts,
		Latitude:       lat,
		Longitude:      lon,
		Brightness:     brightness,
		RadiativePower: frp,
		Confidence:     ParseConfidence(row[ColumnConfidence]),
	}, nil
}

// ParseRows parses every row and silently drops the ones ParseRow rejects.
// It returns the surviving detections in input order and the number dropped.
func ParseRows(rows []RawRow) ([]Detection, int) {
	out := make([]Detection, 0, len(rows))
	rejected := 0
	for _, row := range rows {
		d, err := ParseRow(row)
		if err != nil {
			rejected++
			continue
		}
		out = append(out, d)
	}
	return out, rejected
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// parseFinite parses s as float64. The bool is false (and the value NaN) when
// s is empty, malformed, or not finite. Only plain decimal notation with an
// optional exponent is accepted; Go-only forms such as "4_0" or "0x1p3" are
// malformed.
func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, notDecimal) >= 0 {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return math.NaN(), false
	}
	return v, true
}

func notDecimal(r rune) bool {
	return (r < '0' || r > '9') && !strings.ContainsRune("+-.eE", r)
}

// generateID produces a deterministic ID from the detection's placement so the
// same row always maps to the same key downstream.
func generateID(ts time.Time, lat, lon float64) string {
	input := fmt.Sprintf("%s|%.5f|%.5f", ts.UTC().Format(time.RFC3339Nano), lat, lon)
	hash := sha256.Sum256([]byte(input))
	return "fire-" + hex.EncodeToString(hash[:8])
}
