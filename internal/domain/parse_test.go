package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() RawRow {
	return RawRow{
		"datetime":   "2025-06-14 13:42:00",
		"latitude":   "39.8123",
		"longitude":  "-121.4377",
		"bright_ti4": "331.6",
		"frp":        "12.4",
		"confidence": "h",
		"satellite":  "N20",
	}
}

func TestParseRow(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		d, err := ParseRow(validRow())

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 14, 13, 42, 0, 0, time.UTC), d.Timestamp)
		assert.Equal(t, 39.8123, d.Latitude)
		assert.Equal(t, -121.4377, d.Longitude)
		assert.Equal(t, 331.6, d.Brightness)
		assert.Equal(t, 12.4, d.RadiativePower)
		assert.Equal(t, ConfidenceHigh, d.Confidence)
		assert.True(t, strings.HasPrefix(d.ID, "fire-"))
	})

	t.Run("missing confidence defaults to nominal", func(t *testing.T) {
		row := validRow()
		delete(row, "confidence")

		d, err := ParseRow(row)

		require.NoError(t, err)
		assert.Equal(t, ConfidenceNominal, d.Confidence)
	})

	t.Run("blank brightness and frp kept as NaN", func(t *testing.T) {
		row := validRow()
		row["bright_ti4"] = ""
		row["frp"] = "n/a"

		d, err := ParseRow(row)

		require.NoError(t, err)
		assert.True(t, math.IsNaN(d.Brightness))
		assert.True(t, math.IsNaN(d.RadiativePower))
	})

	t.Run("deterministic ID", func(t *testing.T) {
		d1, err := ParseRow(validRow())
		require.NoError(t, err)
		d2, err := ParseRow(validRow())
		require.NoError(t, err)

		assert.Equal(t, d1.ID, d2.ID)
	})

	t.Run("zoned timestamp normalised to UTC", func(t *testing.T) {
		row := validRow()
		row["datetime"] = "2025-06-14T20:30:00-07:00"

		d, err := ParseRow(row)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 15, 3, 30, 0, 0, time.UTC), d.Timestamp)
	})
}

func TestParseRow_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		column string
		value  string
		want   error
	}{
		{"non-numeric latitude", "latitude", "north", ErrInvalidCoordinate},
		{"empty latitude", "latitude", "", ErrInvalidCoordinate},
		{"non-numeric longitude", "longitude", "abc", ErrInvalidCoordinate},
		{"infinite longitude", "longitude", "Inf", ErrInvalidCoordinate},
		{"NaN latitude", "latitude", "NaN", ErrInvalidCoordinate},
		{"digit separator in latitude", "latitude", "4_0", ErrInvalidCoordinate},
		{"hex float longitude", "longitude", "-0x1p4", ErrInvalidCoordinate},
		{"latitude out of range", "latitude", "91.5", ErrInvalidCoordinate},
		{"longitude out of range", "longitude", "-180.01", ErrInvalidCoordinate},
		{"empty datetime", "datetime", "", ErrInvalidTimestamp},
		{"garbage datetime", "datetime", "yesterday", ErrInvalidTimestamp},
		{"impossible date", "datetime", "2025-02-30 10:00:00", ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			row[tt.column] = tt.value

			_, err := ParseRow(row)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	want := time.Date(2025, 7, 2, 8, 15, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"RFC3339", "2025-07-02T08:15:00Z", want},
		{"RFC3339 fractional", "2025-07-02T08:15:00.000Z", want},
		{"T separator no zone", "2025-07-02T08:15:00", want},
		{"space separator", "2025-07-02 08:15:00", want},
		{"minutes only", "2025-07-02 08:15", want},
		{"date only", "2025-07-02", time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)},
		{"space separator with UTC offset", "2025-07-02 08:15:00+00:00", want},
		{"space separator with offset", "2025-07-02 10:15:00+02:00", want},
		{"space separator fractional with offset", "2025-07-02 01:15:00.000000-07:00", want},
		{"surrounding space", "  2025-07-02 08:15  ", want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ParseRows never fails: bad rows vanish and are only counted.
func TestParseRows_SilentlyDropsBadRows(t *testing.T) {
	bad := validRow()
	bad["longitude"] = "west"
	badTime := validRow()
	badTime["datetime"] = "soon"
	separated := validRow()
	separated["latitude"] = "4_0"
	other := validRow()
	other["latitude"] = "40.1"

	rows := []RawRow{validRow(), bad, separated, other, badTime}

	got, rejected := ParseRows(rows)

	assert.Equal(t, 3, rejected)
	require.Len(t, got, 2)
	assert.Equal(t, 39.8123, got[0].Latitude)
	assert.Equal(t, 40.1, got[1].Latitude)
}

func TestParseRows_PreservesCoordinatesExactly(t *testing.T) {
	coords := [][2]string{
		{"0", "0"},
		{"-89.99999", "179.99999"},
		{"12.3456789", "-45.6789012"},
		{"90", "-180"},
	}
	rows := make([]RawRow, 0, len(coords))
	for _, c := range coords {
		row := validRow()
		row["latitude"], row["longitude"] = c[0], c[1]
		rows = append(rows, row)
	}

	got, rejected := ParseRows(rows)

	require.Zero(t, rejected)
	require.Len(t, got, len(coords))
	for i, c := range coords {
		assert.Equal(t, mustFloat(t, c[0]), got[i].Latitude)
		assert.Equal(t, mustFloat(t, c[1]), got[i].Longitude)
	}
}

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		input string
		want  Confidence
	}{
		{"l", ConfidenceLow},
		{"LOW", ConfidenceLow},
		{"n", ConfidenceNominal},
		{"nominal", ConfidenceNominal},
		{"h", ConfidenceHigh},
		{" High ", ConfidenceHigh},
		{"", ConfidenceNominal},
		{"87", ConfidenceNominal},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConfidence(tt.input))
		})
	}
}

func TestDetectionJSON_NonFiniteAsNull(t *testing.T) {
	d := Detection{
		ID:             "fire-1",
		Timestamp:      time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC),
		Latitude:       39.8,
		Longitude:      -121.4,
		Brightness:     math.NaN(),
		RadiativePower: 4.2,
		Confidence:     ConfidenceLow,
	}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bright_ti4":null`)
	assert.Contains(t, string(data), `"day":"2025-06-14"`)

	var back Detection
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.Brightness))
	assert.Equal(t, 4.2, back.RadiativePower)
	assert.Equal(t, d.Timestamp, back.Timestamp)
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	v, ok := parseFinite(s)
	require.True(t, ok, s)
	return v
}
