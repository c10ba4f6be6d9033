package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// det builds a detection at the given UTC timestamp ("2006-01-02 15:04:05").
func det(t *testing.T, ts string, lat, lon, brightness float64) Detection {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", ts)
	require.NoError(t, err)
	return Detection{
		ID:             generateID(parsed, lat, lon),
		Timestamp:      parsed,
		Latitude:       lat,
		Longitude:      lon,
		Brightness:     brightness,
		RadiativePower: 10,
		Confidence:     ConfidenceNominal,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
