package domain

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrightnessSeries_DailyMean(t *testing.T) {
	focal := det(t, "2025-06-01 10:00:00", 40.0, -120.0, 100)
	all := []Detection{
		det(t, "2025-06-02 09:00:00", 40.0, -120.0, 400),
		focal,
		det(t, "2025-06-01 14:00:00", 40.01, -120.01, 200),
		det(t, "2025-06-01 22:00:00", 39.99, -119.99, 300),
	}

	got := BrightnessSeries(all, focal)

	want := []SeriesPoint{
		{Day: day(2025, 6, 1), MeanBrightness: 200, Samples: 3},
		{Day: day(2025, 6, 2), MeanBrightness: 400, Samples: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestBrightnessSeries_Locality(t *testing.T) {
	focal := det(t, "2025-06-01 10:00:00", 40.0, -120.0, 300)
	nearby := det(t, "2025-06-02 10:00:00", 40.0, -119.99, 310)
	far := det(t, "2025-06-03 10:00:00", 40.0, -119.8, 320)

	got := BrightnessSeries([]Detection{focal, nearby, far}, focal)

	require.Len(t, got, 2)
	assert.Equal(t, day(2025, 6, 1), got[0].Day)
	assert.Equal(t, day(2025, 6, 2), got[1].Day)
}

// The box is open: exactly ProximityThreshold away on either axis is outside.
func TestNear_StrictBoundingBox(t *testing.T) {
	focal := Detection{Latitude: 10, Longitude: 20}
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"same point", 10, 20, true},
		{"inside on both axes", 10.049, 19.951, true},
		{"diagonal corner inside box", 10.04, 20.04, true},
		{"lat just outside", 10.051, 20, false},
		{"lon just outside", 10, 19.949, false},
		{"far away", 10.2, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Near(focal, Detection{Latitude: tt.lat, Longitude: tt.lon}))
		})
	}
}

func TestBrightnessSeries_NonFiniteExcludedFromMean(t *testing.T) {
	focal := det(t, "2025-06-01 10:00:00", 40.0, -120.0, 300)
	all := []Detection{
		focal,
		det(t, "2025-06-01 11:00:00", 40.0, -120.0, math.NaN()),
		det(t, "2025-06-01 12:00:00", 40.0, -120.0, math.Inf(1)),
		det(t, "2025-06-01 13:00:00", 40.0, -120.0, 330),
	}

	got := BrightnessSeries(all, focal)

	require.Len(t, got, 1)
	assert.Equal(t, 315.0, got[0].MeanBrightness)
	assert.Equal(t, 2, got[0].Samples)
}

func TestBrightnessSeries_DayWithoutFiniteValues(t *testing.T) {
	focal := det(t, "2025-06-01 10:00:00", 40.0, -120.0, 300)
	all := []Detection{
		focal,
		det(t, "2025-06-02 10:00:00", 40.0, -120.0, math.NaN()),
		det(t, "2025-06-03 10:00:00", 40.0, -120.0, 320),
	}

	got := BrightnessSeries(all, focal)

	want := []SeriesPoint{
		{Day: day(2025, 6, 1), MeanBrightness: 300, Samples: 1},
		{Day: day(2025, 6, 2), MeanBrightness: math.NaN(), Samples: 0},
		{Day: day(2025, 6, 3), MeanBrightness: 320, Samples: 1},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestBrightnessSeries_EmptyWhenNothingNear(t *testing.T) {
	focal := det(t, "2025-06-01 10:00:00", 10.0, 10.0, 300)
	all := []Detection{det(t, "2025-06-01 10:00:00", 40.0, -120.0, 300)}

	assert.Empty(t, BrightnessSeries(all, focal))
	assert.Empty(t, BrightnessSeries(nil, focal))
}

func TestBrightnessSeries_Idempotent(t *testing.T) {
	focal := det(t, "2025-06-01 10:00:00", 40.0, -120.0, 300)
	all := []Detection{
		det(t, "2025-06-03 10:00:00", 40.0, -120.0, 330),
		focal,
		det(t, "2025-06-02 10:00:00", 40.02, -120.0, 310),
		det(t, "2025-06-02 11:00:00", 40.0, -120.03, 290),
	}
	snapshot := append([]Detection(nil), all...)

	first := BrightnessSeries(all, focal)
	second := BrightnessSeries(all, focal)

	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("repeat run differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(snapshot, all, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}
