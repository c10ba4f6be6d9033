package domain

import (
	"math"
	"sort"
	"time"
)

// ProximityThreshold is the half-width in degrees of the bounding box used to
// collect detections around a clicked fire. It is unrelated to LocationKey
// rounding.
const ProximityThreshold = 0.05

// SeriesPoint is one day of a brightness series.
type SeriesPoint struct {
	Day            time.Time
	MeanBrightness float64 // NaN when Samples is 0
	Samples        int     // finite brightness values averaged
}

// Near reports whether d lies strictly inside the ±ProximityThreshold box
// around focal on both axes.
func Near(focal, d Detection) bool {
	return math.Abs(d.Latitude-focal.Latitude) < ProximityThreshold &&
		math.Abs(d.Longitude-focal.Longitude) < ProximityThreshold
}

// BrightnessSeries collects the detections near focal and averages their
// brightness per calendar day. Non-finite brightness values are left out of
// the mean. The result is ordered by day and is empty when nothing is near.
func BrightnessSeries(all []Detection, focal Detection) []SeriesPoint {
	var nearby []Detection
	for _, d := range all {
		if Near(focal, d) {
			nearby = append(nearby, d)
		}
	}
	if len(nearby) == 0 {
		return nil
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].Timestamp.Before(nearby[j].Timestamp)
	})

	var series []SeriesPoint
	var sum float64
	flush := func() {
		last := &series[len(series)-1]
		if last.Samples == 0 {
			last.MeanBrightness = math.NaN()
			return
		}
		last.MeanBrightness = sum / float64(last.Samples)
	}

	for _, d := range nearby {
		day := d.Day()
		if len(series) == 0 || !series[len(series)-1].Day.Equal(day) {
			if len(series) > 0 {
				flush()
			}
			series = append(series, SeriesPoint{Day: day})
			sum = 0
		}
		if isFinite(d.Brightness) {
			sum += d.Brightness
			series[len(series)-1].Samples++
		}
	}
	flush()
	return series
}
