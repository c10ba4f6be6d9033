package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/wildfire-data/internal/domain"
)

// Styler implements domain.PointRenderer: fill by brightness bin, stroke by
// confidence, radius by FRP.
type Styler struct {
	radius RadiusScale
}

var _ domain.PointRenderer = (*Styler)(nil)

// NewStyler fits the radius scale to the FRP extent of the whole dataset, so
// a marker keeps its size as the day changes.
func NewStyler(detections []domain.Detection) *Styler {
	return &Styler{radius: NewRadiusScale(detections)}
}

// Point styles d for display on day.
func (s *Styler) Point(d domain.Detection, day time.Time) domain.Point {
	return domain.Point{
		ID:         d.ID,
		Latitude:   d.Latitude,
		Longitude:  d.Longitude,
		Day:        day.Format(domain.DayLayout),
		Radius:     s.radius.Radius(d.RadiativePower),
		Fill:       BrightnessColor(d.Brightness),
		Stroke:     ConfidenceColor(d.Confidence),
		Brightness: domain.FinitePtr(d.Brightness),
		FRP:        domain.FinitePtr(d.RadiativePower),
		Tooltip:    Tooltip(d),
	}
}

// Points styles every detection of one day.
func Points(r domain.PointRenderer, detections []domain.Detection, day time.Time) []domain.Point {
	out := make([]domain.Point, 0, len(detections))
	for _, d := range detections {
		out = append(out, r.Point(d, day))
	}
	return out
}

// Tooltip is the hover text for a marker.
func Tooltip(d domain.Detection) string {
	return fmt.Sprintf("Brightness (TI4): %s\nFire Intensity (FRP): %s\nConfidence: %s",
		formatMeasure(d.Brightness), formatMeasure(d.RadiativePower), d.Confidence)
}

func formatMeasure(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
