// Package render turns detections into drawable points for the map and
// scatter views. It knows nothing about projection: coordinates stay
// geographic and the front-end places them.
package render

import (
	"math"
	"sort"

	"github.com/couchcryptid/wildfire-data/internal/domain"
)

// Brightness colour bins (Kelvin, VIIRS I-4 channel) and their inferno-like palette.
var (
	brightnessThresholds = []float64{250, 300, 350, 400}
	brightnessPalette    = []string{"#fcffa4", "#f98e09", "#bc3754", "#57106e", "#000004"}
)

const (
	// NoDataColor fills points whose brightness is unknown.
	NoDataColor = "#999999"

	minRadius       = 4.0
	maxRadius       = 20.0
	floorRadius     = 3.0
	scatterHeadroom = 1.1
)

// BrightnessColor maps a brightness to its threshold bin colour. A value equal
// to a threshold falls in the bin above it.
func BrightnessColor(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoDataColor
	}
	i := sort.Search(len(brightnessThresholds), func(i int) bool { return v < brightnessThresholds[i] })
	return brightnessPalette[i]
}

// ConfidenceColor is the marker colour for a confidence class.
func ConfidenceColor(c domain.Confidence) string {
	switch c {
	case domain.ConfidenceHigh:
		return "red"
	case domain.ConfidenceLow:
		return "yellow"
	default:
		return "orange"
	}
}

// RadiusScale is a square-root scale from an FRP extent onto [4, 20] pixels.
type RadiusScale struct {
	lo, hi float64 // sqrt of the domain ends
}

// NewRadiusScale builds the scale over the finite FRP values of detections.
func NewRadiusScale(detections []domain.Detection) RadiusScale {
	lo, hi, ok := extent(detections, func(d domain.Detection) float64 { return d.RadiativePower })
	if !ok {
		return RadiusScale{}
	}
	return RadiusScale{lo: signedSqrt(lo), hi: signedSqrt(hi)}
}

// Radius returns the marker radius for an FRP value, never below 3 pixels.
// Values outside the extent extrapolate. A degenerate extent maps everything
// to the middle of the range.
func (s RadiusScale) Radius(frp float64) float64 {
	if math.IsNaN(frp) || math.IsInf(frp, 0) {
		return floorRadius
	}
	t := 0.5
	if span := s.hi - s.lo; span != 0 {
		t = (signedSqrt(frp) - s.lo) / span
	}
	return math.Max(minRadius+t*(maxRadius-minRadius), floorRadius)
}

// Domain is a closed numeric axis range.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ScatterDomains are the axis ranges of the FRP/brightness scatter plot.
type ScatterDomains struct {
	FRP        Domain `json:"frp"`
	Brightness Domain `json:"brightness"`
}

// ScatterDomain returns [0, max*1.1] on both axes over finite values. An axis
// with no finite values is [0, 0].
func ScatterDomain(detections []domain.Detection) ScatterDomains {
	var out ScatterDomains
	if _, hi, ok := extent(detections, func(d domain.Detection) float64 { return d.RadiativePower }); ok {
		out.FRP.Max = hi * scatterHeadroom
	}
	if _, hi, ok := extent(detections, func(d domain.Detection) float64 { return d.Brightness }); ok {
		out.Brightness.Max = hi * scatterHeadroom
	}
	return out
}

func extent(detections []domain.Detection, value func(domain.Detection) float64) (lo, hi float64, ok bool) {
	for _, d := range detections {
		v := value(d)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}
