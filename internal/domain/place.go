package domain

import "context"

// GeocodingResult is the place a provider resolved for a coordinate.
type GeocodingResult struct {
	FormattedAddress string  // full label, e.g. "Paradise, California, United States"
	PlaceName        string  // short name of the matched feature
	Confidence       float64 // provider relevance, 0.0–1.0
}

// Found reports whether the provider matched anything.
func (r GeocodingResult) Found() bool {
	return r.FormattedAddress != "" || r.PlaceName != ""
}

// Label is the text shown next to a charted fire.
func (r GeocodingResult) Label() string {
	if r.FormattedAddress != "" {
		return r.FormattedAddress
	}
	return r.PlaceName
}

// Geocoder labels a coordinate with a human-readable place.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
