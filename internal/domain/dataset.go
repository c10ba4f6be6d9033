package domain

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

var clock = clockwork.NewRealClock()

// SetClock replaces the clock that stamps LoadedAt. Nil restores real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// Dataset is the filtered detection set for one process lifetime. It is built
// once by the loader and only hands out copies, so handlers can share it
// without locking.
type Dataset struct {
	detections []Detection
	index      *DayIndex
	loadedAt   time.Time
}

// NewDataset indexes detections that have already been through FilterByDuration.
func NewDataset(detections []Detection) *Dataset {
	owned := make([]Detection, len(detections))
	copy(owned, detections)
	return &Dataset{
		detections: owned,
		index:      NewDayIndex(owned),
		loadedAt:   clock.Now(),
	}
}

// Len returns the number of detections.
func (ds *Dataset) Len() int {
	return len(ds.detections)
}

// Detections returns a copy of every detection in load order.
func (ds *Dataset) Detections() []Detection {
	out := make([]Detection, len(ds.detections))
	copy(out, ds.detections)
	return out
}

// Index returns the day index over the dataset.
func (ds *Dataset) Index() *DayIndex {
	return ds.index
}

// LoadedAt is when the dataset was built.
func (ds *Dataset) LoadedAt() time.Time {
	return ds.loadedAt
}

// SelectDay returns the detections on the i-th indexed day.
func (ds *Dataset) SelectDay(i int) ([]Detection, error) {
	return ds.index.SelectDay(i)
}

// Series returns the brightness series around focal.
func (ds *Dataset) Series(focal Detection) []SeriesPoint {
	return BrightnessSeries(ds.detections, focal)
}

// FindNearest resolves a clicked coordinate to the closest detection inside
// the ±ProximityThreshold box. Ties go to the earlier detection in load order.
func (ds *Dataset) FindNearest(lat, lon float64) (Detection, bool) {
	probe := Detection{Latitude: lat, Longitude: lon}
	best := -1
	bestDist := math.Inf(1)
	for i, d := range ds.detections {
		if !Near(probe, d) {
			continue
		}
		dist := math.Hypot(d.Latitude-lat, d.Longitude-lon)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Detection{}, false
	}
	return ds.detections[best], true
}
