package mapbox

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/wildfire-data/internal/domain"
	"github.com/couchcryptid/wildfire-data/internal/observability"
)

// CachedGeocoder puts an LRU cache in front of a Geocoder. Lookups are keyed
// on the rounded location, so clicks on the same hundredth-degree cell share
// one upstream request.
type CachedGeocoder struct {
	inner   domain.Geocoder
	metrics *observability.Metrics

	mu      sync.Mutex
	max     int
	order   *list.List // front is most recently used
	entries map[domain.LocationKey]*list.Element
}

type cacheEntry struct {
	key    domain.LocationKey
	result domain.GeocodingResult
}

var _ domain.Geocoder = (*CachedGeocoder)(nil)

// NewCachedGeocoder wraps inner with a cache of at most maxEntries places.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &CachedGeocoder{
		inner:   inner,
		metrics: metrics,
		max:     maxEntries,
		order:   list.New(),
		entries: make(map[domain.LocationKey]*list.Element),
	}
}

// ReverseGeocode serves from cache when the cell has been labelled before.
// Errors and empty results are not cached so they can be retried.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := domain.KeyOf(domain.Detection{Latitude: lat, Longitude: lon})
	if result, ok := c.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	if result.Found() {
		c.put(key, result)
	}
	return result, nil
}

// Len is the number of cached places.
func (c *CachedGeocoder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *CachedGeocoder) get(key domain.LocationKey) (domain.GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.GeocodingResult{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

func (c *CachedGeocoder) put(key domain.LocationKey, result domain.GeocodingResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, result: result})
	if c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
