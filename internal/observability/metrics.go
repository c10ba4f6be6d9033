package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wildfire"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset load, the optional publisher, geocoding, and the API.
type Metrics struct {
	// Load metrics.
	RowsRead         prometheus.Counter
	RowsRejected     prometheus.Counter
	LocationsKept    prometheus.Counter
	LocationsDropped prometheus.Counter
	DetectionsLoaded prometheus.Gauge
	DaysIndexed      prometheus.Gauge
	LoadDuration     prometheus.Histogram
	DatasetReady     prometheus.Gauge

	// Publisher metrics.
	DetectionsPublished prometheus.Counter
	PublishErrors       prometheus.Counter
	BatchSize           prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	// API metrics.
	APIRequests *prometheus.CounterVec // labels: route, code
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// multiple tests can each build their own without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total raw rows read from the detection file.",
		}),
		RowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Rows dropped by the parser for a bad timestamp or coordinate.",
		}),
		LocationsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locations_kept_total",
			Help:      "Rounded locations that burned on more than one calendar day.",
		}),
		LocationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locations_dropped_total",
			Help:      "Rounded locations dropped as single-day detections.",
		}),
		DetectionsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "detections_loaded",
			Help:      "Detections in the served dataset after filtering.",
		}),
		DaysIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "days_indexed",
			Help:      "Distinct calendar days in the served dataset.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of the startup load: read, parse, filter, and index.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 once the dataset is loaded and being served, 0 otherwise.",
		}),
		DetectionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_published_total",
			Help:      "Total detections written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed batch writes to the sink topic, including retried ones.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_size",
			Help:      "Number of detections per published batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100, 250, 500, 1000},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when place labels are looked up, 0 otherwise.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "API requests by route pattern and status code.",
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsRejected,
		m.LocationsKept,
		m.LocationsDropped,
		m.DetectionsLoaded,
		m.DaysIndexed,
		m.LoadDuration,
		m.DatasetReady,
		m.DetectionsPublished,
		m.PublishErrors,
		m.BatchSize,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.APIRequests,
	}
}
