package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RowsRead.Add(3)

	assert.InDelta(t, 3.0, testutil.ToFloat64(a.RowsRead), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.RowsRead), 0)
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewPedanticRegistry()

	require.NoError(t, reg.Register(m.RowsRead))
	for _, c := range m.collectors()[1:] {
		require.NoError(t, reg.Register(c))
	}

	m.GeocodeCache.WithLabelValues("hit").Inc()
	m.APIRequests.WithLabelValues("GET /api/days", "200").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "wildfire_rows_read_total")
	assert.Contains(t, names, "wildfire_geocode_cache_total")
	assert.Contains(t, names, "wildfire_api_requests_total")
}
