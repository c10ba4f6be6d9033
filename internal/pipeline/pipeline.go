package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/wildfire-data/internal/adapter/boundary"
	"github.com/couchcryptid/wildfire-data/internal/config"
	"github.com/couchcryptid/wildfire-data/internal/domain"
	"github.com/couchcryptid/wildfire-data/internal/observability"
)

// RowSource reads every raw row of the detection file.
type RowSource interface {
	Load(ctx context.Context) ([]domain.RawRow, error)
}

// BatchLoader writes detections to a downstream sink.
type BatchLoader interface {
	LoadBatch(ctx context.Context, detections []domain.Detection) error
}

// Pipeline loads the detection file and boundary files once, derives the
// served dataset, and optionally publishes it.
type Pipeline struct {
	source     RowSource
	boundaries []config.BoundaryFile
	publisher  BatchLoader
	logger     *slog.Logger
	metrics    *observability.Metrics
	batchSize  int

	dataset atomic.Pointer[domain.Dataset]
	shapes  atomic.Pointer[boundary.Set]
}

// New creates a Pipeline. Pass a nil publisher to skip publishing.
func New(source RowSource, boundaries []config.BoundaryFile, publisher BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Pipeline{
		source:     source,
		boundaries: boundaries,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		batchSize:  batchSize,
	}
}

// CheckReadiness returns nil once the dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.dataset.Load() == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Dataset returns the loaded dataset, or false before Load has succeeded.
func (p *Pipeline) Dataset() (*domain.Dataset, bool) {
	ds := p.dataset.Load()
	return ds, ds != nil
}

// Boundaries returns the loaded boundary documents. Before Load has
// succeeded the set is empty.
func (p *Pipeline) Boundaries() *boundary.Set {
	if s := p.shapes.Load(); s != nil {
		return s
	}
	return boundary.NewSet()
}

// Run loads the dataset and, when a publisher is configured, publishes it.
// Publishing stops quietly when the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	ds, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if p.publisher == nil {
		return nil
	}
	if err := p.Publish(ctx, ds); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// Load reads the detection file and every boundary file concurrently, then
// parses, filters, and indexes the detections. Any read error fails the whole
// load and nothing is published to readers.
func (p *Pipeline) Load(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()

	var rows []domain.RawRow
	docs := make([]json.RawMessage, len(p.boundaries))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := p.source.Load(gctx)
		if err != nil {
			return fmt.Errorf("load detections: %w", err)
		}
		rows = r
		return nil
	})
	for i, b := range p.boundaries {
		g.Go(func() error {
			doc, err := boundary.LoadFile(gctx, b.Path)
			if err != nil {
				return fmt.Errorf("load boundary %q: %w", b.Name, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.metrics.DatasetReady.Set(0)
		return nil, err
	}

	ds := p.derive(rows)

	shapes := boundary.NewSet()
	for i, b := range p.boundaries {
		shapes.Add(b.Name, docs[i])
	}
	p.shapes.Store(shapes)
	p.dataset.Store(ds)
	p.metrics.DatasetReady.Set(1)
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("dataset loaded",
		"detections", ds.Len(),
		"days", ds.Index().DayCount(),
		"boundaries", shapes.Len(),
		"duration", time.Since(start),
	)
	return ds, nil
}

// derive runs the pure stages: parse, duration filter, day index.
func (p *Pipeline) derive(rows []domain.RawRow) *domain.Dataset {
	parsed, rejected := domain.ParseRows(rows)
	p.metrics.RowsRead.Add(float64(len(rows)))
	p.metrics.RowsRejected.Add(float64(rejected))
	if rejected > 0 {
		p.logger.Warn("rows rejected by parser", "rejected", rejected, "read", len(rows))
	}

	kept, dropped := domain.LocationCounts(parsed)
	p.metrics.LocationsKept.Add(float64(kept))
	p.metrics.LocationsDropped.Add(float64(dropped))

	filtered := domain.FilterByDuration(parsed)
	ds := domain.NewDataset(filtered)
	p.metrics.DetectionsLoaded.Set(float64(ds.Len()))
	p.metrics.DaysIndexed.Set(float64(ds.Index().DayCount()))

	p.logger.Debug("duration filter applied",
		"parsed", len(parsed),
		"kept", len(filtered),
		"locations_kept", kept,
		"locations_dropped", dropped,
	)
	return ds
}
