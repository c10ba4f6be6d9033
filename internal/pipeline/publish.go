package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/wildfire-data/internal/domain"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Publish sends the dataset to the configured publisher in batches, in day
// order. A failed batch is retried with exponential backoff until it succeeds
// or the context ends.
func (p *Pipeline) Publish(ctx context.Context, ds *domain.Dataset) error {
	if p.publisher == nil {
		return errors.New("no publisher configured")
	}

	x := ds.Index()
	published := 0
	for i := 0; i < x.DayCount(); i++ {
		detections, err := x.SelectDay(i)
		if err != nil {
			return err
		}
		for start := 0; start < len(detections); start += p.batchSize {
			end := min(start+p.batchSize, len(detections))
			if err := p.publishBatch(ctx, detections[start:end]); err != nil {
				p.logger.Info("publishing stopped", "published", published, "reason", err)
				return err
			}
			published += end - start
		}
	}

	p.logger.Info("dataset published", "detections", published, "days", x.DayCount())
	return nil
}

func (p *Pipeline) publishBatch(ctx context.Context, batch []domain.Detection) error {
	backoff := initialBackoff
	for {
		err := p.publisher.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.DetectionsPublished.Add(float64(len(batch)))
			p.metrics.BatchSize.Observe(float64(len(batch)))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish batch failed", "error", err, "batch_size", len(batch), "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}
