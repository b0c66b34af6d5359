package ingest

import (
	"context"
	"time"
)

// Syncer runs the pipeline's full fetch on a fixed interval. The
// interval must be positive; callers that want no background fetching
// should not start a Syncer at all.
type Syncer struct {
	pipeline *Pipeline
	interval time.Duration
}

func NewSyncer(pipeline *Pipeline, interval time.Duration) *Syncer {
	return &Syncer{pipeline: pipeline, interval: interval}
}

// Run fetches immediately, then on every tick until the context is
// canceled. A failed run is logged and does not stop the loop.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.pipeline.FetchAll(ctx); err != nil && ctx.Err() == nil {
			s.pipeline.log.ErrorContext(ctx, "fetch run failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
