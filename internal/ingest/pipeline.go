package ingest

import (
	"context"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Archiver persists the raw events of a successfully merged batch.
type Archiver interface {
	ArchiveBatch(ctx context.Context, events []domain.Event) error
}

// Pipeline wires aggregation and merge into the single entry point the event
// transport calls per batch.
type Pipeline struct {
	merger   *Merger
	archiver Archiver
	logger   zerolog.Logger
}

// NewPipeline constructs the batch pipeline. archiver may be nil.
func NewPipeline(merger *Merger, archiver Archiver, logger zerolog.Logger) *Pipeline {
	return &Pipeline{merger: merger, archiver: archiver, logger: logger}
}

// ProcessBatch aggregates the batch and merges the resulting deltas. A nil
// return means every delta is durable and the transport may acknowledge the
// whole batch; an error means nothing may be acknowledged. Archival runs
// after a successful merge and is best effort.
func (p *Pipeline) ProcessBatch(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	deltas := Aggregate(events, p.logger)
	if err := p.merger.ApplyBatch(ctx, deltas); err != nil {
		return err
	}
	if p.archiver != nil {
		if err := p.archiver.ArchiveBatch(ctx, events); err != nil {
			p.logger.Warn().Err(err).Int("events", len(events)).Msg("ingest: raw batch archive failed")
		}
	}
	p.logger.Debug().Int("events", len(events)).Int("groups", len(deltas)).Msg("ingest: batch merged")
	return nil
}
