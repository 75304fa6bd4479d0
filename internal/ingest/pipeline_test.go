package ingest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type fakeArchiver struct {
	batches [][]domain.Event
}

func (f *fakeArchiver) ArchiveBatch(_ context.Context, events []domain.Event) error {
	f.batches = append(f.batches, events)
	return nil
}

func TestPipelineMergesValidEventsAndArchives(t *testing.T) {
	repo := newFakeStatsRepo()
	archiver := &fakeArchiver{}
	pipeline := NewPipeline(NewMerger(repo, zerolog.Nop()), archiver, zerolog.Nop())

	events := []domain.Event{
		{ListingID: "a", Type: "profile_view", OccurredAt: "2026-08-20T01:00:00Z"},
		{ListingID: "", Type: "profile_view", OccurredAt: "2026-08-20T01:00:00Z"},
		{ListingID: "a", Type: "bogus", OccurredAt: "2026-08-20T01:00:00Z"},
		{ListingID: "a", Type: "profile_view", OccurredAt: "2026-08-20T02:00:00Z"},
	}
	if err := pipeline.ProcessBatch(context.Background(), events); err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	if got := repo.rows[GroupKey{"a", "2026-08-20"}].Views; got != 2 {
		t.Fatalf("views = %d, want 2 (invalid events skipped)", got)
	}
	if len(archiver.batches) != 1 || len(archiver.batches[0]) != 4 {
		t.Fatalf("expected the raw batch archived once, got %d", len(archiver.batches))
	}
}

func TestPipelineFailurePropagatesAndSkipsArchive(t *testing.T) {
	repo := newFakeStatsRepo()
	repo.failOn = 0
	archiver := &fakeArchiver{}
	pipeline := NewPipeline(NewMerger(repo, zerolog.Nop()), archiver, zerolog.Nop())

	events := []domain.Event{
		{ListingID: "a", Type: "profile_view", OccurredAt: "2026-08-20T01:00:00Z"},
	}
	if err := pipeline.ProcessBatch(context.Background(), events); err == nil {
		t.Fatal("ProcessBatch should propagate the store failure")
	}
	if len(archiver.batches) != 0 {
		t.Fatal("failed batch must not be archived")
	}
}

func TestPipelineEmptyBatchIsNoop(t *testing.T) {
	repo := newFakeStatsRepo()
	pipeline := NewPipeline(NewMerger(repo, zerolog.Nop()), nil, zerolog.Nop())

	if err := pipeline.ProcessBatch(context.Background(), nil); err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("empty batch wrote %d times", repo.writes)
	}
}
