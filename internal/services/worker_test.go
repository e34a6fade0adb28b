package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
)

type channelProcessor struct {
	processed chan uuid.UUID
}

func (p *channelProcessor) ProcessRun(_ context.Context, runID uuid.UUID) error {
	select {
	case p.processed <- runID:
	default:
	}
	return nil
}

func TestWorker_ProcessesEnqueuedRuns(t *testing.T) {
	processor := &channelProcessor{processed: make(chan uuid.UUID, 2)}
	w := NewWorker(newFakeRunRepo(), processor, zap.NewNop(), 2, 4, time.Hour, 0)
	w.Start(context.Background())
	defer w.Stop()

	first, second := uuid.New(), uuid.New()
	w.EnqueueRun(first)
	w.EnqueueRun(second)

	got := map[uuid.UUID]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-processor.processed:
			got[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for run to be processed")
		}
	}
	assert.True(t, got[first])
	assert.True(t, got[second])
}

func TestWorker_PollsPendingRuns(t *testing.T) {
	runRepo := newFakeRunRepo()
	runID := uuid.New()
	require.NoError(t, runRepo.Create(&models.RankingRun{ID: runID, Status: models.StatusQueued}))

	processor := &channelProcessor{processed: make(chan uuid.UUID, 10)}
	w := NewWorker(runRepo, processor, zap.NewNop(), 1, 10, 20*time.Millisecond, 0)
	w.Start(context.Background())
	defer w.Stop()

	select {
	case id := <-processor.processed:
		assert.Equal(t, runID, id)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pending run")
	}
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	w := NewWorker(newFakeRunRepo(), &channelProcessor{processed: make(chan uuid.UUID, 1)}, zap.NewNop(), 1, 1, time.Hour, 0)
	w.Start(context.Background())

	w.Stop()
	w.Stop()

	done := make(chan struct{})
	go func() {
		w.EnqueueRun(uuid.New())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked after stop")
	}
}

func TestWorker_RequeuesStaleProcessingRuns(t *testing.T) {
	runRepo := newFakeRunRepo()
	stale, fresh := uuid.New(), uuid.New()
	require.NoError(t, runRepo.Create(&models.RankingRun{
		ID:        stale,
		Status:    models.StatusProcessing,
		UpdatedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, runRepo.Create(&models.RankingRun{
		ID:        fresh,
		Status:    models.StatusProcessing,
		UpdatedAt: time.Now(),
	}))

	processor := &channelProcessor{processed: make(chan uuid.UUID, 10)}
	w := NewWorker(runRepo, processor, zap.NewNop(), 1, 10, 20*time.Millisecond, time.Minute)
	w.Start(context.Background())
	defer w.Stop()

	select {
	case id := <-processor.processed:
		assert.Equal(t, stale, id)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stale run")
	}

	run, err := runRepo.FindByID(fresh)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, run.Status)
}
