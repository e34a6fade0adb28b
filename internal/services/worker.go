package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRun(runID uuid.UUID)
}

type worker struct {
	runRepo      repositories.RankingRunRepository
	processor    RunProcessor
	logger       *zap.Logger
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	staleAfter   time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	runRepo repositories.RankingRunRepository,
	processor RunProcessor,
	logger *zap.Logger,
	concurrency int,
	queueSize int,
	pollInterval time.Duration,
	staleAfter time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		runRepo:      runRepo,
		processor:    processor,
		logger:       logger,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		staleAfter:   staleAfter,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("🚀 Starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processRuns(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingRuns(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("✅ Worker stopped")
	})
}

// EnqueueRun implements Worker. It blocks while the queue is full.
func (w *worker) EnqueueRun(runID uuid.UUID) {
	select {
	case <-w.stopChan:
		w.logger.Warn("⚠️  Worker stopped, cannot enqueue run", zap.String("run_id", runID.String()))
		return
	default:
	}

	select {
	case w.jobQueue <- runID:
		w.logger.Info("📥 Run enqueued", zap.String("run_id", runID.String()))
	case <-w.stopChan:
		w.logger.Warn("⚠️  Worker stopped, cannot enqueue run", zap.String("run_id", runID.String()))
	}
}

func (w *worker) processRuns(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("👷 Worker stopped", zap.Int("worker", workerID))
			return
		case <-ctx.Done():
			return
		case runID := <-w.jobQueue:
			w.logger.Info("👷 Processing run", zap.Int("worker", workerID), zap.String("run_id", runID.String()))
			if err := w.processor.ProcessRun(ctx, runID); err != nil {
				w.logger.Error("❌ Failed to process run",
					zap.Int("worker", workerID),
					zap.String("run_id", runID.String()),
					zap.Error(err))
			}
		}
	}
}

// pollPendingRuns picks up queued runs that were never enqueued in memory,
// for example after a restart.
func (w *worker) pollPendingRuns(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.requeueStaleRuns()

			pendingRuns, err := w.runRepo.FindPendingRuns(10)
			if err != nil {
				w.logger.Warn("⚠️  Failed to fetch pending runs", zap.Error(err))
				continue
			}

			if len(pendingRuns) > 0 {
				w.logger.Info("📋 Found pending runs", zap.Int("count", len(pendingRuns)))
			}

			for _, run := range pendingRuns {
				w.EnqueueRun(run.ID)
			}
		}
	}
}

// requeueStaleRuns returns runs left in processing for longer than staleAfter
// to the queue. A zero staleAfter disables it.
func (w *worker) requeueStaleRuns() {
	if w.staleAfter <= 0 {
		return
	}

	count, err := w.runRepo.RequeueStale(time.Now().Add(-w.staleAfter))
	if err != nil {
		w.logger.Warn("⚠️  Failed to requeue stale runs", zap.Error(err))
		return
	}
	if count > 0 {
		w.logger.Warn("♻️  Requeued stale runs", zap.Int64("count", count))
	}
}
