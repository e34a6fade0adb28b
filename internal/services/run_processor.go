package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/repositories"
)

// RunProcessor ranks a queued run from its stored documents.
type RunProcessor interface {
	ProcessRun(ctx context.Context, runID uuid.UUID) error
}

type runProcessor struct {
	runRepo        repositories.RankingRunRepository
	docRepo        repositories.DocumentRepository
	storageService StorageService
	rankingService RankingService
	notifier       Notifier
	logger         *zap.Logger
}

func NewRunProcessor(
	runRepo repositories.RankingRunRepository,
	docRepo repositories.DocumentRepository,
	storageService StorageService,
	rankingService RankingService,
	notifier Notifier,
	logger *zap.Logger,
) RunProcessor {
	return &runProcessor{
		runRepo:        runRepo,
		docRepo:        docRepo,
		storageService: storageService,
		rankingService: rankingService,
		notifier:       notifier,
		logger:         logger,
	}
}

func (p *runProcessor) ProcessRun(ctx context.Context, runID uuid.UUID) error {
	log := p.logger.With(zap.String("run_id", runID.String()))

	claimed, err := p.runRepo.ClaimQueued(runID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if !claimed {
		log.Debug("run is not queued, skipping")
		return nil
	}
	p.notify(runID, models.StatusProcessing, "ranking started")

	log.Info("🔄 Starting ranking run")

	run, err := p.runRepo.FindByID(runID)
	if err != nil {
		return p.fail(runID, fmt.Errorf("failed to get ranking run: %w", err))
	}

	docs, err := p.docRepo.FindByRunID(runID)
	if err != nil {
		return p.fail(runID, fmt.Errorf("failed to get documents: %w", err))
	}
	defer p.cleanup(docs)

	files := make([]models.ResumeFile, len(docs))
	for i, doc := range docs {
		files[i] = models.ResumeFile{Name: doc.OriginalFileName, MimeType: doc.FileType}

		data, err := p.storageService.ReadFile(doc.Filename)
		if err != nil {
			log.Warn("⚠️  Stored resume is unreadable", zap.String("file", doc.Filename), zap.Error(err))
			files[i].Err = err
			continue
		}
		files[i].Data = data
	}

	batch, err := p.rankingService.RankDocuments(ctx, run.JobDescription, files)
	if err != nil {
		return p.fail(runID, err)
	}

	results := make([]models.RankingResult, len(batch.Documents))
	for i, ranked := range batch.Documents {
		docID := docs[ranked.Index].ID
		results[i] = models.RankingResult{
			ID:               uuid.New(),
			DocumentID:       &docID,
			ResumeName:       ranked.Name,
			Score:            ranked.Score,
			Rank:             ranked.Rank,
			ExtractionStatus: ranked.ExtractionStatus,
		}
		if ranked.ExtractionError != nil {
			msg := ranked.ExtractionError.Error()
			results[i].ExtractionError = &msg
		}
	}

	log.Info("💾 Saving ranking results", zap.Int("count", len(results)))
	if err := p.runRepo.SaveResults(runID, results); err != nil {
		return p.fail(runID, fmt.Errorf("failed to save results: %w", err))
	}

	p.notify(runID, models.StatusCompleted, fmt.Sprintf("ranked %d resumes", len(results)))
	log.Info("✅ Ranking run completed")

	return nil
}

func (p *runProcessor) fail(runID uuid.UUID, cause error) error {
	msg := cause.Error()
	if errors.Is(cause, ErrNoValidCandidates) {
		msg = "No valid resumes found. Please check the uploaded files."
	}

	if err := p.runRepo.UpdateError(runID, msg); err != nil {
		p.logger.Error("❌ Failed to record run error", zap.String("run_id", runID.String()), zap.Error(err))
	}
	p.notify(runID, models.StatusFailed, msg)

	return cause
}

// cleanup removes stored uploads once a run has finished, whatever the
// outcome. Document records stay as metadata for the results.
func (p *runProcessor) cleanup(docs []models.Document) {
	for _, doc := range docs {
		if err := p.storageService.DeleteFile(doc.Filename); err != nil {
			p.logger.Warn("⚠️  Failed to delete stored resume", zap.String("file", doc.Filename), zap.Error(err))
		}
	}
}

func (p *runProcessor) notify(runID uuid.UUID, status models.RunStatus, message string) {
	if err := p.notifier.PublishRunUpdate(runID, status, message); err != nil {
		p.logger.Warn("⚠️  Failed to publish run update", zap.String("run_id", runID.String()), zap.Error(err))
	}
}
