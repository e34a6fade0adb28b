package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/repositories"
	"jobfit/resume-ranker/internal/services"
)

type UploadHandler struct {
	runRepo        repositories.RankingRunRepository
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	worker         services.Worker
	logger         *zap.Logger
	maxFileSize    int64
	maxFiles       int
}

func NewUploadHandler(
	runRepo repositories.RankingRunRepository,
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	worker services.Worker,
	logger *zap.Logger,
	maxFileSize int64,
	maxFiles int,
) *UploadHandler {
	return &UploadHandler{
		runRepo:        runRepo,
		docRepo:        docRepo,
		storageService: storageService,
		worker:         worker,
		logger:         logger,
		maxFileSize:    maxFileSize,
		maxFiles:       maxFiles,
	}
}

// HandleCreateRun handles POST /rankings. The resumes are stored and ranked
// in the background; the response carries the run ID to poll.
func (h *UploadHandler) HandleCreateRun(c *fiber.Ctx) error {
	form, err := parseRankForm(c, h.maxFileSize, h.maxFiles)
	if err != nil {
		return respondError(c, err)
	}

	runID := uuid.New()
	var saved []string
	cleanup := func() {
		for _, filename := range saved {
			if err := h.storageService.DeleteFile(filename); err != nil {
				h.logger.Warn("⚠️  Failed to clean up upload", zap.String("file", filename), zap.Error(err))
			}
		}
	}

	responses := make([]models.UploadResponse, 0, len(form.files))
	for i, file := range form.files {
		filename, filePath, err := h.storageService.SaveFile(file, runID)
		if err != nil {
			cleanup()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save resume %s: %v", file.Filename, err),
			})
		}
		saved = append(saved, filename)

		doc := models.Document{
			ID:               uuid.New(),
			RunID:            runID,
			Position:         i,
			Filename:         filename,
			OriginalFileName: file.Filename,
			FileType:         services.DetectFileType(file.Filename, file.Header.Get("Content-Type")),
			FilePath:         filePath,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}

		if err := h.docRepo.Create(&doc); err != nil {
			cleanup()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save resume document record",
			})
		}

		responses = append(responses, models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			FileType:     doc.FileType,
		})
	}

	// The run is created last so the poller never sees it without documents.
	run := &models.RankingRun{
		ID:             runID,
		JobDescription: form.jobDescription,
		Status:         models.StatusQueued,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := h.runRepo.Create(run); err != nil {
		cleanup()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create ranking run",
		})
	}

	h.worker.EnqueueRun(run.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.CreateRunResponse{
		ID:        run.ID.String(),
		Status:    string(models.StatusQueued),
		Documents: responses,
	})
}
