package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/ranking"
	"jobfit/resume-ranker/internal/repositories"
)

type ResultHandler struct {
	runRepo repositories.RankingRunRepository
}

func NewResultHandler(runRepo repositories.RankingRunRepository) *ResultHandler {
	return &ResultHandler{
		runRepo: runRepo,
	}
}

// HandleGetResult handles GET /rankings/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return respondError(c, err)
	}

	response := models.RunResponse{
		ID:     run.ID.String(),
		Status: string(run.Status),
	}

	if run.Status == models.StatusCompleted {
		response.Results = make([]models.RankedResume, len(run.Results))
		for i, r := range run.Results {
			response.Results[i] = models.RankedResume{
				Resume:           r.ResumeName,
				Score:            r.Score,
				Rank:             r.Rank,
				ExtractionStatus: string(r.ExtractionStatus),
			}
			if r.ExtractionError != nil {
				response.Results[i].ExtractionError = *r.ExtractionError
			}
		}
	}

	if run.Status == models.StatusFailed && run.ErrorMessage != nil {
		response.ErrorMessage = run.ErrorMessage
	}

	return c.JSON(response)
}

// HandleExport handles GET /rankings/:id/export
func (h *ResultHandler) HandleExport(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return respondError(c, err)
	}

	if run.Status != models.StatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "Ranking run is not completed",
			"status": run.Status,
		})
	}

	results := make([]ranking.ScoredResult, len(run.Results))
	for i, r := range run.Results {
		results[i] = ranking.ScoredResult{Name: r.ResumeName, Score: r.Score, Rank: r.Rank}
	}

	c.Attachment(exportFilename)
	return ranking.WriteCSV(c, results)
}

func (h *ResultHandler) findRun(c *fiber.Ctx) (*models.RankingRun, error) {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid ranking run ID format")
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		if errors.Is(err, repositories.ErrRunNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Ranking run not found")
		}
		return nil, err
	}

	return run, nil
}
