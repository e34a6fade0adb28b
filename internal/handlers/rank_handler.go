package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/ranking"
	"jobfit/resume-ranker/internal/services"
)

const exportFilename = "resume_ranking_results.csv"

type RankHandler struct {
	rankingService services.RankingService
	maxFileSize    int64
	maxFiles       int
}

func NewRankHandler(rankingService services.RankingService, maxFileSize int64, maxFiles int) *RankHandler {
	return &RankHandler{
		rankingService: rankingService,
		maxFileSize:    maxFileSize,
		maxFiles:       maxFiles,
	}
}

// HandleRank handles POST /rank. It ranks the uploaded resumes synchronously
// and returns JSON, or a CSV download with ?format=csv. Nothing is stored.
func (h *RankHandler) HandleRank(c *fiber.Ctx) error {
	form, err := parseRankForm(c, h.maxFileSize, h.maxFiles)
	if err != nil {
		return respondError(c, err)
	}

	files, err := readResumeFiles(form.files)
	if err != nil {
		return respondError(c, err)
	}

	batch, err := h.rankingService.RankDocuments(c.UserContext(), form.jobDescription, files)
	if err != nil {
		return respondError(c, err)
	}

	if c.Query("format") == "csv" {
		c.Attachment(exportFilename)
		return ranking.WriteCSV(c, batch.ScoredResults())
	}

	return c.JSON(models.RankResponse{
		Count:    len(batch.Documents),
		Results:  toRankedResumes(batch.Documents),
		Warnings: batch.Warnings(),
	})
}
