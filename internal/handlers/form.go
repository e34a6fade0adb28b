package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/services"
)

const missingInputMessage = "Please upload resumes and enter a job description to proceed."

type rankForm struct {
	jobDescription string
	files          []*multipart.FileHeader
}

// parseRankForm reads the job description and resume files of a ranking
// request. Validation failures are returned as *fiber.Error.
func parseRankForm(c *fiber.Ctx, maxFileSize int64, maxFiles int) (*rankForm, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	var jobDescription string
	if values := form.Value["job_description"]; len(values) > 0 {
		jobDescription = strings.TrimSpace(values[0])
	}

	files := form.File["resumes"]
	if jobDescription == "" || len(files) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, missingInputMessage)
	}

	if maxFiles > 0 && len(files) > maxFiles {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Too many resumes. Max files: %d", maxFiles))
	}

	for _, file := range files {
		if file.Size > maxFileSize {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Resume %s too large. Max size: %d bytes", file.Filename, maxFileSize))
		}

		switch strings.ToLower(filepath.Ext(file.Filename)) {
		case ".pdf", ".docx", ".txt":
		default:
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Resume %s has an unsupported file type. Upload PDF, DOCX or TXT files.", file.Filename))
		}
	}

	return &rankForm{jobDescription: jobDescription, files: files}, nil
}

func readResumeFiles(headers []*multipart.FileHeader) ([]models.ResumeFile, error) {
	files := make([]models.ResumeFile, len(headers))
	for i, header := range headers {
		src, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}

		files[i] = models.ResumeFile{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		}
	}
	return files, nil
}

func respondError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	case errors.Is(err, services.ErrEmptyJobDescription):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": missingInputMessage})
	case errors.Is(err, services.ErrNoValidCandidates):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "No valid resumes found. Please check the uploaded files.",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// ErrorHandler renders unhandled errors as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func toRankedResumes(docs []services.RankedDocument) []models.RankedResume {
	resumes := make([]models.RankedResume, len(docs))
	for i, d := range docs {
		resumes[i] = models.RankedResume{
			Resume:           d.Name,
			Score:            d.Score,
			Rank:             d.Rank,
			ExtractionStatus: string(d.ExtractionStatus),
		}
		if d.ExtractionError != nil {
			resumes[i].ExtractionError = d.ExtractionError.Error()
		}
	}
	return resumes
}
