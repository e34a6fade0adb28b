package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/ranking"
)

var (
	ErrEmptyJobDescription = errors.New("job description is required")
	ErrNoValidCandidates   = errors.New("no valid resumes found")
)

// RankedDocument is one ranked resume together with how its text was obtained.
type RankedDocument struct {
	Index            int
	Name             string
	Score            int
	Rank             int
	ExtractionStatus models.ExtractionStatus
	ExtractionError  error
}

// BatchResult holds the documents of one ranking call, best first.
type BatchResult struct {
	Documents []RankedDocument
}

// ScoredResults drops the extraction details, keeping rank order.
func (b *BatchResult) ScoredResults() []ranking.ScoredResult {
	results := make([]ranking.ScoredResult, len(b.Documents))
	for i, d := range b.Documents {
		results[i] = ranking.ScoredResult{Name: d.Name, Score: d.Score, Rank: d.Rank}
	}
	return results
}

// Warnings lists the documents that were ranked without usable text.
func (b *BatchResult) Warnings() []string {
	var warnings []string
	for _, d := range b.Documents {
		switch d.ExtractionStatus {
		case models.ExtractionFailed:
			warnings = append(warnings, fmt.Sprintf("%s: %v", d.Name, d.ExtractionError))
		case models.ExtractionNoContent:
			warnings = append(warnings, fmt.Sprintf("%s: %s", d.Name, NoTextFound))
		}
	}
	return warnings
}

type RankingService interface {
	RankDocuments(ctx context.Context, jobDescription string, files []models.ResumeFile) (*BatchResult, error)
}

type rankingService struct {
	extractor TextExtractor
	logger    *zap.Logger
	options   []ranking.Option
}

func NewRankingService(extractor TextExtractor, logger *zap.Logger, options ...ranking.Option) RankingService {
	return &rankingService{
		extractor: extractor,
		logger:    logger,
		options:   options,
	}
}

// RankDocuments extracts every file and ranks the texts against the job
// description. A file that cannot be decoded is ranked with the no-text
// placeholder and flagged, so it never aborts the batch.
func (s *rankingService) RankDocuments(ctx context.Context, jobDescription string, files []models.ResumeFile) (*BatchResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}

	if len(files) == 0 {
		return &BatchResult{Documents: []RankedDocument{}}, nil
	}

	docs := make([]RankedDocument, len(files))
	texts := make([]string, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ranking cancelled: %w", err)
		}

		docs[i] = RankedDocument{Index: i, Name: file.Name, ExtractionStatus: models.ExtractionOK}

		var (
			text string
			err  error
		)
		if file.Err != nil {
			err = &ExtractionError{Name: file.Name, Err: file.Err}
		} else {
			text, err = s.extractor.ExtractText(file)
		}

		switch {
		case err != nil:
			s.logger.Warn("⚠️  Failed to extract resume, ranking it without text",
				zap.String("resume", file.Name),
				zap.Error(err))
			text = NoTextFound
			docs[i].ExtractionStatus = models.ExtractionFailed
			docs[i].ExtractionError = err
		case text == NoTextFound:
			s.logger.Info("📄 Resume has no extractable text", zap.String("resume", file.Name))
			docs[i].ExtractionStatus = models.ExtractionNoContent
		}

		texts[i] = text
	}

	scores, err := ranking.Rank(jobDescription, texts, s.options...)
	if err != nil {
		if errors.Is(err, ranking.ErrEmptyVocabulary) {
			return nil, fmt.Errorf("%w: %v", ErrNoValidCandidates, err)
		}
		return nil, fmt.Errorf("failed to rank resumes: %w", err)
	}

	ranked := make([]RankedDocument, 0, len(docs))
	for position, i := range ranking.Order(scores) {
		doc := docs[i]
		doc.Score = scores[i]
		doc.Rank = position + 1
		ranked = append(ranked, doc)
	}

	s.logger.Info("🏆 Ranked resumes",
		zap.Int("count", len(ranked)),
		zap.Int("top_score", ranked[0].Score))

	return &BatchResult{Documents: ranked}, nil
}

// RankingOptions maps configuration flags to analyzer options.
func RankingOptions(stemming, stopWords bool) []ranking.Option {
	var opts []ranking.Option
	if stopWords {
		opts = append(opts, ranking.WithStopWords(ranking.EnglishStopWords))
	}
	if stemming {
		opts = append(opts, ranking.WithStemming())
	}
	return opts
}
