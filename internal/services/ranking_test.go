package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/ranking"
)

func TestRankDocuments_RanksAndFlagsDocuments(t *testing.T) {
	service := newTestRankingService()

	files := []models.ResumeFile{
		textFile("design.txt", "graphic designer with Photoshop skills"),
		{Name: "broken.pdf", MimeType: MimePDF, Data: []byte("not a pdf")},
		textFile("ml.txt", "experienced python and ML developer"),
		textFile("blank.txt", "   "),
	}

	batch, err := service.RankDocuments(context.Background(), "python developer with machine learning experience", files)
	require.NoError(t, err)
	require.Len(t, batch.Documents, len(files))

	names := make([]string, len(batch.Documents))
	for i, d := range batch.Documents {
		names[i] = d.Name
		assert.Equal(t, i+1, d.Rank)
		assert.GreaterOrEqual(t, d.Score, 0)
		assert.LessOrEqual(t, d.Score, 100)
	}
	assert.Equal(t, []string{"ml.txt", "design.txt", "broken.pdf", "blank.txt"}, names)

	assert.Equal(t, 2, batch.Documents[0].Index)
	assert.Equal(t, models.ExtractionOK, batch.Documents[0].ExtractionStatus)
	assert.Greater(t, batch.Documents[0].Score, batch.Documents[1].Score)

	broken := batch.Documents[2]
	assert.Equal(t, models.ExtractionFailed, broken.ExtractionStatus)
	assert.Equal(t, 0, broken.Score)
	var extErr *ExtractionError
	assert.True(t, errors.As(broken.ExtractionError, &extErr))

	assert.Equal(t, models.ExtractionNoContent, batch.Documents[3].ExtractionStatus)
	assert.Len(t, batch.Warnings(), 2)

	scored := batch.ScoredResults()
	assert.Equal(t, ranking.ScoredResult{Name: "ml.txt", Score: batch.Documents[0].Score, Rank: 1}, scored[0])
}

func TestRankDocuments_BlankResume(t *testing.T) {
	service := newTestRankingService()

	batch, err := service.RankDocuments(context.Background(), "data engineer", []models.ResumeFile{
		{Name: "blank.pdf", Data: buildPDF("")},
	})
	require.NoError(t, err)
	require.Len(t, batch.Documents, 1)

	assert.Equal(t, 0, batch.Documents[0].Score)
	assert.Equal(t, 1, batch.Documents[0].Rank)
	assert.Equal(t, models.ExtractionNoContent, batch.Documents[0].ExtractionStatus)
}

func TestRankDocuments_EmptyBatch(t *testing.T) {
	service := newTestRankingService()

	batch, err := service.RankDocuments(context.Background(), "data engineer", nil)
	require.NoError(t, err)
	assert.Empty(t, batch.Documents)
	assert.Empty(t, batch.ScoredResults())
}

func TestRankDocuments_Errors(t *testing.T) {
	service := newTestRankingService()

	_, err := service.RankDocuments(context.Background(), "  ", []models.ResumeFile{textFile("a.txt", "go")})
	assert.True(t, errors.Is(err, ErrEmptyJobDescription))

	_, err = service.RankDocuments(context.Background(), "a", []models.ResumeFile{textFile("b.txt", "b")})
	assert.True(t, errors.Is(err, ErrNoValidCandidates))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.RankDocuments(ctx, "data engineer", []models.ResumeFile{textFile("a.txt", "data")})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRankDocuments_Options(t *testing.T) {
	stemmed := NewRankingService(NewTextExtractor(zap.NewNop()), zap.NewNop(), RankingOptions(true, true)...)

	batch, err := stemmed.RankDocuments(context.Background(), "managing engineering teams", []models.ResumeFile{
		textFile("a.txt", "managed engineers in a team"),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, batch.Documents[0].Score)

	assert.Empty(t, RankingOptions(false, false))
	assert.Len(t, RankingOptions(true, true), 2)
}

func TestRankDocuments_UnloadedFileIsFailed(t *testing.T) {
	service := newTestRankingService()

	batch, err := service.RankDocuments(context.Background(), "data engineer", []models.ResumeFile{
		{Name: "gone.txt", MimeType: MimeText, Err: errors.New("file vanished")},
		textFile("kept.txt", "data engineer"),
	})
	require.NoError(t, err)
	require.Len(t, batch.Documents, 2)

	gone := batch.Documents[1]
	assert.Equal(t, "gone.txt", gone.Name)
	assert.Equal(t, 0, gone.Score)
	assert.Equal(t, models.ExtractionFailed, gone.ExtractionStatus)
	assert.ErrorContains(t, gone.ExtractionError, "file vanished")
	assert.Len(t, batch.Warnings(), 1)
}
