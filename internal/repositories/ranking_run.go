package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobfit/resume-ranker/internal/models"
)

var ErrRunNotFound = errors.New("ranking run not found")

type RankingRunRepository interface {
	Create(run *models.RankingRun) error
	FindByID(id uuid.UUID) (*models.RankingRun, error)
	ClaimQueued(id uuid.UUID) (bool, error)
	SaveResults(id uuid.UUID, results []models.RankingResult) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingRuns(limit int) ([]models.RankingRun, error)
	RequeueStale(before time.Time) (int64, error)
}

type rankingRunRepository struct {
	db *gorm.DB
}

func NewRankingRunRepository(db *gorm.DB) RankingRunRepository {
	return &rankingRunRepository{db: db}
}

func (r *rankingRunRepository) Create(run *models.RankingRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create ranking run: %w", err)
	}
	return nil
}

// FindByID loads a run with its results ordered by rank.
func (r *rankingRunRepository) FindByID(id uuid.UUID) (*models.RankingRun, error) {
	var run models.RankingRun
	err := r.db.
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC")
		}).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find ranking run: %w", err)
	}
	return &run, nil
}

// ClaimQueued moves a queued run to processing. It reports false when the run
// is not queued, so a run enqueued twice is only processed once.
func (r *rankingRunRepository) ClaimQueued(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.RankingRun{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim ranking run: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// SaveResults stores the ranked rows and marks the run completed in one
// transaction, so a run never shows partial results.
func (r *rankingRunRepository) SaveResults(id uuid.UUID, results []models.RankingResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range results {
			results[i].RunID = id
		}

		if len(results) > 0 {
			if err := tx.Create(&results).Error; err != nil {
				return fmt.Errorf("failed to save results: %w", err)
			}
		}

		result := tx.Model(&models.RankingRun{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     models.StatusCompleted,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to complete ranking run: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRunNotFound
		}

		return nil
	})
}

func (r *rankingRunRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.RankingRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRunNotFound
	}

	return nil
}

func (r *rankingRunRepository) FindPendingRuns(limit int) ([]models.RankingRun, error) {
	var runs []models.RankingRun
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending runs: %w", err)
	}

	return runs, nil
}

// RequeueStale puts runs stuck in processing since before back in the queue,
// for example after the process handling them crashed.
func (r *rankingRunRepository) RequeueStale(before time.Time) (int64, error) {
	result := r.db.Model(&models.RankingRun{}).
		Where("status = ? AND updated_at < ?", models.StatusProcessing, before).
		Updates(map[string]interface{}{
			"status":     models.StatusQueued,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue stale runs: %w", result.Error)
	}

	return result.RowsAffected, nil
}
