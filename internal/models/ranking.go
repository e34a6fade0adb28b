package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	StatusQueued     RunStatus = "queued"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// ExtractionStatus tells how text was recovered from a resume.
type ExtractionStatus string

const (
	ExtractionOK        ExtractionStatus = "ok"
	ExtractionNoContent ExtractionStatus = "no_content"
	ExtractionFailed    ExtractionStatus = "failed"
)

type RankingRun struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription string    `gorm:"type:text;not null" json:"job_description"`
	Status         RunStatus `gorm:"not null;default:'queued'" json:"status"`
	ErrorMessage   *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Results []RankingResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
}

func (RankingRun) TableName() string {
	return "ranking_runs"
}

type RankingResult struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RunID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"run_id"`
	DocumentID       *uuid.UUID       `gorm:"type:uuid" json:"document_id,omitempty"`
	ResumeName       string           `gorm:"type:text;not null" json:"resume"`
	Score            int              `gorm:"not null" json:"score"`
	Rank             int              `gorm:"not null" json:"rank"`
	ExtractionStatus ExtractionStatus `gorm:"type:text;not null" json:"extraction_status"`
	ExtractionError  *string          `gorm:"type:text" json:"extraction_error,omitempty"`
	CreatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (RankingResult) TableName() string {
	return "ranking_results"
}
