package models

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// PipelineRun records one execution of the content pipeline for a target
// week. Runs are created at pipeline start and updated on completion or
// failure; they are never deleted.
type PipelineRun struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	WeekOf      time.Time  `gorm:"not null;index" json:"week_of"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	BriefsCount int        `gorm:"default:0" json:"briefs_count"`
	DraftsCount int        `gorm:"default:0" json:"drafts_count"`
	PostsCount  int        `gorm:"default:0" json:"posts_count"`
	Status      string     `gorm:"size:20;not null;default:'running'" json:"status"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
}

// NewPipelineRun returns a running pipeline run for the given week.
func NewPipelineRun(weekOf time.Time) *PipelineRun {
	return &PipelineRun{
		ID:        uuid.NewString(),
		WeekOf:    weekOf,
		StartedAt: time.Now().UTC(),
		Status:    RunStatusRunning,
	}
}
