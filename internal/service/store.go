package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AreteDriver/marketing-engine/internal/models"
)

// Store is the persistence contract the scheduling, approval and publish
// logic depends on. GetPost returns (nil, nil) when no post matches.
type Store interface {
	SavePipelineRun(run *models.PipelineRun) error
	UpdatePipelineRun(run *models.PipelineRun) error
	GetPipelineRuns(limit int) ([]*models.PipelineRun, error)

	SaveBrief(brief *models.ContentBrief, runID string) error
	SaveDraft(draft *models.PostDraft, runID string) error

	GetPost(postID string) (*models.PostDraft, error)
	GetQueue(weekOf time.Time) ([]*models.PostDraft, error)
	GetPending(weekOf *time.Time) ([]*models.PostDraft, error)
	GetAllPosts() ([]*models.PostDraft, error)
	GetPublishable(now time.Time) ([]*models.PostDraft, error)

	UpdateApproval(postID string, status models.ApprovalStatus, editedContent, rejectionReason string) error
	UpdatePublishStatus(postID string, status models.PublishStatus, meta PublishMeta) error

	SavePublishLog(entry *models.PublishLogEntry) error
	GetPublishHistory(limit int) ([]*models.PublishLogEntry, error)
}

// PublishMeta carries the publish metadata persisted alongside a publish
// status change. All fields are written, clearing stale values.
type PublishMeta struct {
	PublishedAt    *time.Time
	PostURL        string
	PlatformPostID string
	PublishError   string
}

// GormStore implements Store on a gorm-managed PostgreSQL database.
// Week windows are computed in loc, which must match the schedule
// timezone so late local slots stay inside their own week.
type GormStore struct {
	db  *gorm.DB
	loc *time.Location
}

func NewGormStore(db *gorm.DB, loc *time.Location) *GormStore {
	if loc == nil {
		loc = time.UTC
	}
	return &GormStore{db: db, loc: loc}
}

func (s *GormStore) SavePipelineRun(run *models.PipelineRun) error {
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to save pipeline run %s: %w", run.ID, err)
	}
	return nil
}

func (s *GormStore) UpdatePipelineRun(run *models.PipelineRun) error {
	err := s.db.Model(&models.PipelineRun{}).Where("id = ?", run.ID).Updates(map[string]interface{}{
		"completed_at": run.CompletedAt,
		"briefs_count": run.BriefsCount,
		"drafts_count": run.DraftsCount,
		"posts_count":  run.PostsCount,
		"status":       run.Status,
		"error":        run.Error,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update pipeline run %s: %w", run.ID, err)
	}
	return nil
}

func (s *GormStore) GetPipelineRuns(limit int) ([]*models.PipelineRun, error) {
	var runs []*models.PipelineRun
	if err := s.db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to get pipeline runs: %w", err)
	}
	return runs, nil
}

func (s *GormStore) SaveBrief(brief *models.ContentBrief, runID string) error {
	brief.PipelineRunID = runID
	if err := s.db.Create(brief).Error; err != nil {
		return fmt.Errorf("failed to save brief %s: %w", brief.ID, err)
	}
	return nil
}

func (s *GormStore) SaveDraft(draft *models.PostDraft, runID string) error {
	draft.PipelineRunID = runID
	if err := s.db.Create(draft).Error; err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.ID, err)
	}
	return nil
}

func (s *GormStore) GetPost(postID string) (*models.PostDraft, error) {
	var post models.PostDraft
	err := s.db.Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", postID, err)
	}
	return &post, nil
}

// GetQueue returns all posts scheduled inside the 7-day window starting
// at weekOf (the Monday of the target week).
func (s *GormStore) GetQueue(weekOf time.Time) ([]*models.PostDraft, error) {
	start, end := s.weekWindow(weekOf)
	var posts []*models.PostDraft
	err := s.db.
		Where("scheduled_time >= ? AND scheduled_time < ?", start, end).
		Order("scheduled_time").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get queue for %s: %w", weekOf.Format("2006-01-02"), err)
	}
	return posts, nil
}

func (s *GormStore) GetPending(weekOf *time.Time) ([]*models.PostDraft, error) {
	query := s.db.Where("approval_status = ?", models.ApprovalPending)
	if weekOf != nil {
		start, end := s.weekWindow(*weekOf)
		query = query.Where("scheduled_time >= ? AND scheduled_time < ?", start, end)
	}

	var posts []*models.PostDraft
	if err := query.Order("scheduled_time").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get pending posts: %w", err)
	}
	return posts, nil
}

func (s *GormStore) GetAllPosts() ([]*models.PostDraft, error) {
	var posts []*models.PostDraft
	if err := s.db.Order("scheduled_time").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	return posts, nil
}

func (s *GormStore) GetPublishable(now time.Time) ([]*models.PostDraft, error) {
	var posts []*models.PostDraft
	err := s.db.
		Where("approval_status IN ?", []models.ApprovalStatus{models.ApprovalApproved, models.ApprovalEdited}).
		Where("publish_status = ?", models.PublishPending).
		Where("scheduled_time <= ?", now).
		Order("scheduled_time").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get publishable posts: %w", err)
	}
	return posts, nil
}

func (s *GormStore) UpdateApproval(postID string, status models.ApprovalStatus, editedContent, rejectionReason string) error {
	err := s.db.Model(&models.PostDraft{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"approval_status":  status,
		"edited_content":   editedContent,
		"rejection_reason": rejectionReason,
		"updated_at":       time.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update approval for %s: %w", postID, err)
	}
	return nil
}

func (s *GormStore) UpdatePublishStatus(postID string, status models.PublishStatus, meta PublishMeta) error {
	err := s.db.Model(&models.PostDraft{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"publish_status":   status,
		"published_at":     meta.PublishedAt,
		"post_url":         meta.PostURL,
		"platform_post_id": meta.PlatformPostID,
		"publish_error":    meta.PublishError,
		"updated_at":       time.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update publish status for %s: %w", postID, err)
	}
	return nil
}

func (s *GormStore) SavePublishLog(entry *models.PublishLogEntry) error {
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save publish log: %w", err)
	}
	return nil
}

// GetPublishHistory returns recent log entries, newest first. Ordered by
// insertion time: published_at is null for failed attempts.
func (s *GormStore) GetPublishHistory(limit int) ([]*models.PublishLogEntry, error) {
	var entries []*models.PublishLogEntry
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get publish history: %w", err)
	}
	return entries, nil
}

// weekWindow bounds the 7 local days starting at weekOf's calendar
// date. Scheduled times live in the schedule timezone, so a Sunday
// 21:00 slot there is already Monday in UTC; bounding in loc keeps it
// inside its own week.
func (s *GormStore) weekWindow(weekOf time.Time) (start, end time.Time) {
	start = time.Date(weekOf.Year(), weekOf.Month(), weekOf.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 7)
}
