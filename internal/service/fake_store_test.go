package service

import (
	"errors"
	"sort"
	"time"

	"github.com/AreteDriver/marketing-engine/internal/models"
)

// fakeStore is an in-memory Store for tests. Mirrors the database
// implementation's quirks: updates against missing IDs are silent no-ops
// and GetPost returns (nil, nil) for unknown IDs.
type fakeStore struct {
	posts  map[string]*models.PostDraft
	briefs []*models.ContentBrief
	runs   []*models.PipelineRun
	logs   []*models.PublishLogEntry

	// Week windows are computed in loc, like GormStore. Defaults to UTC.
	loc *time.Location

	publishStatusErr error
	publishLogErr    error
}

func newFakeStore(posts ...*models.PostDraft) *fakeStore {
	s := &fakeStore{posts: make(map[string]*models.PostDraft)}
	for _, post := range posts {
		s.posts[post.ID] = post
	}
	return s
}

func (s *fakeStore) SavePipelineRun(run *models.PipelineRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *fakeStore) UpdatePipelineRun(run *models.PipelineRun) error {
	for i, existing := range s.runs {
		if existing.ID == run.ID {
			s.runs[i] = run
		}
	}
	return nil
}

func (s *fakeStore) GetPipelineRuns(limit int) ([]*models.PipelineRun, error) {
	runs := make([]*models.PipelineRun, len(s.runs))
	copy(runs, s.runs)
	// Newest first, matching the database's started_at DESC
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *fakeStore) SaveBrief(brief *models.ContentBrief, runID string) error {
	brief.PipelineRunID = runID
	s.briefs = append(s.briefs, brief)
	return nil
}

func (s *fakeStore) SaveDraft(draft *models.PostDraft, runID string) error {
	draft.PipelineRunID = runID
	s.posts[draft.ID] = draft
	return nil
}

func (s *fakeStore) GetPost(postID string) (*models.PostDraft, error) {
	post, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}
	return post, nil
}

func (s *fakeStore) weekWindow(weekOf time.Time) (start, end time.Time) {
	loc := s.loc
	if loc == nil {
		loc = time.UTC
	}
	start = time.Date(weekOf.Year(), weekOf.Month(), weekOf.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 7)
}

func (s *fakeStore) GetQueue(weekOf time.Time) ([]*models.PostDraft, error) {
	start, end := s.weekWindow(weekOf)
	var posts []*models.PostDraft
	for _, post := range s.posts {
		if post.ScheduledTime == nil {
			continue
		}
		if post.ScheduledTime.Before(start) || !post.ScheduledTime.Before(end) {
			continue
		}
		posts = append(posts, post)
	}
	sortPosts(posts)
	return posts, nil
}

func (s *fakeStore) GetPending(weekOf *time.Time) ([]*models.PostDraft, error) {
	var posts []*models.PostDraft
	for _, post := range s.posts {
		if post.ApprovalStatus != models.ApprovalPending {
			continue
		}
		if weekOf != nil {
			if post.ScheduledTime == nil {
				continue
			}
			start, end := s.weekWindow(*weekOf)
			if post.ScheduledTime.Before(start) || !post.ScheduledTime.Before(end) {
				continue
			}
		}
		posts = append(posts, post)
	}
	sortPosts(posts)
	return posts, nil
}

func (s *fakeStore) GetAllPosts() ([]*models.PostDraft, error) {
	var posts []*models.PostDraft
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	sortPosts(posts)
	return posts, nil
}

func (s *fakeStore) GetPublishable(now time.Time) ([]*models.PostDraft, error) {
	var posts []*models.PostDraft
	for _, post := range s.posts {
		if !post.ApprovalStatus.Publishable() {
			continue
		}
		if post.PublishStatus != models.PublishPending {
			continue
		}
		if post.ScheduledTime == nil || post.ScheduledTime.After(now) {
			continue
		}
		posts = append(posts, post)
	}
	sortPosts(posts)
	return posts, nil
}

func (s *fakeStore) UpdateApproval(postID string, status models.ApprovalStatus, editedContent, rejectionReason string) error {
	post, ok := s.posts[postID]
	if !ok {
		return nil
	}
	post.ApprovalStatus = status
	post.EditedContent = editedContent
	post.RejectionReason = rejectionReason
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakeStore) UpdatePublishStatus(postID string, status models.PublishStatus, meta PublishMeta) error {
	if s.publishStatusErr != nil {
		return s.publishStatusErr
	}
	post, ok := s.posts[postID]
	if !ok {
		return nil
	}
	post.PublishStatus = status
	post.PublishedAt = meta.PublishedAt
	post.PostURL = meta.PostURL
	post.PlatformPostID = meta.PlatformPostID
	post.PublishError = meta.PublishError
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakeStore) SavePublishLog(entry *models.PublishLogEntry) error {
	if s.publishLogErr != nil {
		return s.publishLogErr
	}
	s.logs = append(s.logs, entry)
	return nil
}

func (s *fakeStore) GetPublishHistory(limit int) ([]*models.PublishLogEntry, error) {
	entries := make([]*models.PublishLogEntry, len(s.logs))
	copy(entries, s.logs)
	// Newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *fakeStore) logsFor(postID string) []*models.PublishLogEntry {
	var entries []*models.PublishLogEntry
	for _, entry := range s.logs {
		if entry.PostID == postID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func sortPosts(posts []*models.PostDraft) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].ScheduledTime, posts[j].ScheduledTime
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		if ti.Equal(*tj) {
			return posts[i].ID < posts[j].ID
		}
		return ti.Before(*tj)
	})
}

var errStoreBroken = errors.New("store broken")
