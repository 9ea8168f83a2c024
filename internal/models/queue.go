package models

import "time"

// WeeklyQueue is an in-memory aggregation of a week's scheduled posts.
// It is never persisted; the post_drafts table is the source of truth.
type WeeklyQueue struct {
	WeekOf time.Time
	Posts  []*PostDraft
}

// TotalByPlatform counts posts grouped by platform.
func (q *WeeklyQueue) TotalByPlatform() map[Platform]int {
	counts := make(map[Platform]int)
	for _, post := range q.Posts {
		counts[post.Platform]++
	}
	return counts
}

// TotalByStream counts posts grouped by content stream.
func (q *WeeklyQueue) TotalByStream() map[ContentStream]int {
	counts := make(map[ContentStream]int)
	for _, post := range q.Posts {
		counts[post.Stream]++
	}
	return counts
}

// PendingCount counts posts still awaiting review.
func (q *WeeklyQueue) PendingCount() int {
	n := 0
	for _, post := range q.Posts {
		if post.ApprovalStatus == ApprovalPending {
			n++
		}
	}
	return n
}

// ApprovedCount counts posts cleared for publishing (approved or edited).
func (q *WeeklyQueue) ApprovedCount() int {
	n := 0
	for _, post := range q.Posts {
		if post.ApprovalStatus.Publishable() {
			n++
		}
	}
	return n
}
