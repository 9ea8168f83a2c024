package service

import (
	"fmt"
	"time"

	"github.com/AreteDriver/marketing-engine/internal/models"
)

// Approval transitions are valid from any prior status: re-approving,
// re-editing or re-rejecting a post is permitted so operators can
// correct mistakes. Each transition writes through the store and then
// reads the post back, failing with ErrNotFound on a stale ID.

// ApprovePost marks a post as approved for publishing.
func ApprovePost(store Store, postID string) (*models.PostDraft, error) {
	if err := store.UpdateApproval(postID, models.ApprovalApproved, "", ""); err != nil {
		return nil, err
	}
	post, err := store.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: %s (after approval)", ErrNotFound, postID)
	}
	return post, nil
}

// EditPost replaces a post's content and marks it as edited. The edited
// content becomes the effective content at publish time.
func EditPost(store Store, postID, newContent string) (*models.PostDraft, error) {
	if err := store.UpdateApproval(postID, models.ApprovalEdited, newContent, ""); err != nil {
		return nil, err
	}
	post, err := store.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: %s (after edit)", ErrNotFound, postID)
	}
	return post, nil
}

// RejectPost marks a post as rejected with an optional reason.
func RejectPost(store Store, postID, reason string) (*models.PostDraft, error) {
	if err := store.UpdateApproval(postID, models.ApprovalRejected, "", reason); err != nil {
		return nil, err
	}
	post, err := store.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: %s (after rejection)", ErrNotFound, postID)
	}
	return post, nil
}

// GetReviewQueue returns all posts awaiting review, optionally limited
// to the 7-day window starting at weekOf.
func GetReviewQueue(store Store, weekOf *time.Time) ([]*models.PostDraft, error) {
	return store.GetPending(weekOf)
}

// ApprovalSummary holds per-status post counts.
type ApprovalSummary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Edited   int `json:"edited"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// GetApprovalSummary counts posts per approval status, scoped to a week
// when weekOf is given, across all posts otherwise.
func GetApprovalSummary(store Store, weekOf *time.Time) (ApprovalSummary, error) {
	var (
		posts []*models.PostDraft
		err   error
	)
	if weekOf != nil {
		posts, err = store.GetQueue(*weekOf)
	} else {
		posts, err = store.GetAllPosts()
	}
	if err != nil {
		return ApprovalSummary{}, err
	}

	var summary ApprovalSummary
	for _, post := range posts {
		switch post.ApprovalStatus {
		case models.ApprovalPending:
			summary.Pending++
		case models.ApprovalApproved:
			summary.Approved++
		case models.ApprovalEdited:
			summary.Edited++
		case models.ApprovalRejected:
			summary.Rejected++
		}
		summary.Total++
	}
	return summary, nil
}
