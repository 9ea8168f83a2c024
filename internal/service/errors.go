package service

import "errors"

var (
	// ErrNotFound means a referenced post does not exist in the store.
	ErrNotFound = errors.New("post not found")

	// ErrNotApproved means a publish was requested for a post whose
	// approval status is not approved or edited.
	ErrNotApproved = errors.New("post is not approved")
)
