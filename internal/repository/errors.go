package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrReplyNotFound is returned when a reply is not found or does not
	// belong to the given task
	ErrReplyNotFound = errors.New("reply not found")

	// ErrReplyResolved is returned when a responder resubmits over a reply
	// the poster has already accepted
	ErrReplyResolved = errors.New("reply already accepted")

	// ErrDuplicateReview is returned when a reviewer rates the same task twice
	ErrDuplicateReview = errors.New("review already submitted for this task")
)
