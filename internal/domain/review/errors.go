package review

import "errors"

var (
	ErrReviewNotFound = errors.New("review not found")

	// ErrAlreadyReviewed is returned when a user reviews the same bootcamp twice.
	ErrAlreadyReviewed = errors.New("user has already reviewed this bootcamp")
)
