// Package article provides use cases for the analyzed-article store. It
// implements business logic for listing, retrieving, and deleting stored
// analyses, delegating persistence to the repository.
package article

import "errors"

// Sentinel errors for analyzed-article use case operations.
var (
	// ErrArticleNotFound indicates that the requested analysis was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided row ID is invalid.
	// Row IDs must be positive integers.
	ErrInvalidArticleID = errors.New("invalid article ID")
)
