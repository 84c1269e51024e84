package curation

import "errors"

var (
	// ErrInvalidConfig indicates a Config failed validation.
	ErrInvalidConfig = errors.New("invalid curation config")

	// ErrEmbedderUnavailable indicates semantic scoring could not run.
	// Curate recovers from it by falling back to keyword scoring.
	ErrEmbedderUnavailable = errors.New("embedder unavailable")

	// ErrServiceReleased is returned by Curate after Release.
	ErrServiceReleased = errors.New("curation service released")
)
