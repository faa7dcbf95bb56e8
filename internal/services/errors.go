package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput rejects a screening run before any work is done.
	ErrMissingInput = errors.New("missing job description or resumes")

	// ErrEmptyReply means the classifier answered without any textual candidate.
	ErrEmptyReply = errors.New("classifier returned an empty reply")

	// ErrRateLimited means every attempt within the retry budget hit a
	// rate-limit response.
	ErrRateLimited = errors.New("classifier rate limit retries exhausted")
)

// ExtractionError marks a resume whose bytes could not be read as a PDF.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ClassificationError marks a resume the external classifier could not score.
type ClassificationError struct {
	Filename string
	Err      error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify %q: %v", e.Filename, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }
