package feedback

import "errors"

var (
	// ErrNotFound means no feedback is stored for the resume.
	ErrNotFound = errors.New("feedback not found")
	// ErrResumeNotFound means the resume does not exist or belongs to
	// someone else.
	ErrResumeNotFound = errors.New("resume not found")
	// ErrAnalysisInFlight means an analysis for the same resume is already
	// running.
	ErrAnalysisInFlight = errors.New("analysis already in flight")
	// ErrMalformedResponse means the provider output was not parseable JSON
	// after fence stripping.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrInvalidStructure means the JSON parsed but the required feedback
	// shape was missing.
	ErrInvalidStructure = errors.New("invalid feedback structure")
)
