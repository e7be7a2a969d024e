package ai

import (
	"context"
	"errors"
)

// Document is the resume payload sent alongside the prompt.
type Document struct {
	Data     []byte
	MimeType string
	FileName string
}

// Request captures one analysis call to a provider.
type Request struct {
	Prompt   string
	Document Document
	Model    string
}

// Client abstracts generative-AI providers behind a single gateway.
// Implementations return the raw textual response; callers own parsing.
type Client interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// Sentinel errors classifying provider failures. Providers wrap these so
// callers can map them to stable error codes without string matching.
var (
	ErrUnavailable  = errors.New("ai provider unavailable")
	ErrRejected     = errors.New("ai provider rejected request")
	ErrEmptyContent = errors.New("ai provider returned no text content")
)
