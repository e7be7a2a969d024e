package feedback

import "context"

// Repo defines persistence for feedback. One row per resume; a re-analysis
// replaces the previous result.
type Repo interface {
	Upsert(ctx context.Context, fb Feedback) error
	GetByResume(ctx context.Context, resumeID string) (Feedback, error)
	DeleteByResume(ctx context.Context, resumeID string) error
}
