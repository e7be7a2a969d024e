package feedback

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	byResume map[string]Feedback
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byResume: make(map[string]Feedback)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, fb Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.byResume[fb.ResumeID]; ok {
		fb.CreatedAt = existing.CreatedAt
	} else {
		fb.CreatedAt = now
	}
	fb.UpdatedAt = now
	r.byResume[fb.ResumeID] = fb
	return nil
}

func (r *MemoryRepo) GetByResume(ctx context.Context, resumeID string) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fb, ok := r.byResume[resumeID]
	if !ok {
		return Feedback{}, ErrNotFound
	}
	return fb, nil
}

func (r *MemoryRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byResume, resumeID)
	return nil
}

// Headline returns the overall and ATS scores for a resume if feedback
// exists. The resumes memory repo uses it where Postgres would join.
func (r *MemoryRepo) Headline(resumeID string) (overall, ats *int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fb, ok := r.byResume[resumeID]
	if !ok {
		return nil, nil
	}
	o, a := fb.OverallScore, fb.ATS.Score
	return &o, &a
}

var _ Repo = (*MemoryRepo)(nil)
