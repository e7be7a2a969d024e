package feedback

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"jobpass-backend/internal/ai"
	"jobpass-backend/internal/shared/metrics"
	"jobpass-backend/internal/shared/storage/object"
	"jobpass-backend/internal/shared/telemetry"
)

// ResumeInfo is the slice of a resume the pipeline needs.
type ResumeInfo struct {
	ID          string
	FileName    string
	StorageKey  string
	MimeType    string
	CompanyName string
	JobTitle    string
}

// ResumeSource resolves a resume owned by the user. Implementations return
// ErrResumeNotFound when the resume is missing or owned by someone else.
type ResumeSource interface {
	Info(ctx context.Context, userID, resumeID string) (ResumeInfo, error)
}

// Result is the outcome of an analysis. Persisted is false when the feedback
// was produced and validated but could not be stored.
type Result struct {
	Feedback  Feedback
	Persisted bool
}

// Service orchestrates the analysis pipeline: build prompt, call the
// provider, normalize, persist.
type Service struct {
	Resumes ResumeSource
	Store   object.ObjectStore
	AI      ai.Client
	Repo    Repo
	Model   string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(resumeSource ResumeSource, store object.ObjectStore, client ai.Client, repo Repo, model string) *Service {
	return &Service{
		Resumes:  resumeSource,
		Store:    store,
		AI:       client,
		Repo:     repo,
		Model:    model,
		inFlight: make(map[string]struct{}),
	}
}

// Analyze runs the full pipeline for a resume. At most one analysis per
// resume runs at a time; a concurrent request gets ErrAnalysisInFlight.
func (s *Service) Analyze(ctx context.Context, userID, resumeID, jobDescription string) (Result, error) {
	info, err := s.Resumes.Info(ctx, userID, resumeID)
	if err != nil {
		return Result{}, err
	}

	if !s.acquire(resumeID) {
		return Result{}, ErrAnalysisInFlight
	}
	defer s.release(resumeID)

	metrics.IncFeedbackStarted()
	start := time.Now()

	result, err := s.run(ctx, info, jobDescription)
	metrics.ObserveFeedbackDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncFeedbackFailed()
		return Result{}, err
	}

	metrics.IncFeedbackCompleted()
	return result, nil
}

func (s *Service) run(ctx context.Context, info ResumeInfo, jobDescription string) (Result, error) {
	body, err := s.Store.Open(ctx, info.StorageKey)
	if err != nil {
		return Result{}, err
	}
	data, readErr := io.ReadAll(body)
	body.Close()
	if readErr != nil {
		return Result{}, readErr
	}

	prompt := BuildPrompt(info.JobTitle, jobDescription)

	raw, err := s.AI.Analyze(ctx, ai.Request{
		Prompt: prompt,
		Document: ai.Document{
			Data:     data,
			MimeType: info.MimeType,
			FileName: info.FileName,
		},
		Model: s.Model,
	})
	if err != nil {
		if errors.Is(err, ai.ErrEmptyContent) {
			return Result{}, ErrMalformedResponse
		}
		return Result{}, err
	}

	fb, err := Normalize(raw)
	if err != nil {
		telemetry.Error("feedback normalization failed", map[string]any{
			"resume_id": info.ID,
			"error":     err.Error(),
			"raw":       truncateRaw(raw, rawLogLimit),
		})
		return Result{}, err
	}
	fb.ResumeID = info.ID

	persisted := true
	if err := s.Repo.Upsert(ctx, fb); err != nil {
		persisted = false
		telemetry.Error("feedback store failed", map[string]any{
			"resume_id": info.ID,
			"error":     err.Error(),
		})
	}

	return Result{Feedback: fb, Persisted: persisted}, nil
}

// GetByResume returns stored feedback after checking the caller owns the
// resume.
func (s *Service) GetByResume(ctx context.Context, userID, resumeID string) (Feedback, error) {
	if _, err := s.Resumes.Info(ctx, userID, resumeID); err != nil {
		return Feedback{}, err
	}
	return s.Repo.GetByResume(ctx, resumeID)
}

func (s *Service) acquire(resumeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[resumeID]; busy {
		return false
	}
	s.inFlight[resumeID] = struct{}{}
	return true
}

func (s *Service) release(resumeID string) {
	s.mu.Lock()
	delete(s.inFlight, resumeID)
	s.mu.Unlock()
}

// rawLogLimit caps how much provider output gets logged on a parse failure.
const rawLogLimit = 500

func truncateRaw(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
