package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobpass-backend/internal/extract"
	"jobpass-backend/internal/shared/storage/object"
	"jobpass-backend/internal/shared/telemetry"
)

// FeedbackRemover removes feedback tied to a resume. The Postgres schema
// cascades on delete; the in-memory stores need an explicit hook.
type FeedbackRemover interface {
	DeleteByResume(ctx context.Context, resumeID string) error
}

// Service contains business logic for resumes.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Feedback FeedbackRemover
}

// Upload saves the PDF to object storage and records the resume.
func (s *Service) Upload(ctx context.Context, userID, companyName, jobTitle, fileName string, r io.Reader) (Resume, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Resume{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Resume{}, err
	}

	if !extract.IsPDF(mimeType) {
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("resume upload cleanup failed", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Resume{}, fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
	}

	resume := Resume{
		ID:          uuid.NewString(),
		UserID:      userID,
		CompanyName: strings.TrimSpace(companyName),
		JobTitle:    strings.TrimSpace(jobTitle),
		FileName:    fileName,
		StorageKey:  storageKey,
		SizeBytes:   size,
		MimeType:    mimeType,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, resume); err != nil {
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("resume upload cleanup failed", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Resume{}, err
	}

	return resume, nil
}

// Get returns a resume owned by the user.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if userID == "" || resumeID == "" {
		return Resume{}, errors.New("user id and resume id required")
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's resumes newest-first with headline scores.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenFile streams the stored PDF for a resume owned by the user.
func (s *Service) OpenFile(ctx context.Context, userID, resumeID string) (Resume, io.ReadCloser, error) {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, nil, err
	}
	body, err := s.Store.Open(ctx, resume.StorageKey)
	if err != nil {
		return Resume{}, nil, err
	}
	return resume, body, nil
}

// Delete removes the resume row, its feedback and its stored file. The file
// removal is best-effort: a dangling object must not block the delete.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, userID, resumeID); err != nil {
		return err
	}

	if s.Feedback != nil {
		if err := s.Feedback.DeleteByResume(ctx, resumeID); err != nil {
			telemetry.Error("feedback cascade failed", map[string]any{
				"resume_id": resumeID,
				"error":     err.Error(),
			})
		}
	}

	if err := s.Store.Delete(ctx, resume.StorageKey); err != nil {
		telemetry.Error("resume file delete failed", map[string]any{
			"resume_id":   resumeID,
			"storage_key": resume.StorageKey,
			"error":       err.Error(),
		})
	}

	return nil
}
