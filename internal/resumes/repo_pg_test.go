package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	resume := Resume{
		ID:          "resume-1",
		UserID:      "user-1",
		CompanyName: "Acme",
		JobTitle:    "Backend Engineer",
		FileName:    "cv.pdf",
		StorageKey:  "abc/cv.pdf",
		SizeBytes:   1234,
		MimeType:    "application/pdf",
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			resume.ID,
			resume.UserID,
			resume.CompanyName,
			resume.JobTitle,
			resume.FileName,
			resume.StorageKey,
			resume.SizeBytes,
			resume.MimeType,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListJoinsFeedbackScores(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "company_name", "job_title", "file_name",
		"storage_key", "size_bytes", "mime_type", "created_at",
		"overall_score", "ats_score",
	}).
		AddRow("resume-1", "user-1", "Acme", "Backend Engineer", "cv.pdf", "k1", 100, "application/pdf", now, 80, 75).
		AddRow("resume-2", "user-1", nil, nil, "old.pdf", "k2", 200, "application/pdf", now, nil, nil)

	mock.ExpectQuery("SELECT r.id, r.user_id").
		WithArgs("user-1", 20, 0).
		WillReturnRows(rows)

	out, err := repo.ListByUser(context.Background(), "user-1", 20, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].OverallScore == nil || *out[0].OverallScore != 80 {
		t.Fatalf("expected overall score 80, got %v", out[0].OverallScore)
	}
	if out[1].OverallScore != nil {
		t.Fatalf("expected nil score for unanalyzed resume")
	}
	if out[1].CompanyName != "" {
		t.Fatalf("expected empty company for null column, got %q", out[1].CompanyName)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("user-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
