package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func sampleFeedback() Feedback {
	return Feedback{
		ResumeID:     "resume-1",
		OverallScore: 80,
		ATS:          Category{Score: 75, Tips: []Tip{{Type: TipImprove, Tip: "Add keywords"}}},
		ToneAndStyle: Category{Score: 82, Tips: []Tip{{Type: TipGood, Tip: "Clear tone", Explanation: "Reads well"}}},
		Content:      Category{Score: 78},
		Structure:    Category{Score: 85},
		Skills:       Category{Score: 70},
	}
}

func TestPGRepoUpsertUsesConflictClause(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	fb := sampleFeedback()

	mock.ExpectExec("INSERT INTO resume_feedback").
		WithArgs(
			sqlmock.AnyArg(), // id
			fb.ResumeID,
			fb.OverallScore,
			fb.ATS.Score,
			sqlmock.AnyArg(), // ats_tips
			fb.ToneAndStyle.Score,
			sqlmock.AnyArg(), // tone_style_tips
			fb.Content.Score,
			sqlmock.AnyArg(), // content_tips
			fb.Structure.Score,
			sqlmock.AnyArg(), // structure_tips
			fb.Skills.Score,
			sqlmock.AnyArg(), // skills_tips
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), fb); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByResumeRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"resume_id", "overall_score",
		"ats_score", "ats_tips",
		"tone_style_score", "tone_style_tips",
		"content_score", "content_tips",
		"structure_score", "structure_tips",
		"skills_score", "skills_tips",
		"created_at", "updated_at",
	}).AddRow(
		"resume-1", 80,
		75, []byte(`[{"type":"improve","tip":"Add keywords"}]`),
		82, []byte(`[]`),
		78, []byte(`[]`),
		85, []byte(`[]`),
		70, []byte(`[]`),
		now, now,
	)

	mock.ExpectQuery("SELECT resume_id, overall_score").
		WithArgs("resume-1").
		WillReturnRows(rows)

	fb, err := repo.GetByResume(context.Background(), "resume-1")
	if err != nil {
		t.Fatalf("GetByResume: %v", err)
	}
	if fb.OverallScore != 80 || fb.ATS.Score != 75 {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	if len(fb.ATS.Tips) != 1 || fb.ATS.Tips[0].Tip != "Add keywords" {
		t.Fatalf("unexpected ATS tips: %+v", fb.ATS.Tips)
	}
	if len(fb.Content.Tips) != 0 {
		t.Fatalf("expected empty content tips, got %+v", fb.Content.Tips)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByResumeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT resume_id, overall_score").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"resume_id"}))

	_, err = repo.GetByResume(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
