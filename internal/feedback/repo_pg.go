package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres. Tips are stored as JSONB next to
// the integer scores; the UNIQUE constraint on resume_id backs the upsert.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, fb Feedback) error {
	const query = `
INSERT INTO resume_feedback (
    id,
    resume_id,
    overall_score,
    ats_score,
    ats_tips,
    tone_style_score,
    tone_style_tips,
    content_score,
    content_tips,
    structure_score,
    structure_tips,
    skills_score,
    skills_tips,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
ON CONFLICT (resume_id) DO UPDATE SET
  overall_score = EXCLUDED.overall_score,
  ats_score = EXCLUDED.ats_score,
  ats_tips = EXCLUDED.ats_tips,
  tone_style_score = EXCLUDED.tone_style_score,
  tone_style_tips = EXCLUDED.tone_style_tips,
  content_score = EXCLUDED.content_score,
  content_tips = EXCLUDED.content_tips,
  structure_score = EXCLUDED.structure_score,
  structure_tips = EXCLUDED.structure_tips,
  skills_score = EXCLUDED.skills_score,
  skills_tips = EXCLUDED.skills_tips,
  updated_at = now()`

	atsTips, err := marshalTips(fb.ATS.Tips)
	if err != nil {
		return err
	}
	toneTips, err := marshalTips(fb.ToneAndStyle.Tips)
	if err != nil {
		return err
	}
	contentTips, err := marshalTips(fb.Content.Tips)
	if err != nil {
		return err
	}
	structureTips, err := marshalTips(fb.Structure.Tips)
	if err != nil {
		return err
	}
	skillsTips, err := marshalTips(fb.Skills.Tips)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		uuid.NewString(),
		fb.ResumeID,
		fb.OverallScore,
		fb.ATS.Score,
		atsTips,
		fb.ToneAndStyle.Score,
		toneTips,
		fb.Content.Score,
		contentTips,
		fb.Structure.Score,
		structureTips,
		fb.Skills.Score,
		skillsTips,
	)
	return err
}

func (r *PGRepo) GetByResume(ctx context.Context, resumeID string) (Feedback, error) {
	const query = `
SELECT resume_id, overall_score,
       ats_score, ats_tips,
       tone_style_score, tone_style_tips,
       content_score, content_tips,
       structure_score, structure_tips,
       skills_score, skills_tips,
       created_at, updated_at
FROM resume_feedback
WHERE resume_id = $1
LIMIT 1`

	var fb Feedback
	var atsTips, toneTips, contentTips, structureTips, skillsTips []byte
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&fb.ResumeID,
		&fb.OverallScore,
		&fb.ATS.Score,
		&atsTips,
		&fb.ToneAndStyle.Score,
		&toneTips,
		&fb.Content.Score,
		&contentTips,
		&fb.Structure.Score,
		&structureTips,
		&fb.Skills.Score,
		&skillsTips,
		&fb.CreatedAt,
		&fb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Feedback{}, ErrNotFound
		}
		return Feedback{}, err
	}

	if err := unmarshalTips(atsTips, &fb.ATS.Tips); err != nil {
		return Feedback{}, err
	}
	if err := unmarshalTips(toneTips, &fb.ToneAndStyle.Tips); err != nil {
		return Feedback{}, err
	}
	if err := unmarshalTips(contentTips, &fb.Content.Tips); err != nil {
		return Feedback{}, err
	}
	if err := unmarshalTips(structureTips, &fb.Structure.Tips); err != nil {
		return Feedback{}, err
	}
	if err := unmarshalTips(skillsTips, &fb.Skills.Tips); err != nil {
		return Feedback{}, err
	}
	return fb, nil
}

func (r *PGRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	const query = `
DELETE FROM resume_feedback
WHERE resume_id = $1`
	_, err := r.DB.ExecContext(ctx, query, resumeID)
	return err
}

func marshalTips(tips []Tip) ([]byte, error) {
	if tips == nil {
		tips = []Tip{}
	}
	raw, err := json.Marshal(tips)
	if err != nil {
		return nil, fmt.Errorf("marshal tips: %w", err)
	}
	return raw, nil
}

func unmarshalTips(raw []byte, out *[]Tip) error {
	if len(raw) == 0 {
		*out = []Tip{}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal tips: %w", err)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
