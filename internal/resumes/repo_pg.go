package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    company_name,
    job_title,
    file_name,
    storage_key,
    size_bytes,
    mime_type,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		nullableString(resume.CompanyName),
		nullableString(resume.JobTitle),
		resume.FileName,
		resume.StorageKey,
		resume.SizeBytes,
		resume.MimeType,
		resume.CreatedAt,
	)
	return err
}

// GetByID fetches a resume by ID scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, company_name, job_title, file_name, storage_key, size_bytes, mime_type, created_at
FROM resumes
WHERE user_id = $1 AND id = $2
LIMIT 1`
	var resume Resume
	var companyName sql.NullString
	var jobTitle sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID, resumeID).Scan(
		&resume.ID,
		&resume.UserID,
		&companyName,
		&jobTitle,
		&resume.FileName,
		&resume.StorageKey,
		&resume.SizeBytes,
		&resume.MimeType,
		&resume.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if companyName.Valid {
		resume.CompanyName = companyName.String
	}
	if jobTitle.Valid {
		resume.JobTitle = jobTitle.String
	}
	return resume, nil
}

// ListByUser lists resumes newest-first with headline feedback scores.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT r.id, r.user_id, r.company_name, r.job_title, r.file_name, r.storage_key, r.size_bytes, r.mime_type, r.created_at,
       f.overall_score, f.ats_score
FROM resumes r
LEFT JOIN resume_feedback f ON f.resume_id = r.id
WHERE r.user_id = $1
ORDER BY r.created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var item Summary
		var companyName sql.NullString
		var jobTitle sql.NullString
		var overallScore sql.NullInt64
		var atsScore sql.NullInt64
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&companyName,
			&jobTitle,
			&item.FileName,
			&item.StorageKey,
			&item.SizeBytes,
			&item.MimeType,
			&item.CreatedAt,
			&overallScore,
			&atsScore,
		); err != nil {
			return nil, err
		}
		if companyName.Valid {
			item.CompanyName = companyName.String
		}
		if jobTitle.Valid {
			item.JobTitle = jobTitle.String
		}
		if overallScore.Valid {
			score := int(overallScore.Int64)
			item.OverallScore = &score
		}
		if atsScore.Valid {
			score := int(atsScore.Int64)
			item.ATSScore = &score
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Delete removes a resume row. Feedback goes with it via the FK cascade.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	const query = `
DELETE FROM resumes
WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, resumeID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
