package resumes

import "time"

// Resume represents an uploaded resume owned by a user, optionally targeted
// at a specific company and job title.
type Resume struct {
	ID          string
	UserID      string
	CompanyName string
	JobTitle    string
	FileName    string
	StorageKey  string
	SizeBytes   int64
	MimeType    string
	CreatedAt   time.Time
}

// Summary is a list-view row: the resume plus the headline scores of its
// feedback when an analysis has completed.
type Summary struct {
	Resume
	OverallScore *int
	ATSScore     *int
}
