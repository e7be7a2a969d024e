package resumes

import (
	"time"

	"jobpass-backend/internal/feedback"
)

// Response is the outward-facing representation of a resume.
type Response struct {
	ResumeID    string    `json:"resumeId"`
	CompanyName string    `json:"companyName,omitempty"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	FileName    string    `json:"fileName"`
	SizeBytes   int64     `json:"sizeBytes"`
	MimeType    string    `json:"mimeType"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// ListItem is a list row with headline scores when feedback exists.
type ListItem struct {
	Response
	OverallScore *int `json:"overallScore,omitempty"`
	ATSScore     *int `json:"atsScore,omitempty"`
}

// DetailResponse is a resume with its full feedback, or null when the
// resume has not been analyzed yet.
type DetailResponse struct {
	Response
	Feedback *feedback.Feedback `json:"feedback"`
}

func toResponse(resume Resume) Response {
	return Response{
		ResumeID:    resume.ID,
		CompanyName: resume.CompanyName,
		JobTitle:    resume.JobTitle,
		FileName:    resume.FileName,
		SizeBytes:   resume.SizeBytes,
		MimeType:    resume.MimeType,
		UploadedAt:  resume.CreatedAt,
	}
}

func toListItem(item Summary) ListItem {
	return ListItem{
		Response:     toResponse(item.Resume),
		OverallScore: item.OverallScore,
		ATSScore:     item.ATSScore,
	}
}
