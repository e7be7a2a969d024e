package feedback

import "time"

// Tip is a single piece of advice inside a feedback category. ATS tips carry
// no explanation; the other categories do.
type Tip struct {
	Type        string `json:"type"`
	Tip         string `json:"tip"`
	Explanation string `json:"explanation,omitempty"`
}

// Category is a scored feedback dimension with its tips.
type Category struct {
	Score int   `json:"score"`
	Tips  []Tip `json:"tips"`
}

// Feedback is the validated analysis result for a resume. The JSON keys
// match the shape the model is prompted to produce.
type Feedback struct {
	ResumeID     string    `json:"resumeId,omitempty"`
	OverallScore int       `json:"overallScore"`
	ATS          Category  `json:"ATS"`
	ToneAndStyle Category  `json:"toneAndStyle"`
	Content      Category  `json:"content"`
	Structure    Category  `json:"structure"`
	Skills       Category  `json:"skills"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

const (
	TipGood    = "good"
	TipImprove = "improve"
)
