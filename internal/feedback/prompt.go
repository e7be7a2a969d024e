package feedback

import "strings"

// BuildPrompt produces the deterministic analysis instruction. The shape it
// demands is exactly what Normalize validates.
func BuildPrompt(jobTitle, jobDescription string) string {
	var b strings.Builder
	b.WriteString(`You are an expert in ATS (Applicant Tracking System) and resume analysis.
Please analyze this resume and provide detailed feedback in the following JSON format:

{
    "overallScore": number (0-100),
    "ATS": {
        "score": number (0-100),
        "tips": [
            {
                "type": "good" | "improve",
                "tip": "string"
            }
        ]
    },
    "toneAndStyle": {
        "score": number (0-100),
        "tips": [
            {
                "type": "good" | "improve",
                "tip": "string",
                "explanation": "string"
            }
        ]
    },
    "content": {
        "score": number (0-100),
        "tips": [
            {
                "type": "good" | "improve",
                "tip": "string",
                "explanation": "string"
            }
        ]
    },
    "structure": {
        "score": number (0-100),
        "tips": [
            {
                "type": "good" | "improve",
                "tip": "string",
                "explanation": "string"
            }
        ]
    },
    "skills": {
        "score": number (0-100),
        "tips": [
            {
                "type": "good" | "improve",
                "tip": "string",
                "explanation": "string"
            }
        ]
    }
}
`)

	if jobTitle = strings.TrimSpace(jobTitle); jobTitle != "" {
		b.WriteString("\nThe candidate is applying for the role: ")
		b.WriteString(jobTitle)
		b.WriteString("\n")
	}
	if jobDescription = strings.TrimSpace(jobDescription); jobDescription != "" {
		b.WriteString("\nJob Description to match against: ")
		b.WriteString(jobDescription)
		b.WriteString("\n")
	}

	b.WriteString(`
Focus on ATS compatibility, readability, content quality, structure, and relevant skills.
Return ONLY the JSON object, without any other text or markdown formatting.`)

	return b.String()
}
