package feedback

import (
	"strings"
	"testing"
)

func TestBuildPromptContainsAllCategories(t *testing.T) {
	prompt := BuildPrompt("", "")
	for _, key := range []string{"overallScore", "ATS", "toneAndStyle", "content", "structure", "skills"} {
		if !strings.Contains(prompt, key) {
			t.Fatalf("prompt missing key %q", key)
		}
	}
	if !strings.Contains(prompt, "Return ONLY the JSON object") {
		t.Fatalf("prompt missing JSON-only instruction")
	}
}

func TestBuildPromptIncludesJobContext(t *testing.T) {
	prompt := BuildPrompt("Backend Engineer", "Go and Postgres experience required")
	if !strings.Contains(prompt, "Backend Engineer") {
		t.Fatalf("prompt missing job title")
	}
	if !strings.Contains(prompt, "Go and Postgres experience required") {
		t.Fatalf("prompt missing job description")
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	a := BuildPrompt("Role", "Desc")
	b := BuildPrompt("Role", "Desc")
	if a != b {
		t.Fatalf("expected identical prompts for identical inputs")
	}
}

func TestBuildPromptOmitsEmptyJobContext(t *testing.T) {
	prompt := BuildPrompt("  ", "")
	if strings.Contains(prompt, "Job Description to match against") {
		t.Fatalf("prompt should not mention a job description when none is given")
	}
	if strings.Contains(prompt, "applying for the role") {
		t.Fatalf("prompt should not mention a role when none is given")
	}
}
