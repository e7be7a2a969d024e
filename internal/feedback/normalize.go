package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize turns raw provider output into validated Feedback. Providers
// routinely wrap the JSON in markdown fences even when told not to, so the
// fences are stripped before parsing.
func Normalize(raw string) (Feedback, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return Feedback{}, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return Feedback{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if err := checkStructure(probe); err != nil {
		return Feedback{}, err
	}

	var fb Feedback
	if err := json.Unmarshal([]byte(cleaned), &fb); err != nil {
		return Feedback{}, fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}
	if fb.OverallScore == 0 {
		return Feedback{}, fmt.Errorf("%w: missing overallScore", ErrInvalidStructure)
	}
	return fb, nil
}

// checkStructure requires a present, non-null value for each of the six
// top-level keys.
func checkStructure(probe map[string]json.RawMessage) error {
	for _, key := range []string{"overallScore", "ATS", "toneAndStyle", "content", "structure", "skills"} {
		value, ok := probe[key]
		if !ok || isNull(value) {
			return fmt.Errorf("%w: missing %s", ErrInvalidStructure, key)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// StripFences removes a surrounding markdown code fence from the payload.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimLeft(cleaned, "\r\n")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
