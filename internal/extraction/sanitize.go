package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

// parseCandidate decodes the service reply into a candidate. The reply may
// be raw JSON or JSON wrapped in a markdown code fence with surrounding
// prose; the first top-level JSON object substring is used. A parse failure
// is returned to the caller, never allowed to escape the extractor boundary.
func parseCandidate(raw string) (forms.Candidate, error) {
	text := extractJSONObject(stripCodeFence(raw))
	if text == "" {
		return forms.Candidate{}, errors.New("extraction: empty response")
	}

	var candidate forms.Candidate
	if err := json.Unmarshal([]byte(text), &candidate); err != nil {
		return forms.Candidate{}, fmt.Errorf("extraction: malformed candidate payload: %w", err)
	}
	return candidate, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func extractJSONObject(text string) string {
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return text
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return ""
}
