package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeResult extracts a JSON object from raw model output. Models wrap
// structured payloads in markdown fences or surrounding prose often enough
// that a strict unmarshal alone is not workable.
func decodeResult(raw string, v any) error {
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	cleaned := trimmed
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		snippet := trimmed
		if len(snippet) > 100 {
			snippet = snippet[:100]
		}
		return fmt.Errorf("parse model response as JSON: %w (response fragment: %q)", err, snippet)
	}
	return nil
}
