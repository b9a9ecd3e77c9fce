// internal/extractor/parse.go
package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// ParsePartial recovers a PartialExtraction from a model reply. Replies are
// not always clean JSON: they arrive fenced, prefixed with prose, or wrapped
// in an envelope object. The recovery order is fences, then raw, then the
// first balanced JSON object in the text.
func ParsePartial(reply string, chunkIndex int) (*models.PartialExtraction, error) {
	candidate := stripCodeFences(reply)
	if !gjson.Valid(candidate) {
		candidate = extractJSONCandidate(candidate)
	}
	if candidate == "" || !gjson.Valid(candidate) {
		return nil, fmt.Errorf("reply contains no parseable JSON object")
	}

	// Some models wrap the payload in an envelope key.
	payload := gjson.Parse(candidate)
	for _, key := range []string{"breakdown", "result", "extraction"} {
		if inner := payload.Get(key); inner.IsObject() {
			payload = inner
			break
		}
	}
	if !payload.Get("scenes").Exists() {
		return nil, fmt.Errorf("reply JSON has no scenes array")
	}
	if err := ValidatePartialJSON(payload.Raw); err != nil {
		return nil, err
	}

	var partial models.PartialExtraction
	if err := json.Unmarshal([]byte(payload.Raw), &partial); err != nil {
		return nil, fmt.Errorf("decoding reply JSON: %w", err)
	}
	partial.ChunkIndex = chunkIndex
	return &partial, nil
}

// stripCodeFences removes a surrounding markdown fence, tolerating a language
// tag on the opening line.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONCandidate returns the first balanced top-level JSON object in s,
// or "" when none closes. Braces inside strings are skipped.
func extractJSONCandidate(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
