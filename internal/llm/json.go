package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON extracts the JSON payload from an LLM reply and unmarshals it.
func decodeJSON(content string, result any) error {
	payload := extractJSON(content)
	if err := json.Unmarshal([]byte(payload), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}

// extractJSON strips markdown fences and surrounding prose from a reply.
func extractJSON(s string) string {
	if body, ok := fenced(s, "```json"); ok {
		return body
	}
	if body, ok := fenced(s, "```"); ok {
		return body
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	depth := 0
	for j := start; j < len(s); j++ {
		switch s[j] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : j+1]
			}
		}
	}
	return s
}

// fenced returns the body of the first code block opened by marker.
func fenced(s, marker string) (string, bool) {
	idx := strings.Index(s, marker)
	if idx == -1 {
		return "", false
	}
	rest := strings.TrimLeft(s[idx+len(marker):], "\r\n")
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimRight(rest[:end], "\r\n"), true
}
