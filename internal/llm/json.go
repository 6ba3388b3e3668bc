package llm

import (
	"encoding/json"
	"strings"
)

// CoerceJSON tries to parse a model response as JSON into v.
//
// Models frequently wrap JSON answers in a ```json fence or add prose
// around the object; CoerceJSON strips a fence and, failing that, parses
// the first balanced {...} block. It reports whether parsing succeeded;
// callers keep the raw text either way.
func CoerceJSON(raw string, v any) bool {
	candidates := []string{raw, stripFence(raw)}
	if block := firstObject(raw); block != "" {
		candidates = append(candidates, block)
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), v); err == nil {
			return true
		}
	}
	return false
}

// stripFence removes a leading ```/```json fence and trailing ``` if present.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag on the fence line.
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// firstObject returns the first balanced top-level JSON object in s,
// or "" when none is found. Braces inside strings are handled.
func firstObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
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
