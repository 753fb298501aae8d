package analysis

import (
	"encoding/json"
	"strings"
)

// ParsedPayload is the loosely typed structure recovered from a model
// reply. Field names and value types are untrusted until the normalizer
// has run.
type ParsedPayload map[string]any

// ExtractPayload locates and strictly parses the first balanced
// brace-delimited block in a raw model reply. Surrounding prose and
// markdown fences are tolerated. Anything less than one parseable block
// is a MalformedResponse carrying the full raw reply; the extractor
// never guesses or synthesizes a payload.
func ExtractPayload(raw string) (ParsedPayload, error) {
	candidate, ok := firstBalancedBlock(stripFences(raw))
	if !ok {
		return nil, NewError(KindMalformedResponse, "no balanced JSON object in reply", raw, nil)
	}

	var payload ParsedPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, NewError(KindMalformedResponse, "candidate block is not valid JSON", raw, err)
	}
	return payload, nil
}

// stripFences removes a markdown code fence wrapping the whole reply,
// with or without a language label.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Scanner states for brace balancing over untrusted text. Tracking
// string literals keeps braces inside quoted text out of the nesting
// count.
const (
	scanOutside = iota
	scanInString
	scanEscape
)

// firstBalancedBlock returns the first balanced {...} block in s. When
// multiple top-level blocks exist the first one wins. Returns false for
// unbalanced, truncated, or brace-free input.
func firstBalancedBlock(s string) (string, bool) {
	start := -1
	depth := 0
	state := scanOutside

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case scanEscape:
			state = scanInString
		case scanInString:
			switch c {
			case '\\':
				state = scanEscape
			case '"':
				state = scanOutside
			}
		default:
			switch c {
			case '"':
				// Quotes in prose before the block are irrelevant.
				if depth > 0 {
					state = scanInString
				}
			case '{':
				if depth == 0 {
					start = i
				}
				depth++
			case '}':
				if depth > 0 {
					depth--
					if depth == 0 {
						return s[start : i+1], true
					}
				}
			}
		}
	}
	return "", false
}
