package services

import (
	"errors"
	"strings"
)

var (
	// ErrExtractionFailed means no balanced JSON object could be located in
	// the provider's raw text.
	ErrExtractionFailed = errors.New("response is not in JSON format")
	// ErrParseFailed means a candidate was located but did not parse.
	ErrParseFailed = errors.New("failed to parse AI response as JSON")
)

// ExtractJSONObject recovers a single JSON object from arbitrary provider
// text, which may wrap it in prose, markdown fences, or both. Strategies
// are applied in order:
//
//  1. take the interior of a triple-backtick fence (optionally tagged json)
//  2. take the substring from the first '{' to the last '}' inclusive
//  3. trim and strip stray prose before the first '{' / after the last '}'
//     once more, which handles prose that survived inside a fence
//
// The result is a candidate only: it starts with '{' and ends with '}' but
// is not guaranteed to parse. Parsing failures are the caller's to report
// as ErrParseFailed, distinct from extraction failure.
func ExtractJSONObject(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)

	if inner, ok := fencedBlock(candidate); ok {
		candidate = inner
	}

	candidate = braceSpan(candidate)
	candidate = braceSpan(strings.TrimSpace(candidate))

	if !strings.HasPrefix(candidate, "{") || !strings.HasSuffix(candidate, "}") {
		return "", ErrExtractionFailed
	}
	return candidate, nil
}

// fencedBlock returns the interior of the first ``` fence, tolerating a
// missing closing fence (truncated responses).
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	rest := s[start+3:]
	if strings.HasPrefix(strings.ToLower(rest), "json") {
		rest = rest[4:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// braceSpan narrows s to the span between its first '{' and last '}'. If
// either brace is missing, s is returned unchanged and the post-condition
// check in ExtractJSONObject rejects it.
func braceSpan(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first < 0 || last < first {
		return s
	}
	return s[first : last+1]
}
