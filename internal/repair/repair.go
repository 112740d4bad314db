// Package repair extracts and fixes JSON embedded in raw LLM responses.
// Models wrap JSON in markdown fences, prepend prose, and truncate long
// outputs mid-structure; this package recovers a parseable document from
// those common failure shapes without retrying the call.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRe   = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,(\s*[\]}])`)
)

// RepairAndParse extracts a JSON substring from raw text, applies truncation
// fixups, and unmarshals it into v. Returns *MalformedError when no JSON
// object can be recovered.
func RepairAndParse(raw string, v any) error {
	candidate, ok := extractJSON(raw)
	if !ok {
		return &MalformedError{Raw: raw}
	}

	fixed := fixTruncated(candidate)
	if err := json.Unmarshal([]byte(fixed), v); err != nil {
		return &MalformedError{Raw: raw, Cause: err}
	}
	return nil
}

// extractJSON slices the JSON candidate out of the raw response. A fenced
// code block wins; otherwise the span from the first '{' to the last '}'.
// Text with no opening brace has nothing to repair.
func extractJSON(raw string) (string, bool) {
	if match := fencedBlockRe.FindStringSubmatch(raw); match != nil {
		inner := strings.TrimSpace(match[1])
		if strings.Contains(inner, "{") {
			return inner, true
		}
	}

	start := strings.Index(raw, "{")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(raw, "}")
	if end > start {
		return raw[start : end+1], true
	}
	// Opening brace with no closer: hand the tail to the truncation fixer.
	return raw[start:], true
}

// fixTruncated repairs the common truncation artifacts: an unterminated
// string, unclosed brackets/braces, and trailing commas before a closer.
func fixTruncated(s string) string {
	fixed := strings.TrimSpace(s)

	braceCount := 0
	bracketCount := 0
	inString := false
	escape := false

	for _, ch := range fixed {
		if escape {
			escape = false
			continue
		}
		switch ch {
		case '\\':
			escape = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				braceCount++
			}
		case '}':
			if !inString {
				braceCount--
			}
		case '[':
			if !inString {
				bracketCount++
			}
		case ']':
			if !inString {
				bracketCount--
			}
		}
	}

	if inString {
		fixed += `"`
	}
	for bracketCount > 0 {
		fixed += "]"
		bracketCount--
	}
	for braceCount > 0 {
		fixed += "}"
		braceCount--
	}

	return trailingCommaRe.ReplaceAllString(fixed, "$1")
}
