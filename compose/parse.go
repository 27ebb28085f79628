package compose

import "strings"

// ParseSpans splits content on paired ** delimiters into weighted runs.
// Delimiters pair left to right; a trailing unpaired ** stays literal text.
func ParseSpans(content string) []Span {
	parts := strings.Split(content, "**")
	if len(parts) == 1 {
		if content == "" {
			return nil
		}
		return []Span{{Text: content}}
	}
	// Even part count means an odd number of delimiters: fold the dangling
	// one back into the last part as literal characters.
	if len(parts)%2 == 0 {
		last := parts[len(parts)-2] + "**" + parts[len(parts)-1]
		parts = append(parts[:len(parts)-2], last)
	}
	spans := make([]Span, 0, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		spans = append(spans, Span{Text: p, Bold: i%2 == 1})
	}
	return spans
}

// bulletMarkers are stripped from the head of checklist rows.
const bulletMarkers = "-*•"

// ParseChecklist splits a body into checkmark rows: one per non-blank line,
// leading bullet characters removed. A body without newlines degrades to a
// single row.
func ParseChecklist(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, bulletMarkers)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

// comparisonToken splits a comparison body into its two columns.
const comparisonToken = "VS"

// ParseComparison splits a body on the literal VS token. Without the token
// the whole body becomes the left side and the right side is empty; the
// caller substitutes a placeholder. Never fails.
func ParseComparison(body string) (left, right string) {
	parts := strings.SplitN(body, comparisonToken, 2)
	if len(parts) < 2 {
		return strings.TrimSpace(body), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
