package search

import (
	"regexp"
	"strings"
)

// Highlight markers wrapped around matched query text.
const (
	markerOpen  = "<mark>"
	markerClose = "</mark>"
)

// Highlighter produces marked-up excerpts for matched fields. Matching is
// case-insensitive literal substring; the query is regex-escaped before the
// pattern is built, since user queries are not regex-safe.
type Highlighter struct {
	// MaxLength is the description snippet window in characters.
	MaxLength int

	// Lookahead bounds the forward scan for a word boundary at the
	// snippet's left edge.
	Lookahead int
}

// Highlight marks query occurrences in a result's raw field values.
// Returns nil when no field contains the query. Each field is marked
// exactly once, from the raw value, never from already-marked text.
func (h Highlighter) Highlight(title, description string, tags []string, query string) *Highlights {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))

	var hl Highlights
	if pattern.MatchString(title) {
		hl.Title = mark(pattern, title)
	}

	if idx := matchIndex(description, query); idx >= 0 {
		snippet := h.snippet(description, idx, query)
		hl.Description = mark(pattern, snippet)
	}

	if marked, any := markTags(pattern, tags); any {
		hl.Tags = marked
	}

	if hl.Title == "" && hl.Description == "" && hl.Tags == nil {
		return nil
	}
	return &hl
}

// mark wraps every pattern occurrence in highlight markers.
func mark(pattern *regexp.Regexp, text string) string {
	return pattern.ReplaceAllStringFunc(text, func(m string) string {
		return markerOpen + m + markerClose
	})
}

// markTags marks matching tags in place, passing non-matching tags through
// unmarked. The full array is returned only when at least one tag matched.
func markTags(pattern *regexp.Regexp, tags []string) ([]string, bool) {
	if len(tags) == 0 {
		return nil, false
	}
	out := make([]string, len(tags))
	any := false
	for i, tag := range tags {
		if pattern.MatchString(tag) {
			out[i] = mark(pattern, tag)
			any = true
		} else {
			out[i] = tag
		}
	}
	return out, any
}

// matchIndex returns the rune offset of the first case-insensitive
// occurrence of query in text, or -1.
func matchIndex(text, query string) int {
	byteIdx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if byteIdx < 0 {
		return -1
	}
	return len([]rune(text[:byteIdx]))
}

// snippet cuts a MaxLength window out of text, centered on the match at
// rune offset matchIdx, trimmed to word boundaries and fenced with
// ellipses where text was cut. Offsets are in runes so multi-byte text is
// never split mid-character.
func (h Highlighter) snippet(text string, matchIdx int, query string) string {
	runes := []rune(text)
	if len(runes) <= h.MaxLength {
		return text
	}

	queryLen := len([]rune(query))
	contextLen := (h.MaxLength - queryLen) / 2
	if contextLen < 0 {
		contextLen = 0
	}

	start := matchIdx - contextLen
	if start < 0 {
		start = 0
	}

	// Advance a mid-word start to the next boundary, if one is close
	// enough; cutting a word at the left edge reads worse than losing a
	// few characters of context.
	if start > 0 && !isBoundary(runes[start-1]) && !isBoundary(runes[start]) {
		limit := start + h.Lookahead
		if limit > matchIdx {
			limit = matchIdx
		}
		for i := start; i < limit; i++ {
			if isBoundary(runes[i]) {
				start = i + 1
				break
			}
		}
	}

	end := start + h.MaxLength
	trailing := end < len(runes)
	if !trailing {
		end = len(runes)
	}

	window := runes[start:end]
	if trailing {
		// Trim back to the last word boundary, but only when it sits past
		// 80% of the window; an overly short snippet is worse than a cut
		// word.
		if cut := lastBoundary(window); cut > len(window)*8/10 {
			window = window[:cut]
		}
	}

	out := string(window)
	if start > 0 {
		out = "..." + out
	}
	if trailing {
		out += "..."
	}
	return out
}

func isBoundary(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func lastBoundary(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if isBoundary(runes[i]) {
			return i
		}
	}
	return -1
}
