package search

import (
	"context"
	"strings"

	"github.com/linkden/linkden/internal/store"
)

// minFallbackWordLength filters out short, noisy title words.
const minFallbackWordLength = 3

// Fallback mines the corpus for did-you-mean terms when a search came back
// sparse. It pulls near-match words from indexed titles, frequent category
// names, and scanned tag sets, all under the same facet constraints as the
// original search. Candidates keep their insertion order across the three
// sources; the list is deduplicated and capped, not re-scored.
//
// The sparsity decision itself belongs to the caller (see Engine.Sparse);
// this is a pure function of the query and its facets.
func (e *Engine) Fallback(ctx context.Context, q SearchQuery) ([]string, error) {
	query := strings.ToLower(strings.TrimSpace(q.Text))
	if query == "" {
		return nil, nil
	}

	tags := ParseTags(q.Tags)
	expr, err := BuildIndexQuery(q.Text, tags)
	if err != nil {
		return nil, err
	}
	filter, err := buildFilter(q, tags)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{query: {}}
	var suggestions []string
	collect := func(term string) {
		if len(suggestions) >= e.cfg.FallbackLimit {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		suggestions = append(suggestions, term)
	}

	// Near-match words from indexed titles
	rows, err := e.store.QueryIndex(ctx, expr, filter, store.OrderByRelevance,
		e.cfg.FallbackTitleLimit, 0)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		for _, word := range titleWords(rows[i].Title) {
			if e.nearMatch(word, query) {
				collect(word)
			}
		}
	}

	// Frequent categories, unless the search already pinned one
	if q.Category == "" {
		counts, err := e.store.CategoryCounts(ctx, e.cfg.FallbackCategoryLimit)
		if err != nil {
			return nil, err
		}
		for _, vc := range counts {
			lower := strings.ToLower(vc.Value)
			if lower != query && strings.Contains(lower, query) {
				collect(lower)
			}
		}
	}

	// Tag sets from scanned records; kept by count since tags repeat
	links, err := e.store.ScanPublished(ctx, filter, e.cfg.FallbackTagScanLimit)
	if err != nil {
		return nil, err
	}
	tagCounts := make(map[string]int)
	var tagOrder []string
	for i := range links {
		for _, tag := range links[i].EffectiveTags() {
			lower := strings.ToLower(tag)
			if lower == query || !e.nearMatch(lower, query) {
				continue
			}
			if _, ok := tagCounts[lower]; !ok {
				tagOrder = append(tagOrder, lower)
			}
			tagCounts[lower]++
		}
	}
	sortByCount(tagOrder, tagCounts)
	for i, tag := range tagOrder {
		if i >= e.cfg.FallbackTagKeep {
			break
		}
		collect(tag)
	}

	return suggestions, nil
}

// nearMatch reports whether word is close enough to query: containment in
// either direction, or edit distance within the configured cutoff.
func (e *Engine) nearMatch(word, query string) bool {
	if word == query {
		return false
	}
	if strings.Contains(word, query) || strings.Contains(query, word) {
		return true
	}
	return Levenshtein(word, query) <= e.cfg.MaxEditDistance
}

// titleWords splits a title into lowercase words of useful length,
// stripping edge punctuation.
func titleWords(title string) []string {
	fields := strings.Fields(strings.ToLower(title))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,:;!?"'()[]`)
		if len([]rune(f)) >= minFallbackWordLength {
			words = append(words, f)
		}
	}
	return words
}

// sortByCount sorts tag candidates in place by descending count,
// preserving insertion order between equals.
func sortByCount(order []string, counts map[string]int) {
	// Insertion sort; the candidate list is tiny
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && counts[order[j]] > counts[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
}

// Levenshtein computes the classic dynamic-programming edit distance
// between two strings, case-sensitive, in runes. Symmetric, and zero for
// identical inputs.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
