package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	lderr "github.com/linkden/linkden/internal/errors"
	"github.com/linkden/linkden/internal/store"
)

// groupScanLimit caps how many index-matched rows feed the category and
// domain grouping passes.
const groupScanLimit = 100

// Suggest returns ranked completion candidates for a partial query. When
// typ is empty all four corpora contribute under internal quotas; the
// merged list is re-sorted as a whole, prefix matches first, then by
// descending count, and truncated to limit.
//
// Candidates are deduplicated by exact text; when counts differ the first
// occurrence by corpus scan order wins.
func (e *Engine) Suggest(ctx context.Context, partial string, typ SuggestionType, limit int) ([]Suggestion, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return nil, lderr.New(lderr.ErrCodeQueryEmpty, "suggestion text is required", nil)
	}
	if limit <= 0 {
		limit = e.cfg.SuggestLimit
	}
	if limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}

	key := suggestKey{partial: strings.ToLower(partial), typ: typ, limit: limit}
	if e.suggestCache != nil {
		if cached, ok := e.suggestCache.Get(key); ok {
			return cached, nil
		}
	}

	// Per-corpus quotas keep one corpus from starving the others before
	// the merge; the output is re-ranked across corpora, not partitioned.
	titleQuota := (limit + 2) / 3
	categoryQuota := (limit + 2) / 3
	tagQuota := (limit + 3) / 4
	domainQuota := (limit + 3) / 4
	if typ != "" {
		titleQuota, categoryQuota, tagQuota, domainQuota = limit, limit, limit, limit
	}

	var candidates []Suggestion
	add := func(batch []Suggestion, err error) error {
		if err != nil {
			return err
		}
		candidates = append(candidates, batch...)
		return nil
	}

	if typ == "" || typ == SuggestionTitle {
		if err := add(e.titleCandidates(ctx, partial, titleQuota)); err != nil {
			return nil, err
		}
	}
	if typ == "" || typ == SuggestionCategory {
		if err := add(e.groupedCandidates(ctx, partial, SuggestionCategory, categoryQuota)); err != nil {
			return nil, err
		}
	}
	if typ == "" || typ == SuggestionTag {
		if err := add(e.tagCandidates(ctx, partial, tagQuota)); err != nil {
			return nil, err
		}
	}
	if typ == "" || typ == SuggestionDomain {
		if err := add(e.groupedCandidates(ctx, partial, SuggestionDomain, domainQuota)); err != nil {
			return nil, err
		}
	}

	suggestions := rankSuggestions(candidates, strings.ToLower(partial), limit)

	if e.suggestCache != nil {
		e.suggestCache.Add(key, suggestions)
	}

	e.logger.Debug("suggest_complete",
		slog.String("partial", partial),
		slog.String("type", string(typ)),
		slog.Int("count", len(suggestions)))

	return suggestions, nil
}

// titleCandidates returns index-matched published titles, deduplicated by
// exact text. Titles are not aggregated, so count is fixed at 1.
func (e *Engine) titleCandidates(ctx context.Context, partial string, quota int) ([]Suggestion, error) {
	rows, err := e.store.QueryIndex(ctx, Prefix(partial).String(),
		store.FacetFilter{}, store.OrderByRelevance, quota, 0)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	var out []Suggestion
	for i := range rows {
		title := rows[i].Title
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, Suggestion{Text: title, Type: SuggestionTitle, Count: 1})
	}
	return out, nil
}

// groupedCandidates groups index-matched rows by category or domain with
// occurrence counts, keeping values containing the partial string.
func (e *Engine) groupedCandidates(ctx context.Context, partial string, typ SuggestionType, quota int) ([]Suggestion, error) {
	rows, err := e.store.QueryIndex(ctx, Prefix(partial).String(),
		store.FacetFilter{}, store.OrderByRelevance, groupScanLimit, 0)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(partial)
	counts := make(map[string]int)
	var order []string
	for i := range rows {
		value := rows[i].Domain
		if typ == SuggestionCategory {
			value = rows[i].EffectiveCategory()
		}
		if value == "" || !strings.Contains(strings.ToLower(value), lower) {
			continue
		}
		if _, ok := counts[value]; !ok {
			order = append(order, value)
		}
		counts[value]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > quota {
		order = order[:quota]
	}

	out := make([]Suggestion, 0, len(order))
	for _, value := range order {
		out = append(out, Suggestion{Text: value, Type: typ, Count: counts[value]})
	}
	return out, nil
}

// tagCandidates counts tags containing the partial string across all
// published records. Tags are serialized per record rather than indexed
// per element, so this path scans the corpus instead of the index.
func (e *Engine) tagCandidates(ctx context.Context, partial string, quota int) ([]Suggestion, error) {
	links, err := e.store.ScanPublished(ctx, store.FacetFilter{}, 0)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(partial)
	counts := make(map[string]int)
	var order []string
	for i := range links {
		for _, tag := range links[i].EffectiveTags() {
			if !strings.Contains(strings.ToLower(tag), lower) {
				continue
			}
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > quota {
		order = order[:quota]
	}

	out := make([]Suggestion, 0, len(order))
	for _, tag := range order {
		out = append(out, Suggestion{Text: tag, Type: SuggestionTag, Count: counts[tag]})
	}
	return out, nil
}

// rankSuggestions deduplicates by exact text (first occurrence wins), sorts
// prefix matches above mere containment and by descending count within each
// tier, and truncates to limit.
func rankSuggestions(candidates []Suggestion, lowerPartial string, limit int) []Suggestion {
	seen := make(map[string]struct{}, len(candidates))
	merged := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Text]; dup {
			continue
		}
		seen[c.Text] = struct{}{}
		merged = append(merged, c)
	}

	tier := func(s Suggestion) int {
		if strings.HasPrefix(strings.ToLower(s.Text), lowerPartial) {
			return 0
		}
		return 1
	}
	sort.SliceStable(merged, func(i, j int) bool {
		ti, tj := tier(merged[i]), tier(merged[j])
		if ti != tj {
			return ti < tj
		}
		return merged[i].Count > merged[j].Count
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
