// Package search implements ranked retrieval over the link index: query
// normalization, facet-filtered search with pagination, highlighted snippet
// generation, typed suggestions, and a did-you-mean fallback for sparse
// result sets.
package search

import (
	"context"

	"github.com/linkden/linkden/internal/store"
)

// Store is the read surface of the record store consumed by the engine.
// *store.SQLiteStore satisfies it.
type Store interface {
	// QueryIndex executes an escaped FTS5 expression joined to full records
	// under the facet filter, ordered and paginated.
	QueryIndex(ctx context.Context, expr string, filter store.FacetFilter, order store.OrderBy, limit, offset int) ([]store.IndexRow, error)

	// CountIndex counts rows matching the exact same predicate QueryIndex
	// uses. Count and page queries must never diverge.
	CountIndex(ctx context.Context, expr string, filter store.FacetFilter) (int, error)

	// ScanPublished iterates published records without the index, for
	// per-element tag matching. A limit <= 0 scans the whole corpus.
	ScanPublished(ctx context.Context, filter store.FacetFilter, limit int) ([]store.Link, error)

	// CategoryCounts returns published categories by descending frequency.
	CategoryCounts(ctx context.Context, limit int) ([]store.ValueCount, error)
}

// SortMode selects result ordering.
type SortMode string

const (
	// SortRelevance orders by the index's native rank (default).
	SortRelevance SortMode = "relevance"
	// SortNewest orders by publication time descending.
	SortNewest SortMode = "newest"
	// SortOldest orders by publication time ascending.
	SortOldest SortMode = "oldest"
)

// SearchQuery is a validated, typed search request. Optional facets are
// explicit fields rather than a loose parameter map so the predicate
// construction stays exhaustive.
type SearchQuery struct {
	// Text is the free-text query. Required, non-empty after trim.
	Text string

	// Page is 1-based. Zero means page 1.
	Page int

	// Limit is the page size. Zero means the configured default.
	Limit int

	// Category filters by effective category.
	Category string

	// Domain filters by link domain.
	Domain string

	// Tags is a comma-separated tag filter.
	Tags string

	// After and Before are inclusive ISO date bounds (YYYY-MM-DD, UTC).
	After  string
	Before string

	// Sort is relevance, newest, or oldest. Empty means relevance.
	Sort SortMode

	// Highlight enables excerpt generation.
	Highlight bool
}

// NewSearchQuery returns a query for text with defaults applied
// (first page, default limit, relevance order, highlighting on).
func NewSearchQuery(text string) SearchQuery {
	return SearchQuery{Text: text, Page: 1, Sort: SortRelevance, Highlight: true}
}

// Highlights holds marked-up excerpts for the fields that matched.
// Absent fields did not contain the query.
type Highlights struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// SearchResult is a published link projected for search responses.
// Description, category, and tags are the effective (user-over-AI) values.
type SearchResult struct {
	ID          int64       `json:"id"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category,omitempty"`
	Domain      string      `json:"domain"`
	Tags        []string    `json:"tags,omitempty"`
	ReadingTime int         `json:"reading_time,omitempty"`
	PublishedAt int64       `json:"published_at"`

	// Score is non-negative and higher is better, uniformly across all
	// sort modes. It is the negated FTS5 bm25 rank.
	Score float64 `json:"score"`

	Highlights *Highlights `json:"highlights,omitempty"`
}

// SearchResponse is one page of results with pagination state.
type SearchResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	HasPrev bool            `json:"has_prev"`
	HasNext bool            `json:"has_next"`
	Results []SearchResult  `json:"results"`

	// Suggestions carries did-you-mean terms, attached by the caller when
	// the result set is sparse.
	Suggestions []string `json:"suggestions,omitempty"`
}

// SuggestionType identifies the corpus a suggestion came from.
type SuggestionType string

const (
	SuggestionTitle    SuggestionType = "title"
	SuggestionTag      SuggestionType = "tag"
	SuggestionCategory SuggestionType = "category"
	SuggestionDomain   SuggestionType = "domain"
)

// Suggestion is a ranked completion candidate.
type Suggestion struct {
	Text string         `json:"text"`
	Type SuggestionType `json:"type"`

	// Count is the occurrence frequency behind the candidate. Title
	// suggestions are not aggregated and always carry 1.
	Count int `json:"count"`
}

// Config carries the engine's tunable thresholds. Tests exercise boundary
// values through here rather than through package constants.
type Config struct {
	// DefaultLimit is the page size when the query carries none.
	DefaultLimit int

	// MaxLimit bounds the page size.
	MaxLimit int

	// SparsityThreshold is the total below which a first-page search is
	// considered sparse and worth a did-you-mean pass.
	SparsityThreshold int

	// SnippetLength is the description excerpt window in characters.
	SnippetLength int

	// SnippetLookahead bounds the forward scan for a word boundary at the
	// snippet's left edge.
	SnippetLookahead int

	// MaxEditDistance is the Levenshtein cutoff for fuzzy fallback terms.
	MaxEditDistance int

	// SuggestLimit is the default suggestion count.
	SuggestLimit int

	// SuggestCacheSize is the LRU capacity for suggestion responses.
	// Zero disables the cache.
	SuggestCacheSize int

	// FallbackTitleLimit caps the indexed titles mined for near-match words.
	FallbackTitleLimit int

	// FallbackTagScanLimit caps the published records scanned for tag
	// candidates.
	FallbackTagScanLimit int

	// FallbackCategoryLimit caps the frequent categories considered.
	FallbackCategoryLimit int

	// FallbackTagKeep is how many tag candidates survive, by count.
	FallbackTagKeep int

	// FallbackLimit caps the merged did-you-mean list.
	FallbackLimit int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:          20,
		MaxLimit:              100,
		SparsityThreshold:     5,
		SnippetLength:         200,
		SnippetLookahead:      20,
		MaxEditDistance:       2,
		SuggestLimit:          10,
		SuggestCacheSize:      256,
		FallbackTitleLimit:    20,
		FallbackTagScanLimit:  50,
		FallbackCategoryLimit: 5,
		FallbackTagKeep:       3,
		FallbackLimit:         5,
	}
}
