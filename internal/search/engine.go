package search

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	lderr "github.com/linkden/linkden/internal/errors"
	"github.com/linkden/linkden/internal/store"
)

// Engine executes search, suggestion, and fallback requests against a
// read-only snapshot of the indexed corpus. All methods are stateless pure
// functions of their inputs plus the store; the only mutable state is the
// suggestion cache.
type Engine struct {
	store  Store
	cfg    Config
	logger *slog.Logger

	suggestCache *lru.Cache[suggestKey, []Suggestion]
}

type suggestKey struct {
	partial string
	typ     SuggestionType
	limit   int
}

// New creates a search engine over the given store.
func New(st Store, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{store: st, cfg: cfg, logger: logger}
	if cfg.SuggestCacheSize > 0 {
		// lru.New only errors on non-positive size
		e.suggestCache, _ = lru.New[suggestKey, []Suggestion](cfg.SuggestCacheSize)
	}
	return e
}

// Search runs a ranked, facet-filtered query and returns one page of
// results with the total match count. The count and page queries share a
// single expression and facet filter; if either fails the whole request
// fails rather than returning a mismatched page.
func (e *Engine) Search(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	started := time.Now()

	page, limit, order, err := e.normalize(&q)
	if err != nil {
		return nil, err
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

	offset := (page - 1) * limit

	// Count and page reads are independent; run them concurrently.
	var (
		total int
		rows  []store.IndexRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = e.store.CountIndex(gctx, expr, filter)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = e.store.QueryIndex(gctx, expr, filter, order, limit, offset)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(rows))
	hl := Highlighter{MaxLength: e.cfg.SnippetLength, Lookahead: e.cfg.SnippetLookahead}
	for i := range rows {
		r := resultFromRow(&rows[i])
		if q.Highlight {
			r.Highlights = hl.Highlight(r.Title, r.Description, r.Tags, q.Text)
		}
		results = append(results, r)
	}

	e.logger.Debug("search_complete",
		slog.String("query", q.Text),
		slog.Int("total", total),
		slog.Int("page", page),
		slog.Duration("took", time.Since(started)))

	return &SearchResponse{
		Query:   q.Text,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasPrev: page > 1,
		HasNext: offset+len(rows) < total,
		Results: results,
	}, nil
}

// Sparse reports whether a response is thin enough to warrant a
// did-you-mean pass. The decision belongs to the caller of Fallback; this
// is just the shared threshold check.
func (e *Engine) Sparse(resp *SearchResponse) bool {
	return resp.Total < e.cfg.SparsityThreshold && resp.Page == 1
}

// normalize validates and defaults page, limit, and sort.
func (e *Engine) normalize(q *SearchQuery) (page, limit int, order store.OrderBy, err error) {
	page = q.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, 0, lderr.Validationf(lderr.ErrCodeInvalidPage, "page %d must be >= 1", q.Page)
	}

	limit = q.Limit
	if limit == 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit < 1 || limit > e.cfg.MaxLimit {
		return 0, 0, 0, lderr.Validationf(lderr.ErrCodeInvalidPage,
			"limit %d must be in 1-%d", q.Limit, e.cfg.MaxLimit)
	}

	switch q.Sort {
	case "", SortRelevance:
		order = store.OrderByRelevance
	case SortNewest:
		order = store.OrderByNewest
	case SortOldest:
		order = store.OrderByOldest
	default:
		return 0, 0, 0, lderr.Validationf(lderr.ErrCodeInvalidSort,
			"sort %q must be relevance, newest, or oldest", q.Sort)
	}

	return page, limit, order, nil
}

// buildFilter composes the facet conjunction. Dates are parsed as UTC day
// boundaries: after is inclusive from 00:00:00, before inclusive until
// 23:59:59. A malformed date is a caller error, reported before any index
// access.
func buildFilter(q SearchQuery, tags []string) (store.FacetFilter, error) {
	filter := store.FacetFilter{
		Category: q.Category,
		Domain:   q.Domain,
		Tags:     tags,
	}

	if q.After != "" {
		t, err := parseDay(q.After)
		if err != nil {
			return store.FacetFilter{}, err
		}
		filter.After = &t
	}
	if q.Before != "" {
		t, err := parseDay(q.Before)
		if err != nil {
			return store.FacetFilter{}, err
		}
		end := t.Add(24*time.Hour - time.Second)
		filter.Before = &end
	}

	return filter, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, lderr.Validationf(lderr.ErrCodeInvalidDate,
			"date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}

// resultFromRow projects an index row, resolving user-over-AI fields and
// normalizing the rank. FTS5 bm25 ranks are negative with lower = better;
// the caller-facing score is the negated rank, so it is non-negative and
// higher is better under every sort mode.
func resultFromRow(row *store.IndexRow) SearchResult {
	score := -row.Rank
	if score < 0 {
		score = 0
	}
	return SearchResult{
		ID:          row.ID,
		URL:         row.URL,
		Title:       row.Title,
		Description: row.EffectiveDescription(),
		Category:    row.EffectiveCategory(),
		Domain:      row.Domain,
		Tags:        row.EffectiveTags(),
		ReadingTime: row.ReadingTime,
		PublishedAt: row.PublishedAt,
		Score:       score,
	}
}
