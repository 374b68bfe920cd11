package search

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lderr "github.com/linkden/linkden/internal/errors"
	"github.com/linkden/linkden/internal/store"
)

func newTestEngine(t *testing.T, cfg Config) (*Engine, *store.SQLiteStore) {
	t.Helper()
	st, err := store.New("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, cfg, logger), st
}

// seedLink adds and publishes a link in one step.
func seedLink(t *testing.T, st *store.SQLiteStore, link store.Link, upd store.LinkUpdate) *store.Link {
	t.Helper()
	added, err := st.AddLink(context.Background(), &link)
	require.NoError(t, err)
	published, err := st.ConfirmLink(context.Background(), added.ID, upd)
	require.NoError(t, err)
	return published
}

func strptr(s string) *string { return &s }

func TestSearch_SingleMatchWithTitleHighlight(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	seedLink(t, st, store.Link{URL: "https://react.dev", Title: "React Tutorial for Beginners"},
		store.LinkUpdate{})

	resp, err := e.Search(context.Background(), NewSearchQuery("React"))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	require.NotNil(t, resp.Results[0].Highlights)
	assert.Equal(t, "<mark>React</mark> Tutorial for Beginners", resp.Results[0].Highlights.Title)
}

func TestSearch_CategoryFacet(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())

	for _, l := range []struct {
		title, category string
	}{
		{"JavaScript Promises", "programming"},
		{"JavaScript Modules", "programming"},
		{"JavaScript at Scale", "architecture"},
	} {
		seedLink(t, st, store.Link{URL: "https://x.dev/" + l.title, Title: l.title},
			store.LinkUpdate{Category: strptr(l.category), Tags: []string{"javascript"}})
	}

	q := NewSearchQuery("javascript")
	q.Category = "programming"
	resp, err := e.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	for _, r := range resp.Results {
		assert.Equal(t, "programming", r.Category)
	}
}

func TestSearch_CountEqualsSumOfAllPages(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	for i := 0; i < 7; i++ {
		seedLink(t, st, store.Link{URL: "https://x.dev", Title: "Go article"}, store.LinkUpdate{})
	}

	q := NewSearchQuery("go")
	q.Limit = 3

	var fetched int
	var total int
	for page := 1; ; page++ {
		q.Page = page
		resp, err := e.Search(context.Background(), q)
		require.NoError(t, err)
		total = resp.Total
		fetched += len(resp.Results)
		if !resp.HasNext {
			break
		}
	}

	assert.Equal(t, 7, total)
	assert.Equal(t, total, fetched)
}

func TestSearch_PaginationBoundaries(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	for i := 0; i < 3; i++ {
		seedLink(t, st, store.Link{URL: "https://x.dev", Title: "Go article"}, store.LinkUpdate{})
	}

	// Page beyond the last: empty results, no next
	q := NewSearchQuery("go")
	q.Page = 5
	q.Limit = 2
	resp, err := e.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.False(t, resp.HasNext)
	assert.True(t, resp.HasPrev)
	assert.Equal(t, 3, resp.Total)

	// First page of an empty corpus match
	q = NewSearchQuery("nonexistentxyz")
	resp, err = e.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.False(t, resp.HasPrev)
	assert.False(t, resp.HasNext)
}

func TestSearch_ScoreIsNonNegativeHigherIsBetter(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	seedLink(t, st, store.Link{URL: "https://a.dev", Title: "Go Go Go deep dive",
		AISummary: "All about Go."}, store.LinkUpdate{})
	seedLink(t, st, store.Link{URL: "https://b.dev", Title: "A passing mention of Go among many other things entirely"},
		store.LinkUpdate{})

	resp, err := e.Search(context.Background(), NewSearchQuery("go"))
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	for _, r := range resp.Results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
	}
	// Relevance order puts the better match first, and its score is higher
	assert.GreaterOrEqual(t, resp.Results[0].Score, resp.Results[1].Score)
}

func TestSearch_SortModes(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	first := seedLink(t, st, store.Link{URL: "https://a.dev", Title: "Go early"}, store.LinkUpdate{})
	second := seedLink(t, st, store.Link{URL: "https://b.dev", Title: "Go late"}, store.LinkUpdate{})
	backdate(t, st, first.ID, time.Now().Add(-2*time.Hour))

	q := NewSearchQuery("go")
	q.Sort = SortNewest
	resp, err := e.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, second.ID, resp.Results[0].ID)

	q.Sort = SortOldest
	resp, err = e.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resp.Results[0].ID)
}

func TestSearch_DateFilterUsesUTCDayBoundaries(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())

	old := seedLink(t, st, store.Link{URL: "https://old.dev", Title: "Go archive"}, store.LinkUpdate{})
	backdate(t, st, old.ID, time.Now().UTC().AddDate(0, 0, -10))
	seedLink(t, st, store.Link{URL: "https://new.dev", Title: "Go fresh"}, store.LinkUpdate{})

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	q := NewSearchQuery("go")
	q.After = yesterday

	resp, err := e.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Go fresh", resp.Results[0].Title)

	// A record published exactly at 00:00:00 of the bound is included
	boundary, err := time.ParseInLocation("2006-01-02", yesterday, time.UTC)
	require.NoError(t, err)
	edge := seedLink(t, st, store.Link{URL: "https://edge.dev", Title: "Go boundary"}, store.LinkUpdate{})
	backdate(t, st, edge.ID, boundary)

	resp, err = e.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}

func TestSearch_ValidationErrors(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	tests := []struct {
		name   string
		mutate func(*SearchQuery)
		code   string
	}{
		{"empty text", func(q *SearchQuery) { q.Text = "  " }, lderr.ErrCodeQueryEmpty},
		{"negative page", func(q *SearchQuery) { q.Page = -1 }, lderr.ErrCodeInvalidPage},
		{"limit above max", func(q *SearchQuery) { q.Limit = 500 }, lderr.ErrCodeInvalidPage},
		{"bad sort", func(q *SearchQuery) { q.Sort = "bestest" }, lderr.ErrCodeInvalidSort},
		{"bad after date", func(q *SearchQuery) { q.After = "last tuesday" }, lderr.ErrCodeInvalidDate},
		{"bad before date", func(q *SearchQuery) { q.Before = "2024-13-45" }, lderr.ErrCodeInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewSearchQuery("go")
			tt.mutate(&q)
			_, err := e.Search(context.Background(), q)
			require.Error(t, err)
			assert.True(t, lderr.IsValidation(err))
			assert.Equal(t, tt.code, lderr.GetCode(err))
		})
	}
}

func TestSearch_HighlightOff(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	seedLink(t, st, store.Link{URL: "https://react.dev", Title: "React Tutorial"}, store.LinkUpdate{})

	q := NewSearchQuery("react")
	q.Highlight = false
	resp, err := e.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Nil(t, resp.Results[0].Highlights)
}

func TestSearch_EffectiveFieldsInResults(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	seedLink(t, st, store.Link{
		URL:        "https://go.dev/blog",
		Title:      "Go Blog",
		AISummary:  "AI wrote this.",
		AICategory: "ai-category",
		AITags:     []string{"ai-tag"},
	}, store.LinkUpdate{
		Description: strptr("My own words."),
		Category:    strptr("programming"),
		Tags:        []string{"golang"},
	})

	resp, err := e.Search(context.Background(), NewSearchQuery("go"))
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.Equal(t, "My own words.", r.Description)
	assert.Equal(t, "programming", r.Category)
	assert.Equal(t, []string{"golang"}, r.Tags)
}

func TestSparse(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	assert.True(t, e.Sparse(&SearchResponse{Total: 4, Page: 1}))
	assert.False(t, e.Sparse(&SearchResponse{Total: 5, Page: 1}))
	assert.False(t, e.Sparse(&SearchResponse{Total: 4, Page: 2}))
}

// backdate rewrites a published link's timestamp.
func backdate(t *testing.T, st *store.SQLiteStore, id int64, to time.Time) {
	t.Helper()
	unix := to.Unix()
	_, err := st.ConfirmLink(context.Background(), id, store.LinkUpdate{PublishedAt: &unix})
	require.NoError(t, err)
}
