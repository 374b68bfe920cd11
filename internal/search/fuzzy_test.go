package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkden/linkden/internal/store"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"go", "go", 0},
		{"go", "", 2},
		{"", "go", 2},
		{"kitten", "sitting", 3},
		{"react", "reakt", 1},
		{"golang", "goland", 1},
		{"flask", "flash", 1},
		{"über", "uber", 1}, // rune-wise, not byte-wise
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetry %q vs %q", tt.a, tt.b)
	}
}

func TestFallback_NearMatchTitleWords(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	seedLink(t, st, store.Link{URL: "https://a.dev", Title: "Goland and golang tips"},
		store.LinkUpdate{})

	// "goland" is one edit away from the query and comes from a title the
	// index matched; the query word itself is never offered back.
	got, err := e.Fallback(context.Background(), NewSearchQuery("golang"))
	require.NoError(t, err)

	assert.Contains(t, got, "goland")
	assert.NotContains(t, got, "golang")
}

func TestFallback_NeverSuggestsTheQueryItself(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	seedLink(t, st, store.Link{URL: "https://a.dev", Title: "React and react-dom"},
		store.LinkUpdate{Tags: []string{"react"}, Category: strptr("react")})

	got, err := e.Fallback(context.Background(), NewSearchQuery("react"))
	require.NoError(t, err)

	assert.NotContains(t, got, "react")
	assert.LessOrEqual(t, len(got), DefaultConfig().FallbackLimit)
}

func TestFallback_CategoriesContainingQuery(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	for i := 0; i < 2; i++ {
		seedLink(t, st, store.Link{URL: "https://a.dev", Title: "Some article"},
			store.LinkUpdate{Category: strptr("programming")})
	}

	// Nothing in the index matches, but a category contains the query
	got, err := e.Fallback(context.Background(), NewSearchQuery("gram"))
	require.NoError(t, err)
	assert.Contains(t, got, "programming")
}

func TestFallback_CategorySourceSkippedWhenFacetPinned(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())
	seedLink(t, st, store.Link{URL: "https://a.dev", Title: "Some article"},
		store.LinkUpdate{Category: strptr("programming")})

	q := NewSearchQuery("gram")
	q.Category = "architecture"
	got, err := e.Fallback(context.Background(), q)
	require.NoError(t, err)
	assert.NotContains(t, got, "programming")
}

func TestFallback_TagsKeptByCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FallbackTagKeep = 2
	e, st := newTestEngine(t, cfg)

	tagSets := [][]string{
		{"javascript", "frontend"},
		{"javascript"},
		{"javascript"},
		{"typescript"},
		{"typescript"},
		{"coffeescript"},
	}
	for _, tags := range tagSets {
		seedLink(t, st, store.Link{URL: "https://a.dev", Title: "Scripting notes"},
			store.LinkUpdate{Tags: tags})
	}

	// "script" is contained in all three tag names; only the two most
	// frequent survive the cut.
	got, err := e.Fallback(context.Background(), NewSearchQuery("script"))
	require.NoError(t, err)

	assert.Contains(t, got, "javascript")
	assert.Contains(t, got, "typescript")
	assert.NotContains(t, got, "coffeescript")
}

func TestFallback_CapAndNoDuplicates(t *testing.T) {
	e, st := newTestEngine(t, DefaultConfig())

	// One record carries a near-match word everywhere it can appear
	seedLink(t, st, store.Link{URL: "https://a.dev", Title: "Golang golang GOLANG"},
		store.LinkUpdate{Tags: []string{"golang"}, Category: strptr("golang")})

	got, err := e.Fallback(context.Background(), NewSearchQuery("golan"))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(got), DefaultConfig().FallbackLimit)
	seen := make(map[string]bool)
	for _, s := range got {
		assert.False(t, seen[s], "duplicate suggestion %q", s)
		seen[s] = true
	}
}

func TestFallback_EmptyQueryReturnsNothing(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	got, err := e.Fallback(context.Background(), NewSearchQuery("   "))
	require.NoError(t, err)
	assert.Empty(t, got)
}
