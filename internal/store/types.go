// Package store provides the record store and its synchronized FTS5 index.
// This is the persistence layer for all link data; the write path keeps the
// full-text index row set identical to the published record set.
package store

import (
	"net/url"
	"strings"
	"time"
)

// Status is the publication status of a link.
type Status string

const (
	// StatusPending marks a submitted link awaiting confirmation.
	StatusPending Status = "pending"
	// StatusPublished marks a confirmed, publicly visible link.
	// Only published links are visible to search and suggestions.
	StatusPublished Status = "published"
)

// Link is a collected content entry.
//
// Description, category, and tags each exist in a user-confirmed and an
// AI-generated variant; the Effective* methods resolve them with the user
// value winning whenever it is non-empty.
type Link struct {
	ID          int64    // Stable opaque ordinal
	URL         string
	Domain      string   // Derived from URL at submission
	Title       string
	Description string   // User-confirmed
	AISummary   string   // AI-generated
	Category    string   // User-confirmed
	AICategory  string   // AI-generated
	Tags        []string // User-confirmed
	AITags      []string // AI-generated
	ReadingTime int      // Minutes, 0 = unknown
	Status      Status
	PublishedAt int64    // Unix seconds, 0 until published
	CreatedAt   int64    // Unix seconds
}

// EffectiveDescription returns the user description, falling back to the
// AI summary.
func (l *Link) EffectiveDescription() string {
	if l.Description != "" {
		return l.Description
	}
	return l.AISummary
}

// EffectiveCategory returns the user category, falling back to the AI one.
func (l *Link) EffectiveCategory() string {
	if l.Category != "" {
		return l.Category
	}
	return l.AICategory
}

// EffectiveTags returns the user tag set, falling back to the AI one.
func (l *Link) EffectiveTags() []string {
	if len(l.Tags) > 0 {
		return l.Tags
	}
	return l.AITags
}

// FacetFilter is the structured filter conjunction applied alongside
// full-text matching. The zero value filters by publication status only;
// visibility is part of predicate construction, never an after-the-fact
// filter.
type FacetFilter struct {
	// Category matches the effective category exactly.
	Category string

	// Domain matches the link domain exactly.
	Domain string

	// Tags matches links whose effective tag set contains any of these
	// tags exactly. Tag text also feeds the index expression, but that is
	// only a relevance hint; this is the correctness filter.
	Tags []string

	// After is the inclusive lower bound on publication time.
	After *time.Time

	// Before is the inclusive upper bound on publication time.
	Before *time.Time
}

// OrderBy selects row ordering for index queries.
type OrderBy int

const (
	// OrderByRelevance sorts by the index's native bm25 rank (best first).
	OrderByRelevance OrderBy = iota
	// OrderByNewest sorts by publication time descending.
	OrderByNewest
	// OrderByOldest sorts by publication time ascending.
	OrderByOldest
)

// IndexRow is a link joined with its raw index rank for one query.
// Rank is the bm25 value as returned by FTS5: negative, lower = better.
// Callers needing a caller-facing score must normalize (see search.Engine).
type IndexRow struct {
	Link
	Rank float64
}

// ValueCount is a grouped value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// LinkUpdate carries optional field overrides for ConfirmLink.
// Nil pointers leave the stored value untouched.
type LinkUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Tags        []string // nil = untouched, empty = clear
	ReadingTime *int
	PublishedAt *int64 // unix seconds, overrides the publish timestamp
}

// Token is an API token managed by the admin surface.
// Enforcement belongs to the deployment layer, not this store.
type Token struct {
	ID        int64
	Name      string
	Value     string
	CreatedAt int64
}

// DomainFromURL extracts the registrable host from a URL, dropping any
// leading "www.". Returns "" for unparseable input.
func DomainFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
