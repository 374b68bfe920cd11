package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linkden/linkden/internal/search"
)

// handleSearch serves GET /api/search. When the first page comes back
// sparse, did-you-mean terms mined from the corpus ride along in the
// response.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	q := search.NewSearchQuery(qs.Get("q"))
	q.Category = qs.Get("category")
	q.Domain = qs.Get("domain")
	q.Tags = qs.Get("tags")
	q.After = qs.Get("after")
	q.Before = qs.Get("before")
	if sort := qs.Get("sort"); sort != "" {
		q.Sort = search.SortMode(sort)
	}

	var err error
	if q.Page, err = intParam(qs, "page", 1); err != nil {
		s.respondError(w, r, err)
		return
	}
	if q.Limit, err = intParam(qs, "limit", 0); err != nil {
		s.respondError(w, r, err)
		return
	}
	if q.Highlight, err = boolParam(qs, "highlight", true); err != nil {
		s.respondError(w, r, err)
		return
	}

	resp, err := s.engine.Search(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if s.engine.Sparse(resp) {
		suggestions, err := s.engine.Fallback(r.Context(), q)
		if err != nil {
			// Fallback failure degrades the response, never fails it
			s.logger.Warn("fallback_failed", slog.String("error", err.Error()))
		} else {
			resp.Suggestions = suggestions
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSuggest serves GET /api/suggest.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	typ := search.SuggestionType(qs.Get("type"))
	switch typ {
	case "", search.SuggestionTitle, search.SuggestionTag,
		search.SuggestionCategory, search.SuggestionDomain:
	default:
		s.respondError(w, r, validationError(
			"type %q must be title, tag, category, or domain", typ))
		return
	}

	limit, err := intParam(qs, "limit", 0)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	suggestions, err := s.engine.Suggest(r.Context(), qs.Get("q"), typ, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if suggestions == nil {
		suggestions = []search.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func intParam(qs url.Values, name string, def int) (int, error) {
	raw := qs.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validationError("%s %q must be an integer", name, raw)
	}
	return n, nil
}

func boolParam(qs url.Values, name string, def bool) (bool, error) {
	raw := qs.Get(name)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, validationError("%s %q must be a boolean", name, raw)
	}
	return b, nil
}
