package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linkden/linkden/internal/store"
)

// linkResponse is a stored link projected for JSON. Raw user and AI
// variants are carried separately so an editing UI can show both.
type linkResponse struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	Domain      string   `json:"domain"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	AISummary   string   `json:"ai_summary,omitempty"`
	Category    string   `json:"category,omitempty"`
	AICategory  string   `json:"ai_category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	AITags      []string `json:"ai_tags,omitempty"`
	ReadingTime int      `json:"reading_time,omitempty"`
	Status      string   `json:"status"`
	PublishedAt int64    `json:"published_at,omitempty"`
	CreatedAt   int64    `json:"created_at"`
}

func toLinkResponse(l *store.Link) linkResponse {
	return linkResponse{
		ID:          l.ID,
		URL:         l.URL,
		Domain:      l.Domain,
		Title:       l.Title,
		Description: l.Description,
		AISummary:   l.AISummary,
		Category:    l.Category,
		AICategory:  l.AICategory,
		Tags:        l.Tags,
		AITags:      l.AITags,
		ReadingTime: l.ReadingTime,
		Status:      string(l.Status),
		PublishedAt: l.PublishedAt,
		CreatedAt:   l.CreatedAt,
	}
}

type addLinkRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AISummary   string   `json:"ai_summary"`
	Category    string   `json:"category"`
	AICategory  string   `json:"ai_category"`
	Tags        []string `json:"tags"`
	AITags      []string `json:"ai_tags"`
	ReadingTime int      `json:"reading_time"`
}

// handleAddLink serves POST /api/links. New links land pending and stay
// out of the index until confirmed.
func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req addLinkRequest
	if err := decodeBody(r.Body, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	link, err := s.store.AddLink(r.Context(), &store.Link{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		AISummary:   req.AISummary,
		Category:    req.Category,
		AICategory:  req.AICategory,
		Tags:        req.Tags,
		AITags:      req.AITags,
		ReadingTime: req.ReadingTime,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLinkResponse(link))
}

// handleListLinks serves GET /api/links with status, limit, and offset.
func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	status := store.StatusPublished
	switch raw := qs.Get("status"); raw {
	case "", string(store.StatusPublished):
	case string(store.StatusPending):
		status = store.StatusPending
	default:
		s.respondError(w, r, validationError(
			"status %q must be pending or published", raw))
		return
	}

	limit, err := intParam(qs, "limit", 50)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	offset, err := intParam(qs, "offset", 0)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	links, err := s.store.ListLinks(r.Context(), status, limit, offset)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items := make([]linkResponse, len(links))
	for i := range links {
		items[i] = toLinkResponse(&links[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": items})
}

func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	link, err := s.store.GetLink(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLinkResponse(link))
}

type confirmLinkRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	ReadingTime *int     `json:"reading_time"`
}

// handleConfirmLink serves POST /api/links/{id}/confirm: edits are applied
// and the link is published into the index.
func (s *Server) handleConfirmLink(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req confirmLinkRequest
	if err := decodeBody(r.Body, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	link, err := s.store.ConfirmLink(r.Context(), id, store.LinkUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		ReadingTime: req.ReadingTime,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLinkResponse(link))
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.store.DeleteLink(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCategories serves GET /api/categories: effective categories of
// published links with occurrence counts, most frequent first.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", 100)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	counts, err := s.store.CategoryCounts(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	type categoryCount struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	items := make([]categoryCount, len(counts))
	for i, vc := range counts {
		items[i] = categoryCount{Category: vc.Value, Count: vc.Count}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := s.store.GetSetting(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		Value string `json:"value"`
	}
	if err := decodeBody(r.Body, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.store.SetSetting(r.Context(), key, req.Value); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, validationError("id %q must be a positive integer", raw)
	}
	return id, nil
}

func decodeBody(body io.Reader, v any) error {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return validationError("invalid request body: %s", err)
	}
	return nil
}
