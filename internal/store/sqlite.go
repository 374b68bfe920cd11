package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	lderr "github.com/linkden/linkden/internal/errors"
)

// SQLiteStore persists links in SQLite and keeps an FTS5 index in sync.
// The FTS table holds one row per published link (rowid = link id) over the
// effective title/description/tag-text/domain/category fields, so search
// visibility matches publication status by construction.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// New opens (or creates) a store at path. An empty path creates an
// in-memory store for testing.
func New(path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer to prevent lock contention
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode must be set via PRAGMA for modernc.org/sqlite
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS links (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		url          TEXT NOT NULL,
		domain       TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		ai_summary   TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		ai_category  TEXT NOT NULL DEFAULT '',
		tags         TEXT NOT NULL DEFAULT '[]',
		ai_tags      TEXT NOT NULL DEFAULT '[]',
		reading_time INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT 'pending',
		published_at INTEGER NOT NULL DEFAULT 0,
		created_at   INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_links_status_published
		ON links(status, published_at);

	-- FTS5 index over the effective (user-over-AI resolved) text fields.
	-- rowid mirrors links.id; only published links are inserted.
	CREATE VIRTUAL TABLE IF NOT EXISTS links_fts USING fts5(
		title, description, tag_text, domain, category,
		tokenize='unicode61'
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS api_tokens (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		token      TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the store. Idempotent.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

// ----------------------------------------------------------------------------
// Write path
// ----------------------------------------------------------------------------

// AddLink inserts a new pending link and returns it with its assigned ID.
// The domain is derived from the URL when not already set.
func (s *SQLiteStore) AddLink(ctx context.Context, link *Link) (*Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if link.URL == "" {
		return nil, lderr.Validationf(lderr.ErrCodeInvalidInput, "url is required")
	}

	if link.Domain == "" {
		link.Domain = DomainFromURL(link.URL)
	}
	link.Status = StatusPending
	link.CreatedAt = time.Now().Unix()
	link.PublishedAt = 0

	tags, aiTags := encodeTags(link.Tags), encodeTags(link.AITags)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO links (url, domain, title, description, ai_summary,
			category, ai_category, tags, ai_tags, reading_time, status,
			published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		link.URL, link.Domain, link.Title, link.Description, link.AISummary,
		link.Category, link.AICategory, tags, aiTags, link.ReadingTime,
		string(link.Status), link.CreatedAt)
	if err != nil {
		return nil, lderr.StorageError("insert link", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, lderr.StorageError("read inserted id", err)
	}
	link.ID = id

	return link, nil
}

// ConfirmLink applies user edits and publishes the link. The index row is
// written in the same transaction as the record update.
func (s *SQLiteStore) ConfirmLink(ctx context.Context, id int64, upd LinkUpdate) (*Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, lderr.StorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	link, err := getLinkTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		link.Title = *upd.Title
	}
	if upd.Description != nil {
		link.Description = *upd.Description
	}
	if upd.Category != nil {
		link.Category = *upd.Category
	}
	if upd.Tags != nil {
		link.Tags = upd.Tags
	}
	if upd.ReadingTime != nil {
		link.ReadingTime = *upd.ReadingTime
	}
	link.Status = StatusPublished
	if upd.PublishedAt != nil {
		link.PublishedAt = *upd.PublishedAt
	} else if link.PublishedAt == 0 {
		link.PublishedAt = time.Now().Unix()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE links SET title = ?, description = ?, category = ?, tags = ?,
			reading_time = ?, status = ?, published_at = ?
		WHERE id = ?`,
		link.Title, link.Description, link.Category, encodeTags(link.Tags),
		link.ReadingTime, string(link.Status), link.PublishedAt, id)
	if err != nil {
		return nil, lderr.StorageError("update link", err)
	}

	if err := syncIndexTx(ctx, tx, link); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, lderr.StorageError("commit", err)
	}
	return link, nil
}

// UnpublishLink reverts a link to pending and removes it from the index.
func (s *SQLiteStore) UnpublishLink(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return lderr.StorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE links SET status = ? WHERE id = ?`, string(StatusPending), id)
	if err != nil {
		return lderr.StorageError("update link", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lderr.New(lderr.ErrCodeNotFound, fmt.Sprintf("link %d not found", id), nil)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM links_fts WHERE rowid = ?`, id); err != nil {
		return lderr.StorageError("deindex link", err)
	}

	return tx.Commit()
}

// DeleteLink removes a link and its index row.
func (s *SQLiteStore) DeleteLink(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return lderr.StorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return lderr.StorageError("delete link", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lderr.New(lderr.ErrCodeNotFound, fmt.Sprintf("link %d not found", id), nil)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM links_fts WHERE rowid = ?`, id); err != nil {
		return lderr.StorageError("deindex link", err)
	}

	return tx.Commit()
}

// syncIndexTx rewrites the FTS row for a link. Published links are indexed
// with their effective fields; anything else just drops the row.
func syncIndexTx(ctx context.Context, tx *sql.Tx, link *Link) error {
	// FTS5 virtual tables don't support REPLACE, so delete first
	if _, err := tx.ExecContext(ctx, `DELETE FROM links_fts WHERE rowid = ?`, link.ID); err != nil {
		return lderr.StorageError("deindex link", err)
	}
	if link.Status != StatusPublished {
		return nil
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO links_fts (rowid, title, description, tag_text, domain, category)
		VALUES (?, ?, ?, ?, ?, ?)`,
		link.ID, link.Title, link.EffectiveDescription(),
		strings.Join(link.EffectiveTags(), " "), link.Domain, link.EffectiveCategory())
	if err != nil {
		return lderr.StorageError("index link", err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Read path
// ----------------------------------------------------------------------------

const linkColumns = `l.id, l.url, l.domain, l.title, l.description,
	l.ai_summary, l.category, l.ai_category, l.tags, l.ai_tags,
	l.reading_time, l.status, l.published_at, l.created_at`

// GetLink retrieves a link by ID.
func (s *SQLiteStore) GetLink(ctx context.Context, id int64) (*Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links l WHERE l.id = ?`, id)
	link, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, lderr.New(lderr.ErrCodeNotFound, fmt.Sprintf("link %d not found", id), nil)
	}
	if err != nil {
		return nil, lderr.StorageError("get link", err)
	}
	return link, nil
}

func getLinkTx(ctx context.Context, tx *sql.Tx, id int64) (*Link, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM links l WHERE l.id = ?`, id)
	link, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, lderr.New(lderr.ErrCodeNotFound, fmt.Sprintf("link %d not found", id), nil)
	}
	if err != nil {
		return nil, lderr.StorageError("get link", err)
	}
	return link, nil
}

// ListLinks returns links by status, newest first. An empty status lists all.
func (s *SQLiteStore) ListLinks(ctx context.Context, status Status, limit, offset int) ([]Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	query := `SELECT ` + linkColumns + ` FROM links l`
	args := []any{}
	if status != "" {
		query += ` WHERE l.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, lderr.StorageError("list links", err)
	}
	defer rows.Close()

	return collectLinks(rows)
}

// QueryIndex runs an FTS5 MATCH query joined to full records under the
// facet filter, ordered and paginated. The filter clause is built by the
// same function as CountIndex so both share one predicate.
func (s *SQLiteStore) QueryIndex(ctx context.Context, expr string, filter FacetFilter, order OrderBy, limit, offset int) ([]IndexRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	where, args := facetClause(filter)
	query := `
		SELECT ` + linkColumns + `, bm25(links_fts) AS rank
		FROM links_fts
		JOIN links l ON l.id = links_fts.rowid
		WHERE links_fts MATCH ? AND ` + where + `
		ORDER BY ` + orderClause(order) + `
		LIMIT ? OFFSET ?`

	queryArgs := append([]any{expr}, args...)
	queryArgs = append(queryArgs, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		if isMatchSyntaxError(err) {
			return []IndexRow{}, nil
		}
		return nil, lderr.StorageError("index query", err)
	}
	defer rows.Close()

	var results []IndexRow
	for rows.Next() {
		var r IndexRow
		if err := scanIndexRow(rows, &r); err != nil {
			return nil, lderr.StorageError("scan index row", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, lderr.StorageError("index query", err)
	}
	return results, nil
}

// CountIndex returns the number of rows matching expr under the same facet
// predicate used by QueryIndex.
func (s *SQLiteStore) CountIndex(ctx context.Context, expr string, filter FacetFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fmt.Errorf("store is closed")
	}

	where, args := facetClause(filter)
	query := `
		SELECT COUNT(*)
		FROM links_fts
		JOIN links l ON l.id = links_fts.rowid
		WHERE links_fts MATCH ? AND ` + where

	var count int
	err := s.db.QueryRowContext(ctx, query, append([]any{expr}, args...)...).Scan(&count)
	if err != nil {
		if isMatchSyntaxError(err) {
			return 0, nil
		}
		return 0, lderr.StorageError("index count", err)
	}
	return count, nil
}

// ScanPublished returns published links under the facet filter, newest
// first, without touching the index. Used where per-element tag matching is
// needed (tags are serialized, not indexed individually). A limit <= 0
// scans the whole corpus.
func (s *SQLiteStore) ScanPublished(ctx context.Context, filter FacetFilter, limit int) ([]Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	where, args := facetClause(filter)
	query := `SELECT ` + linkColumns + ` FROM links l WHERE ` + where + `
		ORDER BY l.published_at DESC, l.id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, lderr.StorageError("scan published", err)
	}
	defer rows.Close()

	return collectLinks(rows)
}

// CategoryCounts returns published categories by descending frequency.
func (s *SQLiteStore) CategoryCounts(ctx context.Context, limit int) ([]ValueCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT CASE WHEN category <> '' THEN category ELSE ai_category END AS cat,
		       COUNT(*) AS n
		FROM links
		WHERE status = ?
		GROUP BY cat
		HAVING cat <> ''
		ORDER BY n DESC, cat ASC
		LIMIT ?`, string(StatusPublished), limit)
	if err != nil {
		return nil, lderr.StorageError("category counts", err)
	}
	defer rows.Close()

	var counts []ValueCount
	for rows.Next() {
		var vc ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, lderr.StorageError("scan category count", err)
		}
		counts = append(counts, vc)
	}
	return counts, rows.Err()
}

// facetClause builds the WHERE conjunction shared by every index and scan
// query. Publication visibility is enforced here, at query construction.
func facetClause(f FacetFilter) (string, []any) {
	clauses := []string{"l.status = ?"}
	args := []any{string(StatusPublished)}

	if f.Category != "" {
		clauses = append(clauses,
			"(CASE WHEN l.category <> '' THEN l.category ELSE l.ai_category END) = ?")
		args = append(args, f.Category)
	}
	if f.Domain != "" {
		clauses = append(clauses, "l.domain = ?")
		args = append(args, f.Domain)
	}
	if len(f.Tags) > 0 {
		// Tags are stored as a JSON array; an exact element match is a LIKE
		// on the quote-delimited value against the effective tag column.
		var sub []string
		for _, tag := range f.Tags {
			sub = append(sub,
				`(CASE WHEN l.tags <> '[]' THEN l.tags ELSE l.ai_tags END) LIKE ? ESCAPE '\'`)
			args = append(args, `%"`+escapeLike(tag)+`"%`)
		}
		clauses = append(clauses, "("+strings.Join(sub, " OR ")+")")
	}
	if f.After != nil {
		clauses = append(clauses, "l.published_at >= ?")
		args = append(args, f.After.Unix())
	}
	if f.Before != nil {
		clauses = append(clauses, "l.published_at <= ?")
		args = append(args, f.Before.Unix())
	}

	return strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE metacharacters so tag values match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func orderClause(order OrderBy) string {
	switch order {
	case OrderByNewest:
		return "l.published_at DESC, l.id DESC"
	case OrderByOldest:
		return "l.published_at ASC, l.id ASC"
	default:
		// bm25() is negative with lower = better, so ascending rank is
		// best-first
		return "rank"
	}
}

// isMatchSyntaxError reports whether an FTS5 query failed to parse.
// The expression builder escapes user input, so this is a guard, but a
// malformed expression must read as "no results" in both the count and the
// page query to keep them consistent.
func isMatchSyntaxError(err error) bool {
	return strings.Contains(err.Error(), "fts5:") ||
		strings.Contains(err.Error(), "syntax error") ||
		strings.Contains(err.Error(), "unterminated string")
}

// ----------------------------------------------------------------------------
// Settings
// ----------------------------------------------------------------------------

// GetSetting returns the value for key, or "" when unset.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", fmt.Errorf("store is closed")
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", lderr.StorageError("get setting", err)
	}
	return value, nil
}

// SetSetting upserts a settings key.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return lderr.StorageError("set setting", err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// API tokens
// ----------------------------------------------------------------------------

// CreateToken mints a new named API token.
func (s *SQLiteStore) CreateToken(ctx context.Context, name string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if name == "" {
		return nil, lderr.Validationf(lderr.ErrCodeInvalidInput, "token name is required")
	}

	token := &Token{
		Name:      name,
		Value:     uuid.NewString(),
		CreatedAt: time.Now().Unix(),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO api_tokens (name, token, created_at) VALUES (?, ?, ?)`,
		token.Name, token.Value, token.CreatedAt)
	if err != nil {
		return nil, lderr.StorageError("create token", err)
	}
	token.ID, err = res.LastInsertId()
	if err != nil {
		return nil, lderr.StorageError("read inserted id", err)
	}
	return token, nil
}

// ListTokens returns all tokens, oldest first.
func (s *SQLiteStore) ListTokens(ctx context.Context) ([]Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, token, created_at FROM api_tokens ORDER BY id`)
	if err != nil {
		return nil, lderr.StorageError("list tokens", err)
	}
	defer rows.Close()

	var tokens []Token
	for rows.Next() {
		var t Token
		if err := rows.Scan(&t.ID, &t.Name, &t.Value, &t.CreatedAt); err != nil {
			return nil, lderr.StorageError("scan token", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// RevokeToken deletes a token by ID.
func (s *SQLiteStore) RevokeToken(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE id = ?`, id)
	if err != nil {
		return lderr.StorageError("revoke token", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lderr.New(lderr.ErrCodeNotFound, fmt.Sprintf("token %d not found", id), nil)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Row scanning
// ----------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*Link, error) {
	var l Link
	var status, tags, aiTags string
	err := row.Scan(&l.ID, &l.URL, &l.Domain, &l.Title, &l.Description,
		&l.AISummary, &l.Category, &l.AICategory, &tags, &aiTags,
		&l.ReadingTime, &status, &l.PublishedAt, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = Status(status)
	l.Tags = decodeTags(tags, l.ID, "tags")
	l.AITags = decodeTags(aiTags, l.ID, "ai_tags")
	return &l, nil
}

func scanIndexRow(rows *sql.Rows, r *IndexRow) error {
	var status, tags, aiTags string
	err := rows.Scan(&r.ID, &r.URL, &r.Domain, &r.Title, &r.Description,
		&r.AISummary, &r.Category, &r.AICategory, &tags, &aiTags,
		&r.ReadingTime, &status, &r.PublishedAt, &r.CreatedAt, &r.Rank)
	if err != nil {
		return err
	}
	r.Status = Status(status)
	r.Tags = decodeTags(tags, r.ID, "tags")
	r.AITags = decodeTags(aiTags, r.ID, "ai_tags")
	return nil
}

func collectLinks(rows *sql.Rows) ([]Link, error) {
	var links []Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, lderr.StorageError("scan link", err)
		}
		links = append(links, *link)
	}
	return links, rows.Err()
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeTags deserializes a stored tag set. A corrupt value degrades that
// one record to an empty tag set and is logged as a data-quality signal,
// never surfaced as a request failure.
func decodeTags(raw string, linkID int64, column string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		slog.Warn("corrupt_tag_set",
			slog.Int64("link_id", linkID),
			slog.String("column", column),
			slog.String("error", err.Error()))
		return nil
	}
	return tags
}
