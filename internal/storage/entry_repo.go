package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"blog-api/internal/entry"
	"blog-api/internal/pagination"
	"blog-api/internal/query"
	"blog-api/internal/tokenizer"
)

//go:generate mockgen -source=entry_repo.go -destination=mocks/mock_entry_store.go -package=mocks

// tokensMaxChunkSize caps the number of token rows written or deleted in one
// transaction. Larger batches are split into independent transactions so a
// single huge entry cannot hold the write lock for the whole rebuild.
const tokensMaxChunkSize = 2500

// timeLayout is fixed width so that stored timestamps sort lexicographically
// in the same order as the instants they denote.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// EntryStore is the persistence interface for blog entries and their
// search-token index.
type EntryStore interface {
	FindByID(ctx context.Context, key entry.EntryKey) (entry.Entry, error)
	FindAll(ctx context.Context, keys []entry.EntryKey) ([]entry.Entry, error)
	FindOrderByUpdated(ctx context.Context, tenantID string, criteria entry.SearchCriteria, req pagination.CursorPageRequest[time.Time]) (pagination.CursorPage[entry.Entry, time.Time], error)
	FindAllTags(ctx context.Context, tenantID string) ([]entry.TagAndCount, error)
	FindAllCategories(ctx context.Context, tenantID string) ([][]entry.Category, error)
	Save(ctx context.Context, e entry.Entry) (entry.Entry, error)
	DeleteByID(ctx context.Context, key entry.EntryKey) error
	NextID(ctx context.Context, tenantID string) (int64, error)
	DeleteTokens(ctx context.Context, key entry.EntryKey) error
	RebuildTokens(ctx context.Context, key entry.EntryKey) error
}

// EntryRepo implements EntryStore on SQLite.
type EntryRepo struct {
	db        *sql.DB
	tokenizer tokenizer.Tokenizer
	compiler  *QueryCompiler
	logger    *slog.Logger
	now       func() time.Time
}

func NewEntryRepo(db *sql.DB, tok tokenizer.Tokenizer, logger *slog.Logger) *EntryRepo {
	return &EntryRepo{
		db:        db,
		tokenizer: tok,
		compiler:  NewQueryCompiler(tok),
		logger:    logger,
		now:       time.Now,
	}
}

const entryColumns = `e.public_entry_id, e.tenant_id, e.title, e.summary, e.categories, e.tags,
	e.created_by, e.created_date, e.last_modified_by, e.last_modified_date`

// searchEntriesQuery lists entries newest first. The comment markers are
// replaced with the optional predicates derived from the search criteria.
const searchEntriesQuery = `SELECT ` + entryColumns + `
FROM entry e
WHERE e.tenant_id = :tenantId
AND (:cursor IS NULL OR e.last_modified_date < :cursor)
/* QUERY */
/* TAG */
/* CATEGORIES */
ORDER BY e.last_modified_date DESC
LIMIT :limit`

// FindByID loads one entry, content included.
func (r *EntryRepo) FindByID(ctx context.Context, key entry.EntryKey) (entry.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+`, e.content
FROM entry e WHERE e.public_entry_id = ? AND e.tenant_id = ?`, key.EntryID, key.TenantID)

	var (
		e                entry.Entry
		categories, tags string
		created, updated string
	)
	err := row.Scan(&e.EntryID, &e.TenantID, &e.FrontMatter.Title, &e.FrontMatter.Summary,
		&categories, &tags, &e.Created.Name, &created, &e.Updated.Name, &updated, &e.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, fmt.Errorf("entry %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return entry.Entry{}, fmt.Errorf("find entry %s: %w", key, err)
	}
	if err := fillScannedEntry(&e, categories, tags, created, updated); err != nil {
		return entry.Entry{}, err
	}
	return e, nil
}

// FindAll loads the given entries without content, in ascending ID order.
// Keys that match no entry are silently skipped. All keys must belong to the
// same tenant.
func (r *EntryRepo) FindAll(ctx context.Context, keys []entry.EntryKey) ([]entry.Entry, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	tenantID := keys[0].TenantID
	ids := make([]int64, len(keys))
	for i, key := range keys {
		if key.TenantID != tenantID {
			return nil, ErrMixedTenants
		}
		ids[i] = key.EntryID
	}

	q, args, err := expandNamedQuery(`SELECT `+entryColumns+`
FROM entry e WHERE e.tenant_id = :tenantId AND e.public_entry_id IN (:entryIds)
ORDER BY e.public_entry_id`, map[string]any{
		"tenantId": tenantID,
		"entryIds": ids,
	})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// FindOrderByUpdated lists entries newest first, filtered by the criteria,
// one page at a time. One extra row past the page size is fetched to decide
// whether a next page exists.
func (r *EntryRepo) FindOrderByUpdated(ctx context.Context, tenantID string, criteria entry.SearchCriteria, req pagination.CursorPageRequest[time.Time]) (pagination.CursorPage[entry.Entry, time.Time], error) {
	var page pagination.CursorPage[entry.Entry, time.Time]

	params := map[string]any{
		"tenantId": tenantID,
		"cursor":   nil,
		"limit":    req.PageSize + 1,
	}
	if req.Cursor != nil {
		params["cursor"] = formatTime(*req.Cursor)
	}

	sqlText := searchEntriesQuery
	sqlText = strings.Replace(sqlText, "/* QUERY */", r.queryPredicate(criteria.Query, params), 1)
	sqlText = strings.Replace(sqlText, "/* TAG */", tagPredicate(criteria.Tag, params), 1)
	sqlText = strings.Replace(sqlText, "/* CATEGORIES */", categoriesPredicate(criteria.Categories, params), 1)

	q, args, err := expandNamedQuery(sqlText, params)
	if err != nil {
		return page, err
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return page, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return page, err
	}
	hasNext := len(entries) > req.PageSize
	if hasNext {
		entries = entries[:req.PageSize]
	}
	return pagination.NewCursorPage(entries, req.PageSize, entry.Entry.ToCursor,
		req.Cursor != nil, hasNext), nil
}

// queryPredicate compiles the free-text query into a containment predicate,
// or returns "" when there is no query to apply.
func (r *EntryRepo) queryPredicate(text string, params map[string]any) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	compiled := r.compiler.Compile(query.Parse(text))
	if compiled.Where == "" {
		return ""
	}
	for name, value := range compiled.Params {
		params[name] = value
	}
	return "AND (" + compiled.Where + ")"
}

func tagPredicate(tag string, params map[string]any) string {
	if tag == "" {
		return ""
	}
	params["tag"] = tag
	return "AND e.id IN (SELECT entry_id FROM entry_tags WHERE name = :tag)"
}

// categoriesPredicate matches entries whose category path starts with the
// given names in order. Positions are 1-based.
func categoriesPredicate(categories []string, params map[string]any) string {
	if len(categories) == 0 {
		return ""
	}
	conds := make([]string, len(categories))
	for i, name := range categories {
		nameParam := fmt.Sprintf("categoryName%d", i+1)
		positionParam := fmt.Sprintf("categoryPosition%d", i+1)
		params[nameParam] = name
		params[positionParam] = i + 1
		conds[i] = fmt.Sprintf("(name = :%s AND position = :%s)", nameParam, positionParam)
	}
	params["categoriesSize"] = len(categories)
	return "AND e.id IN (SELECT entry_id FROM entry_categories WHERE " +
		strings.Join(conds, " OR ") +
		" GROUP BY entry_id HAVING COUNT(*) = :categoriesSize)"
}

// FindAllTags lists every tag in the tenant with its entry count.
func (r *EntryRepo) FindAllTags(ctx context.Context, tenantID string) ([]entry.TagAndCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT t.name, t.version, COUNT(*)
FROM entry_tags t
JOIN entry e ON e.id = t.entry_id
WHERE e.tenant_id = ?
GROUP BY t.name, t.version
ORDER BY t.name, t.version`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	defer rows.Close()

	var tags []entry.TagAndCount
	for rows.Next() {
		var (
			tc      entry.TagAndCount
			version sql.NullString
		)
		if err := rows.Scan(&tc.Name, &version, &tc.Count); err != nil {
			return nil, err
		}
		tc.Version = version.String
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

// FindAllCategories lists the distinct category paths used in the tenant.
func (r *EntryRepo) FindAllCategories(ctx context.Context, tenantID string) ([][]entry.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT categories FROM entry WHERE tenant_id = ? ORDER BY categories`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer rows.Close()

	var paths [][]entry.Category
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var path []entry.Category
		if err := json.Unmarshal([]byte(raw), &path); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Save upserts the entry and replaces its tag, category and token rows.
// The entry row and its associations commit first; the token index is
// rewritten afterwards in its own transactions, so a reader may briefly see
// the new entry with the old tokens.
func (r *EntryRepo) Save(ctx context.Context, e entry.Entry) (entry.Entry, error) {
	if e.TenantID == "" {
		e.TenantID = entry.DefaultTenantID
	}
	now := r.now()
	if e.Created.Date.IsZero() {
		e.Created = e.Created.WithDate(now)
	}
	if e.Updated.Date.IsZero() {
		e.Updated = e.Updated.WithDate(now)
	}

	categories, err := json.Marshal(e.FrontMatter.Categories)
	if err != nil {
		return entry.Entry{}, err
	}
	tags, err := json.Marshal(e.FrontMatter.Tags)
	if err != nil {
		return entry.Entry{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return entry.Entry{}, err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `INSERT INTO entry
(id, public_entry_id, tenant_id, title, summary, content,
 created_by, created_date, last_modified_by, last_modified_date, categories, tags)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (public_entry_id, tenant_id) DO UPDATE SET
	title = excluded.title,
	summary = excluded.summary,
	content = excluded.content,
	created_by = excluded.created_by,
	created_date = excluded.created_date,
	last_modified_by = excluded.last_modified_by,
	last_modified_date = excluded.last_modified_date,
	categories = excluded.categories,
	tags = excluded.tags
RETURNING id`,
		uuid.NewString(), e.EntryID, e.TenantID, e.FrontMatter.Title, e.FrontMatter.Summary, e.Content,
		e.Created.Name, formatTime(e.Created.Date), e.Updated.Name, formatTime(e.Updated.Date),
		string(categories), string(tags)).Scan(&id)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("save entry %s: %w", e.EntryKey, err)
	}

	if err := replaceCategories(ctx, tx, id, e.FrontMatter.Categories); err != nil {
		return entry.Entry{}, err
	}
	if err := replaceTags(ctx, tx, id, e.FrontMatter.Tags); err != nil {
		return entry.Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return entry.Entry{}, err
	}

	if err := r.replaceTokens(ctx, id, e); err != nil {
		return entry.Entry{}, err
	}
	return e, nil
}

func replaceCategories(ctx context.Context, tx *sql.Tx, id string, categories []entry.Category) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_categories WHERE entry_id = ?`, id); err != nil {
		return err
	}
	for i, c := range categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entry_categories (entry_id, name, position) VALUES (?, ?, ?)`,
			id, c.Name, i+1); err != nil {
			return err
		}
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, id string, tags []entry.Tag) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, id); err != nil {
		return err
	}
	for _, t := range tags {
		version := sql.NullString{String: t.Version, Valid: t.Version != ""}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entry_tags (entry_id, name, version) VALUES (?, ?, ?)`,
			id, t.Name, version); err != nil {
			return err
		}
	}
	return nil
}

// replaceTokens rewrites the token index rows for one entry.
func (r *EntryRepo) replaceTokens(ctx context.Context, id string, e entry.Entry) error {
	tokens := r.tokenizer.Tokenize(e.FrontMatter.Title + "\n\n" + e.Content)
	if err := r.deleteTokens(ctx, id, e.EntryKey); err != nil {
		return err
	}
	return r.insertTokens(ctx, id, e.EntryKey, tokens)
}

// insertTokens writes the token rows. Small sets go in one transaction;
// anything past the chunk ceiling is split into independent per-chunk
// transactions.
func (r *EntryRepo) insertTokens(ctx context.Context, id string, key entry.EntryKey, tokens map[string]struct{}) error {
	if len(tokens) == 0 {
		return nil
	}
	sorted := make([]string, 0, len(tokens))
	for tok := range tokens {
		sorted = append(sorted, tok)
	}
	sort.Strings(sorted)

	if len(sorted) > tokensMaxChunkSize {
		r.logger.Warn("writing tokens in chunks",
			slog.String("entry", key.String()),
			slog.Int("tokens", len(sorted)),
			slog.Int("chunkSize", tokensMaxChunkSize))
	}
	for start := 0; start < len(sorted); start += tokensMaxChunkSize {
		end := min(start+tokensMaxChunkSize, len(sorted))
		if err := r.insertTokenChunk(ctx, id, sorted[start:end]); err != nil {
			return fmt.Errorf("insert tokens for entry %s: %w", key, err)
		}
		if len(sorted) > tokensMaxChunkSize {
			r.logger.Info("wrote token chunk",
				slog.String("entry", key.String()),
				slog.Int("written", end),
				slog.Int("total", len(sorted)))
		}
	}
	return nil
}

func (r *EntryRepo) insertTokenChunk(ctx context.Context, id string, tokens []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entry_tokens (entry_id, token) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tok := range tokens {
		if _, err := stmt.ExecContext(ctx, id, tok); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// deleteTokens removes the entry's token rows, in chunks when the entry has
// more token rows than fit one transaction.
func (r *EntryRepo) deleteTokens(ctx context.Context, id string, key entry.EntryKey) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entry_tokens WHERE entry_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count <= tokensMaxChunkSize {
		_, err := r.db.ExecContext(ctx, `DELETE FROM entry_tokens WHERE entry_id = ?`, id)
		return err
	}

	r.logger.Warn("deleting tokens in chunks",
		slog.String("entry", key.String()),
		slog.Int("tokens", count),
		slog.Int("chunkSize", tokensMaxChunkSize))
	for {
		res, err := r.db.ExecContext(ctx, `DELETE FROM entry_tokens
WHERE entry_id = ?
AND rowid IN (SELECT rowid FROM entry_tokens WHERE entry_id = ? LIMIT ?)`,
			id, id, tokensMaxChunkSize)
		if err != nil {
			return fmt.Errorf("delete tokens for entry %s: %w", key, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		r.logger.Info("deleted token chunk",
			slog.String("entry", key.String()),
			slog.Int64("deleted", affected))
	}
}

// DeleteByID removes the entry; associated rows cascade.
func (r *EntryRepo) DeleteByID(ctx context.Context, key entry.EntryKey) error {
	id, err := r.surrogateID(ctx, key)
	if err != nil {
		return err
	}
	// Token rows may exceed one transaction's worth; clear them first.
	if err := r.deleteTokens(ctx, id, key); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM entry WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", key, err)
	}
	return nil
}

// NextID returns the next unused public entry ID in the tenant.
func (r *EntryRepo) NextID(ctx context.Context, tenantID string) (int64, error) {
	var next int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(public_entry_id), 0) + 1 FROM entry WHERE tenant_id = ?`,
		tenantID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next entry id: %w", err)
	}
	return next, nil
}

// DeleteTokens drops the entry's token index rows, leaving the entry itself
// in place. The entry stops matching free-text queries until the index is
// rebuilt.
func (r *EntryRepo) DeleteTokens(ctx context.Context, key entry.EntryKey) error {
	id, err := r.surrogateID(ctx, key)
	if err != nil {
		return err
	}
	return r.deleteTokens(ctx, id, key)
}

// RebuildTokens re-derives the entry's token index from its stored content.
func (r *EntryRepo) RebuildTokens(ctx context.Context, key entry.EntryKey) error {
	e, err := r.FindByID(ctx, key)
	if err != nil {
		return err
	}
	id, err := r.surrogateID(ctx, key)
	if err != nil {
		return err
	}
	return r.replaceTokens(ctx, id, e)
}

func (r *EntryRepo) surrogateID(ctx context.Context, key entry.EntryKey) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM entry WHERE public_entry_id = ? AND tenant_id = ?`,
		key.EntryID, key.TenantID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("entry %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func scanEntries(rows *sql.Rows) ([]entry.Entry, error) {
	var entries []entry.Entry
	for rows.Next() {
		var (
			e                entry.Entry
			categories, tags string
			created, updated string
		)
		if err := rows.Scan(&e.EntryID, &e.TenantID, &e.FrontMatter.Title, &e.FrontMatter.Summary,
			&categories, &tags, &e.Created.Name, &created, &e.Updated.Name, &updated); err != nil {
			return nil, err
		}
		if err := fillScannedEntry(&e, categories, tags, created, updated); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func fillScannedEntry(e *entry.Entry, categories, tags, created, updated string) error {
	if err := json.Unmarshal([]byte(categories), &e.FrontMatter.Categories); err != nil {
		return fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &e.FrontMatter.Tags); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}
	createdDate, err := parseTime(created)
	if err != nil {
		return err
	}
	updatedDate, err := parseTime(updated)
	if err != nil {
		return err
	}
	e.Created = e.Created.WithDate(createdDate)
	e.Updated = e.Updated.WithDate(updatedDate)
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}
