package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jcastellanos/legajo/internal/apperr"
	"github.com/jcastellanos/legajo/internal/db"
)

// Lexical ranks documents by full-text relevance over title, content and
// extracted summary, with a substring containment net for queries the
// tokenizer misses. Both conditions feed one candidate pool, not a
// two-phase fallback.
type Lexical struct {
	db *db.DB
}

// NewLexical creates a lexical ranker over the given database.
func NewLexical(database *db.DB) *Lexical {
	return &Lexical{db: database}
}

// Search returns up to limit documents owned by ownerID matching the query,
// ordered by (relevance desc, createdAt desc). Substring-only hits carry
// relevance 0.
func (l *Lexical) Search(ctx context.Context, ownerID, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validationf("query must not be empty")
	}
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	pool := map[string]float64{}

	// Full-text candidates, bm25-ranked.
	rows, err := l.db.QueryContext(ctx, `
		SELECT doc_id, bm25(documents_fts) FROM documents_fts
		WHERE documents_fts MATCH ? AND owner_id = ?`,
		ftsQuery(query), ownerID)
	if err != nil {
		return nil, fmt.Errorf("full-text query: %w", err)
	}
	for rows.Next() {
		var id string
		var rank float64
		if err := rows.Scan(&id, &rank); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning full-text hit: %w", err)
		}
		pool[id] = normalizeRank(rank)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading full-text hits: %w", err)
	}
	rows.Close()

	// Substring candidates on title/content, OR'd into the same pool with
	// relevance 0 (no rank is computed for pure containment hits).
	pattern := "%" + escapeLike(query) + "%"
	rows, err = l.db.QueryContext(ctx, `
		SELECT id FROM documents
		WHERE owner_id = ? AND (title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`,
		ownerID, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("substring query: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning substring hit: %w", err)
		}
		if _, ranked := pool[id]; !ranked {
			pool[id] = 0
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading substring hits: %w", err)
	}
	rows.Close()

	if len(pool) == 0 {
		return []Result{}, nil
	}

	results, err := l.hydrate(ctx, ownerID, pool)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// hydrate attaches title, summary and creation time to the candidate pool.
func (l *Lexical) hydrate(ctx context.Context, ownerID string, pool map[string]float64) ([]Result, error) {
	ids := make([]string, 0, len(pool))
	args := make([]any, 0, len(pool)+1)
	args = append(args, ownerID)
	for id := range pool {
		ids = append(ids, "?")
		args = append(args, id)
	}

	rows, err := l.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, title, json_extract(extracted_fields, '$.summary.value'), created_at
		FROM documents WHERE owner_id = ? AND id IN (%s)`,
		strings.Join(ids, ",")), args...)
	if err != nil {
		return nil, fmt.Errorf("hydrating results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r         Result
			summary   *string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Title, &summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if summary != nil {
			r.Summary = *summary
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		r.Score = pool[r.ID]
		results = append(results, r)
	}
	return results, rows.Err()
}

// NormalizeLimit applies the default and rejects values outside [1, 50].
func NormalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, apperr.Validationf("limit must be between 1 and %d, got %d", MaxLimit, limit)
	}
	return limit, nil
}

// ftsQuery turns free text into an FTS5 match expression: each token is
// quoted so user punctuation cannot change the query syntax.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// normalizeRank maps an FTS5 bm25 rank (lower is better, typically
// negative) into (0, 1], monotonically.
func normalizeRank(rank float64) float64 {
	s := -rank
	if s < 0 {
		s = 0
	}
	return s / (s + 1)
}
