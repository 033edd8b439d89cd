package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgLike implements Searcher using PostgreSQL ILIKE substring matching as a
// fallback. Matching is case-insensitive containment over title and
// description, so fallback hits agree with the list endpoint's search filter.
type PgLike struct {
	db *sql.DB
}

// NewPgLike creates a PostgreSQL fallback searcher.
func NewPgLike(db *sql.DB) *PgLike {
	return &PgLike{db: db}
}

// Healthy always returns true — if Postgres is down, the whole app is down.
func (p *PgLike) Healthy() bool {
	return true
}

// Search matches ideas whose title or description contains the query text.
func (p *PgLike) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	where := `(i.title ILIKE '%' || $1 || '%' OR i.description ILIKE '%' || $1 || '%')
		AND ($2='' OR i.category_id=$2)
		AND ($3='' OR i.status=$3)`
	args := []any{q.Text, q.FilterCategoryID, q.FilterStatus}

	ctx := context.Background()

	var total int
	countSQL := `SELECT count(*) FROM ideas i WHERE ` + where
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("fallback search count: %w", err)
	}

	dataSQL := fmt.Sprintf(`
		SELECT i.id, i.title, i.description, COALESCE(i.category_id, ''), COALESCE(c.name, ''), i.status
		FROM ideas i
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE %s
		ORDER BY i.submission_date DESC
		LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("fallback search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var description string
		if err := rows.Scan(&r.ID, &r.Title, &description, &r.CategoryID, &r.CategoryName, &r.Status); err != nil {
			return nil, 0, fmt.Errorf("fallback search scan: %w", err)
		}
		r.Snippet = excerpt(description, q.Text, 30)
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// excerpt returns up to maxWords words of text centered on the first
// occurrence of the query term, or the leading words when the term only
// matched the title.
func excerpt(text, term string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	at := 0
	lowerTerm := strings.ToLower(term)
	for i, w := range words {
		if strings.Contains(strings.ToLower(w), lowerTerm) {
			at = i
			break
		}
	}

	start := at - maxWords/2
	if start < 0 {
		start = 0
	}
	end := start + maxWords
	if end > len(words) {
		end = len(words)
	}

	out := strings.Join(words[start:end], " ")
	if start > 0 {
		out = "…" + out
	}
	if end < len(words) {
		out += "…"
	}
	return out
}

// LoadAllRecords returns all ideas for full reindexing.
func (p *PgLike) LoadAllRecords(ctx context.Context) ([]IdeaRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT i.id, i.title, i.description, COALESCE(i.category_id, ''), COALESCE(c.name, ''), i.status
		FROM ideas i
		LEFT JOIN categories c ON c.id = i.category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}
	defer rows.Close()

	records := make([]IdeaRecord, 0)
	for rows.Next() {
		var rec IdeaRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.CategoryID, &rec.CategoryName, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan idea record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate idea records: %w", err)
	}
	return records, nil
}
