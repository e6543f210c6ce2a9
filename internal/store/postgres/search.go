package postgres

import (
	"context"
	"fmt"
	"strings"

	"sidequest/internal/card"
	"sidequest/internal/store"
)

func (c *Client) SearchCards(ctx context.Context, owner string, kind card.Kind, query string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, store.ErrEmptyQuery
	}
	table, err := store.Table(kind)
	if err != nil {
		return nil, err
	}

	sql := `
SELECT id, owner_id, title, body, theme, tags, created_at,
    ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score,
    CASE WHEN body <> '' THEN
        ts_headline('english', body, websearch_to_tsquery('english', $1),
            'MaxFragments=2, MaxWords=20, MinWords=5, StartSel=**, StopSel=**')
    ELSE '' END AS snippet
FROM ` + table + `
WHERE search_vector @@ websearch_to_tsquery('english', $1)
  AND owner_id = $2
ORDER BY score DESC, created_at DESC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query, owner)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", table, err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		r := store.SearchResult{CardRecord: store.CardRecord{Kind: kind}}
		err := rows.Scan(&r.ID, &r.Owner, &r.Title, &r.Body, &r.Theme, &r.Tags, &r.CreatedAt, &r.Score, &r.Snippet)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}
