package sqlite

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

	ftsQuery := websearchToFTS5(query)
	sqlQuery := `
	SELECT t.id, t.owner_id, t.title, t.body, t.theme, t.tags, t.created_at,
		   -bm25(` + table + `_fts, 10.0, 1.0, 5.0) AS score,
		   snippet(` + table + `_fts, 1, '**', '**', '...', 16) AS snippet
	FROM ` + table + `_fts
	JOIN ` + table + ` t ON ` + table + `_fts.rowid = t.rowid
	WHERE ` + table + `_fts MATCH ?
	  AND t.owner_id = ?
	ORDER BY score DESC, t.created_at DESC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, ftsQuery, owner)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", table, err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var tagsText, createdAt string
		err := rows.Scan(&r.ID, &r.Owner, &r.Title, &r.Body, &r.Theme, &tagsText, &createdAt, &r.Score, &r.Snippet)
		if err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Kind = kind
		if err := decodeColumns(&r.CardRecord, tagsText, createdAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}

// websearchToFTS5 translates web-search style input ("quoted phrases", -term,
// OR) into an FTS5 MATCH expression. Bare terms are ANDed.
func websearchToFTS5(query string) string {
	var out []string
	pendingOp := ""

	emit := func(expr string) {
		if len(out) > 0 {
			op := pendingOp
			if op == "" {
				op = "AND"
			}
			out = append(out, op)
		}
		out = append(out, expr)
		pendingOp = ""
	}

	for _, tok := range tokenize(query) {
		if tok.phrase {
			emit(`"` + strings.ReplaceAll(tok.text, `"`, `""`) + `"`)
			continue
		}
		switch upper := strings.ToUpper(tok.text); upper {
		case "OR", "AND":
			if len(out) > 0 {
				pendingOp = upper
			}
			continue
		case "NOT":
			if len(out) > 0 {
				pendingOp = "NOT"
			}
			continue
		}
		if term, ok := strings.CutPrefix(tok.text, "-"); ok && term != "" && len(out) > 0 {
			pendingOp = "NOT"
			emit(quoteTerm(term))
			continue
		}
		emit(quoteTerm(strings.TrimPrefix(tok.text, "-")))
	}
	return strings.Join(out, " ")
}

// quoteTerm wraps a bare word so punctuation is not read as FTS5 syntax. A
// trailing * stays outside the quotes as a prefix query.
func quoteTerm(term string) string {
	prefix := strings.HasSuffix(term, "*")
	term = strings.TrimRight(term, "*")
	quoted := `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	if prefix {
		quoted += "*"
	}
	return quoted
}

type token struct {
	text   string
	phrase bool
}

func tokenize(query string) []token {
	var tokens []token
	for i, part := range strings.Split(query, `"`) {
		if i%2 == 1 {
			if strings.TrimSpace(part) != "" {
				tokens = append(tokens, token{text: part, phrase: true})
			}
			continue
		}
		for _, word := range strings.Fields(part) {
			tokens = append(tokens, token{text: word})
		}
	}
	return tokens
}
