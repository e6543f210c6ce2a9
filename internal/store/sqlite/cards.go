package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sidequest/internal/card"
	"sidequest/internal/store"
)

func (c *Client) InsertCard(ctx context.Context, in store.CardInput) (*store.CardRecord, error) {
	table, err := store.Table(in.Kind)
	if err != nil {
		return nil, err
	}
	tags := card.NormalizeTags(in.Tags)
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshaling tags: %w", err)
	}

	id := uuid.NewString()
	query := `
	INSERT INTO ` + table + ` (id, owner_id, title, body, theme, tags)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING created_at
	`

	var createdAt string
	err = c.db.QueryRowContext(ctx, query, id, in.Owner, in.Title, in.Body, in.Theme, string(tagsJSON)).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("inserting into %s: %w", table, err)
	}

	rec := &store.CardRecord{
		ID:    id,
		Owner: in.Owner,
		Kind:  in.Kind,
		Title: in.Title,
		Body:  in.Body,
		Theme: in.Theme,
		Tags:  tags,
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) ListCards(ctx context.Context, owner string, kind card.Kind) ([]store.CardRecord, error) {
	table, err := store.Table(kind)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, owner_id, title, body, theme, tags, created_at
	FROM ` + table + `
	WHERE owner_id = ?
	ORDER BY created_at DESC, rowid DESC
	`

	rows, err := c.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	records := []store.CardRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows, kind)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table, err)
	}
	return records, nil
}

func (c *Client) UpdateTags(ctx context.Context, owner string, kind card.Kind, id string, tags []string) error {
	table, err := store.Table(kind)
	if err != nil {
		return err
	}
	tagsJSON, err := json.Marshal(card.NormalizeTags(tags))
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	res, err := c.db.ExecContext(ctx,
		`UPDATE `+table+` SET tags = ? WHERE id = ? AND owner_id = ?`,
		string(tagsJSON), id, owner,
	)
	if err != nil {
		return fmt.Errorf("updating tags in %s: %w", table, err)
	}
	return requireAffected(res, table, id)
}

func (c *Client) DeleteCard(ctx context.Context, owner string, kind card.Kind, id string) error {
	table, err := store.Table(kind)
	if err != nil {
		return err
	}

	res, err := c.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE id = ? AND owner_id = ?`,
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return requireAffected(res, table, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, kind card.Kind) (*store.CardRecord, error) {
	rec := store.CardRecord{Kind: kind}
	var tagsText, createdAt string
	if err := row.Scan(&rec.ID, &rec.Owner, &rec.Title, &rec.Body, &rec.Theme, &tagsText, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning card row: %w", err)
	}
	if err := decodeColumns(&rec, tagsText, createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// decodeColumns fills the JSON tag list and timestamp of rec.
func decodeColumns(rec *store.CardRecord, tagsText, createdAt string) error {
	if tagsText != "" {
		if err := json.Unmarshal([]byte(tagsText), &rec.Tags); err != nil {
			return fmt.Errorf("unmarshaling tags: %w", err)
		}
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	var err error
	rec.CreatedAt, err = parseTime(createdAt)
	return err
}

func requireAffected(res sql.Result, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows in %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at %q: %w", value, err)
	}
	return t, nil
}
