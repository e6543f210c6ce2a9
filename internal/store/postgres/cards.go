package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sidequest/internal/card"
	"sidequest/internal/store"
)

func (c *Client) InsertCard(ctx context.Context, in store.CardInput) (*store.CardRecord, error) {
	table, err := store.Table(in.Kind)
	if err != nil {
		return nil, err
	}

	rec := &store.CardRecord{
		ID:    uuid.NewString(),
		Owner: in.Owner,
		Kind:  in.Kind,
		Title: in.Title,
		Body:  in.Body,
		Theme: in.Theme,
		Tags:  card.NormalizeTags(in.Tags),
	}

	sql := `
INSERT INTO ` + table + ` (id, owner_id, title, body, theme, tags)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at
`
	err = c.pool.QueryRow(ctx, sql, rec.ID, rec.Owner, rec.Title, rec.Body, rec.Theme, rec.Tags).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting into %s: %w", table, err)
	}
	return rec, nil
}

func (c *Client) ListCards(ctx context.Context, owner string, kind card.Kind) ([]store.CardRecord, error) {
	table, err := store.Table(kind)
	if err != nil {
		return nil, err
	}

	sql := `
SELECT id, owner_id, title, body, theme, tags, created_at
FROM ` + table + `
WHERE owner_id = $1
ORDER BY created_at DESC
`
	rows, err := c.pool.Query(ctx, sql, owner)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	records := []store.CardRecord{}
	for rows.Next() {
		rec := store.CardRecord{Kind: kind}
		if err := rows.Scan(&rec.ID, &rec.Owner, &rec.Title, &rec.Body, &rec.Theme, &rec.Tags, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		records = append(records, rec)
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

	tag, err := c.pool.Exec(ctx,
		`UPDATE `+table+` SET tags = $1 WHERE id = $2 AND owner_id = $3`,
		card.NormalizeTags(tags), id, owner,
	)
	if err != nil {
		return fmt.Errorf("updating tags in %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) DeleteCard(ctx context.Context, owner string, kind card.Kind, id string) error {
	table, err := store.Table(kind)
	if err != nil {
		return err
	}

	var deleted string
	err = c.pool.QueryRow(ctx,
		`DELETE FROM `+table+` WHERE id = $1 AND owner_id = $2 RETURNING id`,
		id, owner,
	).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", table, id, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return nil
}
