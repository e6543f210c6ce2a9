package postgres

import (
	"context"
	"fmt"
	"strings"

	"sidequest/internal/store"
)

// tagsTextDDL wraps array_to_string, which is only STABLE, so the generated
// search column can index tags.
const tagsTextDDL = `
CREATE OR REPLACE FUNCTION sidequest_tags_text(tags TEXT[]) RETURNS TEXT
    LANGUAGE sql IMMUTABLE PARALLEL SAFE
    AS $fn$ SELECT array_to_string(tags, ' ') $fn$;
`

// cardTableDDL is instantiated once per card table. created_at uses
// clock_timestamp so rows inserted in one transaction still order. The DO
// block rebuilds search_vector when it predates tag indexing.
const cardTableDDL = `
CREATE TABLE IF NOT EXISTS {t} (
    id         TEXT PRIMARY KEY,
    owner_id   TEXT NOT NULL,
    title      TEXT NOT NULL,
    body       TEXT NOT NULL DEFAULT '',
    theme      TEXT NOT NULL DEFAULT '',
    tags       TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

DO $do$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns
        WHERE table_schema = current_schema()
          AND table_name = '{t}'
          AND column_name = 'search_vector'
          AND generation_expression LIKE '%sidequest_tags_text%'
    ) THEN
        ALTER TABLE {t} DROP COLUMN IF EXISTS search_vector;
        ALTER TABLE {t} ADD COLUMN search_vector TSVECTOR GENERATED ALWAYS AS (
            setweight(to_tsvector('english', title), 'A') ||
            setweight(to_tsvector('english', body), 'B') ||
            setweight(to_tsvector('english', sidequest_tags_text(tags)), 'C')
        ) STORED;
    END IF;
END
$do$;

CREATE INDEX IF NOT EXISTS idx_{t}_owner_created ON {t} (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_{t}_search ON {t} USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_{t}_tags ON {t} USING GIN (tags);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	var ddl strings.Builder
	ddl.WriteString(tagsTextDDL)
	for _, table := range store.Tables() {
		ddl.WriteString(strings.ReplaceAll(cardTableDDL, "{t}", table))
	}
	if _, err := c.pool.Exec(ctx, ddl.String()); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
