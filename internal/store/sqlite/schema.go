package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sidequest/internal/store"
)

// cardTableDDL is instantiated once per card table. The fts5 table shadows
// title, body and the JSON tag list for SearchCards.
const cardTableDDL = `
CREATE TABLE IF NOT EXISTS {t} (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	theme      TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_{t}_owner_created ON {t} (owner_id, created_at);

CREATE VIRTUAL TABLE IF NOT EXISTS {t}_fts USING fts5(
	title,
	body,
	tags,
	content={t}
);

CREATE TRIGGER IF NOT EXISTS {t}_ai AFTER INSERT ON {t} BEGIN
	INSERT INTO {t}_fts(rowid, title, body, tags) VALUES (new.rowid, new.title, new.body, new.tags);
END;

CREATE TRIGGER IF NOT EXISTS {t}_ad AFTER DELETE ON {t} BEGIN
	INSERT INTO {t}_fts({t}_fts, rowid, title, body, tags) VALUES ('delete', old.rowid, old.title, old.body, old.tags);
END;

CREATE TRIGGER IF NOT EXISTS {t}_au AFTER UPDATE ON {t} BEGIN
	INSERT INTO {t}_fts({t}_fts, rowid, title, body, tags) VALUES ('delete', old.rowid, old.title, old.body, old.tags);
	INSERT INTO {t}_fts(rowid, title, body, tags) VALUES (new.rowid, new.title, new.body, new.tags);
END;
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range store.Tables() {
		stale, err := dropStaleIndex(ctx, tx, table)
		if err != nil {
			return err
		}
		ddl := strings.ReplaceAll(cardTableDDL, "{t}", table)
		for _, stmt := range splitStatements(ddl) {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("executing DDL for %s: %w", table, err)
			}
		}
		if stale {
			if _, err := tx.ExecContext(ctx, "INSERT INTO "+table+"_fts("+table+"_fts) VALUES ('rebuild')"); err != nil {
				return fmt.Errorf("rebuilding search index for %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// dropStaleIndex drops a search index created before tags were indexed,
// along with its triggers, and reports whether it did.
func dropStaleIndex(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	fts := table + "_fts"
	var found int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, fts).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("checking search index for %s: %w", table, err)
	}
	if found == 0 {
		return false, nil
	}
	var hasTags int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = 'tags'`, fts).Scan(&hasTags)
	if err != nil {
		return false, fmt.Errorf("inspecting search index for %s: %w", table, err)
	}
	if hasTags > 0 {
		return false, nil
	}

	for _, stmt := range []string{
		"DROP TRIGGER IF EXISTS " + table + "_ai",
		"DROP TRIGGER IF EXISTS " + table + "_ad",
		"DROP TRIGGER IF EXISTS " + table + "_au",
		"DROP TABLE " + fts,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return false, fmt.Errorf("dropping stale search index for %s: %w", table, err)
		}
	}
	return true, nil
}

// splitStatements splits on lines ending in ';', keeping trigger bodies whole
// by tracking BEGIN/END.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, " BEGIN") {
			inTrigger = true
		}
		if inTrigger {
			if stripped == "END;" {
				inTrigger = false
				statements = append(statements, current.String())
				current.Reset()
			}
			continue
		}
		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}
	return statements
}
