package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"sidequest/internal/card"
	"sidequest/internal/store"
)

func newMemoryClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error: %v", err)
	}
	return c
}

func TestNewFileDatabaseUsesWAL(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })

	var mode string
	if err := c.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("reading journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	c := newMemoryClient(t)
	if err := c.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema() error: %v", err)
	}
}

func TestCardLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newMemoryClient(t)

	first, err := c.InsertCard(ctx, store.CardInput{
		Owner: "alice",
		Kind:  card.KindQuest,
		Title: "Rescue Quest",
		Body:  "A villager is held at the Sunken Crypt by a lich.\nReward: 50 gold",
		Theme: "fantasy",
		Tags:  []string{"urgent", "Urgent", " "},
	})
	if err != nil {
		t.Fatalf("InsertCard() error: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("InsertCard() returned incomplete record: %+v", first)
	}
	if !reflect.DeepEqual(first.Tags, []string{"urgent"}) {
		t.Fatalf("tags = %#v", first.Tags)
	}

	second, err := c.InsertCard(ctx, store.CardInput{Owner: "alice", Kind: card.KindQuest, Title: "Bounty Quest", Body: "Hunt down a band of goblins."})
	if err != nil {
		t.Fatalf("InsertCard() error: %v", err)
	}
	if _, err := c.InsertCard(ctx, store.CardInput{Owner: "bob", Kind: card.KindQuest, Title: "Other Quest"}); err != nil {
		t.Fatalf("InsertCard() error: %v", err)
	}

	t.Run("list is newest first and owner scoped", func(t *testing.T) {
		records, err := c.ListCards(ctx, "alice", card.KindQuest)
		if err != nil {
			t.Fatalf("ListCards() error: %v", err)
		}
		if len(records) != 2 || records[0].ID != second.ID || records[1].ID != first.ID {
			t.Fatalf("unexpected order: %+v", records)
		}
		npcs, err := c.ListCards(ctx, "alice", card.KindNPC)
		if err != nil {
			t.Fatalf("ListCards() error: %v", err)
		}
		if len(npcs) != 0 {
			t.Fatalf("expected no npcs, got %d", len(npcs))
		}
	})

	t.Run("update tags replaces the list", func(t *testing.T) {
		if err := c.UpdateTags(ctx, "alice", card.KindQuest, first.ID, []string{"act-2", "crypt"}); err != nil {
			t.Fatalf("UpdateTags() error: %v", err)
		}
		records, _ := c.ListCards(ctx, "alice", card.KindQuest)
		if !reflect.DeepEqual(records[1].Tags, []string{"act-2", "crypt"}) {
			t.Fatalf("tags = %#v", records[1].Tags)
		}
	})

	t.Run("other owner cannot touch the row", func(t *testing.T) {
		err := c.UpdateTags(ctx, "bob", card.KindQuest, first.ID, nil)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		err = c.DeleteCard(ctx, "bob", card.KindQuest, first.ID)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("search matches title and body", func(t *testing.T) {
		results, err := c.SearchCards(ctx, "alice", card.KindQuest, "lich")
		if err != nil {
			t.Fatalf("SearchCards() error: %v", err)
		}
		if len(results) != 1 || results[0].ID != first.ID {
			t.Fatalf("unexpected results: %+v", results)
		}
		if _, err := c.SearchCards(ctx, "alice", card.KindQuest, "  "); !errors.Is(err, store.ErrEmptyQuery) {
			t.Fatalf("expected ErrEmptyQuery, got %v", err)
		}
	})

	t.Run("search matches tags", func(t *testing.T) {
		miller, err := c.InsertCard(ctx, store.CardInput{
			Owner: "carol",
			Kind:  card.KindQuest,
			Title: "Rescue Quest",
			Body:  "Save the miller.",
			Tags:  []string{"haunted"},
		})
		if err != nil {
			t.Fatalf("InsertCard() error: %v", err)
		}
		results, err := c.SearchCards(ctx, "carol", card.KindQuest, "haunted")
		if err != nil {
			t.Fatalf("SearchCards() error: %v", err)
		}
		if len(results) != 1 || results[0].ID != miller.ID {
			t.Fatalf("tag search results = %+v", results)
		}

		if err := c.UpdateTags(ctx, "carol", card.KindQuest, miller.ID, []string{"cursed"}); err != nil {
			t.Fatalf("UpdateTags() error: %v", err)
		}
		if results, _ := c.SearchCards(ctx, "carol", card.KindQuest, "haunted"); len(results) != 0 {
			t.Fatalf("removed tag still searchable: %+v", results)
		}
		if results, _ := c.SearchCards(ctx, "carol", card.KindQuest, "cursed"); len(results) != 1 {
			t.Fatalf("new tag not searchable: %+v", results)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := c.DeleteCard(ctx, "alice", card.KindQuest, first.ID); err != nil {
			t.Fatalf("DeleteCard() error: %v", err)
		}
		if err := c.DeleteCard(ctx, "alice", card.KindQuest, first.ID); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		results, err := c.SearchCards(ctx, "alice", card.KindQuest, "lich")
		if err != nil {
			t.Fatalf("SearchCards() error: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("deleted card still searchable: %+v", results)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := c.ListCards(ctx, "alice", card.Kind("dragon")); !errors.Is(err, store.ErrUnknownTable) {
			t.Fatalf("expected ErrUnknownTable, got %v", err)
		}
	})
}

func TestEnsureSchemaUpgradesSearchIndex(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })

	legacy := []string{
		`CREATE TABLE quests (
			id TEXT PRIMARY KEY, owner_id TEXT NOT NULL, title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '', theme TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]', created_at TEXT NOT NULL
		)`,
		`CREATE VIRTUAL TABLE quests_fts USING fts5(title, body, content=quests)`,
		`INSERT INTO quests (id, owner_id, title, body, tags, created_at)
			VALUES ('q1', 'alice', 'Bounty Quest', 'Hunt goblins.', '["haunted"]', '2024-01-01T00:00:00.000Z')`,
		`INSERT INTO quests_fts (quests_fts) VALUES ('rebuild')`,
	}
	for _, stmt := range legacy {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("legacy DDL error: %v", err)
		}
	}

	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error: %v", err)
	}
	results, err := c.SearchCards(ctx, "alice", card.KindQuest, "haunted")
	if err != nil {
		t.Fatalf("SearchCards() error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "q1" {
		t.Fatalf("results after upgrade = %+v", results)
	}
}
