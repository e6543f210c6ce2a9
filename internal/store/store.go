// Package store defines the remote record backend for saved cards.
package store

import (
	"context"
	"errors"
	"fmt"

	"sidequest/internal/card"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnknownTable = errors.New("no table for card kind")
	ErrEmptyQuery   = errors.New("query must not be empty")
)

// Store persists saved cards. Every call is scoped to one owner; rows of other
// owners are invisible.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	InsertCard(ctx context.Context, in CardInput) (*CardRecord, error)
	ListCards(ctx context.Context, owner string, kind card.Kind) ([]CardRecord, error)
	UpdateTags(ctx context.Context, owner string, kind card.Kind, id string, tags []string) error
	DeleteCard(ctx context.Context, owner string, kind card.Kind, id string) error
	SearchCards(ctx context.Context, owner string, kind card.Kind, query string) ([]SearchResult, error)
}

// Table resolves the table name for kind.
func Table(kind card.Kind) (string, error) {
	table := kind.Table()
	if table == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, kind)
	}
	return table, nil
}

// Tables lists every card table in schema order.
func Tables() []string {
	return []string{card.KindQuest.Table(), card.KindNPC.Table()}
}
