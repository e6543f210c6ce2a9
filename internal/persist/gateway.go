// Package persist is the identity-scoped gateway in front of a card store.
// Every call runs under the configured timeout and is attempted once.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sidequest/internal/card"
	"sidequest/internal/store"
)

// DefaultTimeout applies when the gateway is built with a zero timeout.
const DefaultTimeout = 15 * time.Second

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrDisabled         = errors.New("persistence is not configured")
	ErrTimedOut         = errors.New("remote operation timed out")
)

type Gateway struct {
	store   store.Store
	timeout time.Duration
}

// New wraps s. A nil store yields a gateway whose calls report ErrDisabled.
func New(s store.Store, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{store: s, timeout: timeout}
}

func (g *Gateway) Enabled() bool {
	return g != nil && g.store != nil
}

func (g *Gateway) Timeout() time.Duration {
	return g.timeout
}

// Insert saves c for identity and returns the new record.
func (g *Gateway) Insert(ctx context.Context, identity string, c *card.Card) (*store.CardRecord, error) {
	var rec *store.CardRecord
	err := g.call(ctx, identity, "insert", func(ctx context.Context) error {
		var err error
		rec, err = g.store.InsertCard(ctx, store.CardInput{
			Owner: identity,
			Kind:  c.Kind,
			Title: c.Title,
			Body:  c.Body(),
			Theme: c.Theme,
			Tags:  c.Tags,
		})
		return err
	})
	return rec, err
}

// List returns the identity's records of kind, newest first.
func (g *Gateway) List(ctx context.Context, identity string, kind card.Kind) ([]store.CardRecord, error) {
	var records []store.CardRecord
	err := g.call(ctx, identity, "list", func(ctx context.Context) error {
		var err error
		records, err = g.store.ListCards(ctx, identity, kind)
		return err
	})
	return records, err
}

// UpdateTags replaces the full tag list of a record.
func (g *Gateway) UpdateTags(ctx context.Context, identity string, kind card.Kind, id string, tags []string) error {
	return g.call(ctx, identity, "update tags", func(ctx context.Context) error {
		return g.store.UpdateTags(ctx, identity, kind, id, tags)
	})
}

func (g *Gateway) Delete(ctx context.Context, identity string, kind card.Kind, id string) error {
	return g.call(ctx, identity, "delete", func(ctx context.Context) error {
		return g.store.DeleteCard(ctx, identity, kind, id)
	})
}

func (g *Gateway) Search(ctx context.Context, identity string, kind card.Kind, query string) ([]store.SearchResult, error) {
	var results []store.SearchResult
	err := g.call(ctx, identity, "search", func(ctx context.Context) error {
		var err error
		results, err = g.store.SearchCards(ctx, identity, kind, query)
		return err
	})
	return results, err
}

func (g *Gateway) call(ctx context.Context, identity, op string, fn func(context.Context) error) error {
	if !g.Enabled() {
		return ErrDisabled
	}
	if strings.TrimSpace(identity) == "" {
		return ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w after %s", op, ErrTimedOut, g.timeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CardFromRecord rebuilds a displayable card from a saved record.
func CardFromRecord(rec store.CardRecord) *card.Card {
	var lines []string
	if rec.Body != "" {
		lines = strings.Split(rec.Body, "\n")
	}
	c := card.New(rec.Kind, rec.Theme, rec.Title, card.ParseBody(rec.Kind, lines))
	c.SetTitle(rec.Title)
	c.Tags = card.NormalizeTags(rec.Tags)
	c.RemoteID = rec.ID
	return c
}
