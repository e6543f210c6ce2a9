// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sidequest/internal/card"
	"sidequest/internal/store"
)

var _ store.Store = (*Memory)(nil)

// Memory keeps records in process and records the arguments of each call.
// Set an *Err field to make that operation fail. When Block is non-nil every
// operation waits for it to close or for the context to end.
type Memory struct {
	mu      sync.Mutex
	records []store.CardRecord
	clock   time.Time

	InsertErr error
	ListErr   error
	UpdateErr error
	DeleteErr error
	SearchErr error
	Block     chan struct{}

	InsertCalls int
	UpdateCalls int
	DeleteCalls int
	DeletedIDs  []string

	LastOwner string
	LastKind  card.Kind
	LastID    string
	LastTags  []string
}

func NewMemory() *Memory {
	return &Memory{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *Memory) Close(ctx context.Context) error { return nil }

func (m *Memory) EnsureSchema(ctx context.Context) error { return nil }

func (m *Memory) InsertCard(ctx context.Context, in store.CardInput) (*store.CardRecord, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	m.LastOwner, m.LastKind = in.Owner, in.Kind
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	if _, err := store.Table(in.Kind); err != nil {
		return nil, err
	}
	m.clock = m.clock.Add(time.Second)
	rec := store.CardRecord{
		ID:        uuid.NewString(),
		Owner:     in.Owner,
		Kind:      in.Kind,
		Title:     in.Title,
		Body:      in.Body,
		Theme:     in.Theme,
		Tags:      card.NormalizeTags(in.Tags),
		CreatedAt: m.clock,
	}
	m.records = append(m.records, rec)
	return &rec, nil
}

func (m *Memory) ListCards(ctx context.Context, owner string, kind card.Kind) ([]store.CardRecord, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastOwner, m.LastKind = owner, kind
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []store.CardRecord{}
	for i := len(m.records) - 1; i >= 0; i-- {
		rec := m.records[i]
		if rec.Owner == owner && rec.Kind == kind {
			rec.Tags = append([]string{}, rec.Tags...)
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory) UpdateTags(ctx context.Context, owner string, kind card.Kind, id string, tags []string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	m.LastOwner, m.LastKind, m.LastID = owner, kind, id
	m.LastTags = append([]string{}, tags...)
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	i := m.find(owner, kind, id)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", kind.Table(), id, store.ErrNotFound)
	}
	m.records[i].Tags = card.NormalizeTags(tags)
	return nil
}

func (m *Memory) DeleteCard(ctx context.Context, owner string, kind card.Kind, id string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	m.DeletedIDs = append(m.DeletedIDs, id)
	m.LastOwner, m.LastKind, m.LastID = owner, kind, id
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	i := m.find(owner, kind, id)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", kind.Table(), id, store.ErrNotFound)
	}
	m.records = append(m.records[:i], m.records[i+1:]...)
	return nil
}

// SearchCards matches every whitespace-separated term against title and body,
// case-insensitively.
func (m *Memory) SearchCards(ctx context.Context, owner string, kind card.Kind, query string) ([]store.SearchResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, store.ErrEmptyQuery
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastOwner, m.LastKind = owner, kind
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	terms := strings.Fields(strings.ToLower(query))
	out := []store.SearchResult{}
	for i := len(m.records) - 1; i >= 0; i-- {
		rec := m.records[i]
		if rec.Owner != owner || rec.Kind != kind {
			continue
		}
		text := strings.ToLower(rec.Title + " " + rec.Body)
		matched := true
		for _, term := range terms {
			if !strings.Contains(text, term) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, store.SearchResult{CardRecord: rec, Score: 1})
		}
	}
	return out, nil
}

// Records returns a copy of every stored record in insertion order.
func (m *Memory) Records() []store.CardRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.CardRecord{}, m.records...)
}

// Deletes reports how many DeleteCard calls were made.
func (m *Memory) Deletes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DeleteCalls
}

func (m *Memory) find(owner string, kind card.Kind, id string) int {
	for i, rec := range m.records {
		if rec.ID == id && rec.Owner == owner && rec.Kind == kind {
			return i
		}
	}
	return -1
}

func (m *Memory) wait(ctx context.Context) error {
	m.mu.Lock()
	block := m.Block
	m.mu.Unlock()
	if block == nil {
		return nil
	}
	select {
	case <-block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
