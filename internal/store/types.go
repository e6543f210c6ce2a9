package store

import (
	"time"

	"sidequest/internal/card"
)

type CardInput struct {
	Owner string
	Kind  card.Kind
	Title string
	Body  string
	Theme string
	Tags  []string
}

type CardRecord struct {
	ID        string
	Owner     string
	Kind      card.Kind
	Title     string
	Body      string
	Theme     string
	Tags      []string
	CreatedAt time.Time
}

type SearchResult struct {
	CardRecord
	Score   float64
	Snippet string
}
