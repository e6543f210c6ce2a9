// Package random picks elements from template pools.
package random

import (
	"math/rand"
	"time"
)

// Selector wraps a *rand.Rand. It is not safe for concurrent use; callers
// that share one across goroutines must serialize access.
type Selector struct {
	rng *rand.Rand
}

func New(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rng: rand.New(src)}
}

// PickOne returns a uniformly chosen element, or false when list is empty.
func (s *Selector) PickOne(list []string) (string, bool) {
	if len(list) == 0 {
		return "", false
	}
	return list[s.rng.Intn(len(list))], true
}

// PickMany returns up to count elements drawn from distinct positions of list,
// in random order.
// Requests larger than the list are capped at its length.
func (s *Selector) PickMany(list []string, count int) []string {
	if count <= 0 || len(list) == 0 {
		return nil
	}
	if count > len(list) {
		count = len(list)
	}
	out := make([]string, 0, count)
	for _, idx := range s.rng.Perm(len(list))[:count] {
		out = append(out, list[idx])
	}
	return out
}

// Intn returns a value in [0, n). n must be positive.
func (s *Selector) Intn(n int) int {
	return s.rng.Intn(n)
}
