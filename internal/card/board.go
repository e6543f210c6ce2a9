package card

import "sync"

// Board is an output area. Single boards show one generated card at a time
// and replace it on Show; list boards hold saved cards newest first.
type Board struct {
	mu     sync.Mutex
	single bool
	cards  []*Card
}

func NewSingleBoard() *Board {
	return &Board{single: true}
}

func NewListBoard() *Board {
	return &Board{}
}

// Show replaces the displayed card on a single board and prepends on a list
// board.
func (b *Board) Show(c *Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.single {
		b.cards = []*Card{c}
		return
	}
	b.cards = append([]*Card{c}, b.cards...)
}

func (b *Board) Cards() []*Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Card(nil), b.cards...)
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cards)
}

func (b *Board) Find(id string) (*Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.cards {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Remove takes the card out of the board and reports where it was.
func (b *Board) Remove(id string) (*Card, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.cards {
		if c.ID == id {
			b.cards = append(b.cards[:i:i], b.cards[i+1:]...)
			return c, i, true
		}
	}
	return nil, -1, false
}

// InsertAt puts c back at pos, clamped to the current bounds. A single board
// is cleared first.
func (b *Board) InsertAt(c *Card, pos int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.single {
		b.cards = []*Card{c}
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.cards) {
		pos = len(b.cards)
	}
	out := make([]*Card, 0, len(b.cards)+1)
	out = append(out, b.cards[:pos]...)
	out = append(out, c)
	out = append(out, b.cards[pos:]...)
	b.cards = out
}

// ShowIfEmpty shows c only when the board holds no card, and reports whether
// it did.
func (b *Board) ShowIfEmpty(c *Card) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.cards) > 0 {
		return false
	}
	b.cards = []*Card{c}
	return true
}

// ReplaceRemote swaps c in for the card sharing its remote id, keeping the
// position. It reports false when no such card is shown.
func (b *Board) ReplaceRemote(c *Card) bool {
	if c.RemoteID == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.cards {
		if existing.RemoteID == c.RemoteID {
			b.cards[i] = c
			return true
		}
	}
	return false
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards = nil
}
