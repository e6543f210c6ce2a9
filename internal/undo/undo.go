// Package undo sequences optimistic card deletion: a persisted card leaves
// its board at once, the remote delete waits out a grace window, and an undo
// inside the window puts the card back where it was.
package undo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sidequest/internal/card"
	"sidequest/internal/logging"
)

// DefaultGrace is the window between a delete request and its remote commit.
const DefaultGrace = 10 * time.Second

var (
	ErrCardNotFound      = errors.New("card is not displayed")
	ErrNothingToUndo     = errors.New("no deletion is pending")
	ErrMalformedSnapshot = card.ErrMalformedSnapshot
)

// Deleter issues the durable remote delete for a record.
type Deleter func(ctx context.Context, kind card.Kind, remoteID string) error

// Container is an output area cards can be taken from and restored to.
type Container interface {
	Remove(id string) (*card.Card, int, bool)
	InsertAt(c *card.Card, pos int)
}

// Failure describes a remote delete that did not go through. The card has
// already been restored when the handler runs.
type Failure struct {
	CardID string
	Title  string
	Err    error
}

type Config struct {
	Grace     time.Duration
	Clock     Clock
	OnFailure func(Failure)
	Logger    *logging.Logger
}

// Pending describes a deletion waiting for its grace window.
type Pending struct {
	CardID   string
	Title    string
	Kind     card.Kind
	RemoteID string
	Deadline time.Time
}

// Outcome reports what Delete did.
type Outcome struct {
	// Immediate is set for cards with no remote record; there is nothing to
	// undo.
	Immediate bool
	Pending   Pending
}

type pendingDeletion struct {
	Pending
	snapshot  []byte
	container Container
	position  int
	timer     Timer
}

// Sequencer tracks every pending deletion independently; each has its own
// timer and can be undone or confirmed on its own.
type Sequencer struct {
	mu        sync.Mutex
	remove    Deleter
	grace     time.Duration
	clock     Clock
	onFailure func(Failure)
	log       *logging.Logger
	pending   map[string]*pendingDeletion
	order     []string
	inflight  sync.WaitGroup
}

func New(remove Deleter, cfg Config) *Sequencer {
	if cfg.Grace <= 0 {
		cfg.Grace = DefaultGrace
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	return &Sequencer{
		remove:    remove,
		grace:     cfg.Grace,
		clock:     cfg.Clock,
		onFailure: cfg.OnFailure,
		log:       cfg.Logger,
		pending:   make(map[string]*pendingDeletion),
	}
}

func (s *Sequencer) Grace() time.Duration {
	return s.grace
}

// Delete takes the card out of from. Cards without a remote record are gone
// immediately; persisted cards become pending until the grace window ends.
func (s *Sequencer) Delete(from Container, cardID string) (Outcome, error) {
	c, pos, ok := from.Remove(cardID)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	if !c.Persisted() {
		s.log.Debug("card removed without remote record", "card_id", cardID)
		return Outcome{Immediate: true, Pending: Pending{CardID: c.ID, Title: c.Title, Kind: c.Kind}}, nil
	}

	snapshot, err := c.Snapshot()
	if err != nil {
		from.InsertAt(c, pos)
		return Outcome{}, err
	}

	p := &pendingDeletion{
		Pending: Pending{
			CardID:   c.ID,
			Title:    c.Title,
			Kind:     c.Kind,
			RemoteID: c.RemoteID,
			Deadline: s.clock.Now().Add(s.grace),
		},
		snapshot:  snapshot,
		container: from,
		position:  pos,
	}

	s.mu.Lock()
	s.pending[c.ID] = p
	s.order = append(s.order, c.ID)
	s.inflight.Add(1)
	p.timer = s.clock.AfterFunc(s.grace, func() { s.expire(c.ID) })
	s.mu.Unlock()

	s.log.Info("card deletion pending", "card_id", c.ID, "remote_id", c.RemoteID, "grace", s.grace.String())
	return Outcome{Pending: p.Pending}, nil
}

// Undo restores a pending card at its recorded position and cancels its
// timer. A snapshot that cannot be rebuilt is logged and reported with
// ErrMalformedSnapshot; the pending state is cleared either way.
func (s *Sequencer) Undo(cardID string) (*card.Card, error) {
	p := s.claim(cardID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNothingToUndo, cardID)
	}
	return s.restore(p)
}

// UndoLatest undoes the most recent deletion still pending.
func (s *Sequencer) UndoLatest() (*card.Card, error) {
	s.mu.Lock()
	var id string
	for i := len(s.order) - 1; i >= 0; i-- {
		if _, ok := s.pending[s.order[i]]; ok {
			id = s.order[i]
			break
		}
	}
	s.mu.Unlock()
	if id == "" {
		return nil, ErrNothingToUndo
	}
	return s.Undo(id)
}

// Confirm commits one pending deletion now instead of at its deadline.
func (s *Sequencer) Confirm(ctx context.Context, cardID string) error {
	p := s.claim(cardID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNothingToUndo, cardID)
	}
	return s.commit(ctx, p)
}

// Flush commits every pending deletion and waits for commits already running
// on timers. It is called on logout and shutdown.
func (s *Sequencer) Flush(ctx context.Context) error {
	s.mu.Lock()
	ids := append([]string(nil), s.order...)
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if p := s.claim(id); p != nil {
			if err := s.commit(ctx, p); err != nil {
				errs = append(errs, err)
			}
		}
	}
	s.inflight.Wait()
	return errors.Join(errs...)
}

// Pending lists outstanding deletions, oldest first.
func (s *Sequencer) Pending() []Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pending, 0, len(s.pending))
	for _, id := range s.order {
		if p, ok := s.pending[id]; ok {
			out = append(out, p.Pending)
		}
	}
	return out
}

func (s *Sequencer) expire(cardID string) {
	p := s.claim(cardID)
	if p == nil {
		return
	}
	_ = s.commit(context.Background(), p)
}

// claim removes the pending entry so exactly one of undo, confirm, flush or
// expiry acts on it.
func (s *Sequencer) claim(cardID string) *pendingDeletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[cardID]
	if !ok {
		return nil
	}
	delete(s.pending, cardID)
	for i, id := range s.order {
		if id == cardID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	return p
}

func (s *Sequencer) commit(ctx context.Context, p *pendingDeletion) error {
	defer s.inflight.Done()

	err := s.remove(ctx, p.Kind, p.RemoteID)
	if err == nil {
		s.log.Info("card deleted", "card_id", p.CardID, "remote_id", p.RemoteID)
		return nil
	}

	s.log.Error("remote delete failed, restoring card", "card_id", p.CardID, "remote_id", p.RemoteID, "error", err)
	if _, rerr := s.rebuild(p); rerr != nil {
		err = errors.Join(err, rerr)
	}
	err = fmt.Errorf("deleting %q: %w", p.Title, err)
	if s.onFailure != nil {
		s.onFailure(Failure{CardID: p.CardID, Title: p.Title, Err: err})
	}
	return err
}

func (s *Sequencer) restore(p *pendingDeletion) (*card.Card, error) {
	defer s.inflight.Done()
	c, err := s.rebuild(p)
	if err != nil {
		return nil, err
	}
	s.log.Info("card deletion undone", "card_id", p.CardID)
	return c, nil
}

func (s *Sequencer) rebuild(p *pendingDeletion) (*card.Card, error) {
	c, err := card.FromSnapshot(p.snapshot)
	if err != nil {
		s.log.Error("cannot restore deleted card", "card_id", p.CardID, "error", err)
		return nil, err
	}
	p.container.InsertAt(c, p.position)
	return c, nil
}
