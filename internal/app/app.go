// Package app holds the state a sidequest session works on: the loaded
// template data, trait locks, the boards cards are shown on, the signed-in
// identity and the pending deletions.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sidequest/internal/card"
	"sidequest/internal/generate"
	"sidequest/internal/locks"
	"sidequest/internal/logging"
	"sidequest/internal/persist"
	"sidequest/internal/prefs"
	"sidequest/internal/random"
	"sidequest/internal/templates"
	"sidequest/internal/undo"
)

// Area names an output board.
type Area string

const (
	AreaQuest       Area = "quest"
	AreaNPC         Area = "npc"
	AreaSavedQuests Area = "saved-quests"
	AreaSavedNPCs   Area = "saved-npcs"
)

var (
	ErrUnknownArea = errors.New("unknown output area")
	ErrCardMissing = errors.New("card not found")
	ErrNotLockable = errors.New("field cannot be locked")
)

// ParseArea accepts an area name or a card kind.
func ParseArea(value string) (Area, error) {
	switch Area(value) {
	case AreaQuest, AreaNPC, AreaSavedQuests, AreaSavedNPCs:
		return Area(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownArea, value)
}

// SavedArea is the list board holding saved cards of kind.
func SavedArea(kind card.Kind) Area {
	if kind == card.KindNPC {
		return AreaSavedNPCs
	}
	return AreaSavedQuests
}

type Options struct {
	// Templates may be nil and supplied later with SetTemplates.
	Templates *templates.Set
	Selector  *random.Selector
	Gateway   *persist.Gateway
	Prefs     *prefs.Store
	Identity  string
	Grace     time.Duration
	Clock     undo.Clock
	Logger    *logging.Logger
}

// App is safe for concurrent use. mu guards template data, locks, the
// selector and card mutation; boards carry their own locks.
type App struct {
	mu       sync.Mutex
	set      *templates.Set
	sel      *random.Selector
	locks    map[card.Kind]*locks.Registry
	quests   *generate.Quest
	npcs     *generate.NPC
	boards   map[Area]*card.Board
	gateway  *persist.Gateway
	prefs    *prefs.Store
	deletes  *undo.Sequencer
	log      *logging.Logger
	session  session
	notices  noticeQueue
	clockNow func() time.Time
}

// session is read by the undo sequencer's timer goroutines, so it has its
// own lock.
type session struct {
	mu       sync.RWMutex
	identity string
}

func (s *session) get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *session) set(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

func New(opts Options) *App {
	if opts.Selector == nil {
		opts.Selector = random.New(nil)
	}
	if opts.Gateway == nil {
		opts.Gateway = persist.New(nil, 0)
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.InMemory()
	}
	if opts.Clock == nil {
		opts.Clock = undo.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	questLocks, npcLocks := locks.New(), locks.New()
	a := &App{
		set:   opts.Templates,
		sel:   opts.Selector,
		locks: map[card.Kind]*locks.Registry{card.KindQuest: questLocks, card.KindNPC: npcLocks},
		boards: map[Area]*card.Board{
			AreaQuest:       card.NewSingleBoard(),
			AreaNPC:         card.NewSingleBoard(),
			AreaSavedQuests: card.NewListBoard(),
			AreaSavedNPCs:   card.NewListBoard(),
		},
		quests:   generate.NewQuest(opts.Selector, questLocks),
		npcs:     generate.NewNPC(opts.Selector, npcLocks),
		gateway:  opts.Gateway,
		prefs:    opts.Prefs,
		log:      opts.Logger,
		clockNow: opts.Clock.Now,
	}
	a.session.set(opts.Identity)
	a.deletes = undo.New(a.removeRemote, undo.Config{
		Grace:     opts.Grace,
		Clock:     opts.Clock,
		Logger:    opts.Logger,
		OnFailure: a.deleteFailed,
	})
	return a
}

// SetTemplates installs template data loaded after startup.
func (a *App) SetTemplates(set *templates.Set) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.set = set
}

func (a *App) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.set != nil
}

// Themes lists quest themes, empty until templates are loaded.
func (a *App) Themes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.set == nil {
		return nil
	}
	return a.set.Themes()
}

func (a *App) QuestTypes(theme string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.set == nil {
		return nil
	}
	return a.set.QuestTypes(theme)
}

func (a *App) Identity() string {
	return a.session.get()
}

func (a *App) PersistenceEnabled() bool {
	return a.gateway.Enabled()
}

// Cards renders every card on area, in display order.
func (a *App) Cards(area Area) ([]card.View, error) {
	board, ok := a.boards[area]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	cards := board.Cards()
	out := make([]card.View, 0, len(cards))
	for _, c := range cards {
		out = append(out, a.render(area, c))
	}
	return out, nil
}

// Card renders one displayed card.
func (a *App) Card(cardID string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, area, err := a.find(cardID)
	if err != nil {
		return card.View{}, err
	}
	return a.render(area, c), nil
}

// find locates a displayed card. Callers hold mu.
func (a *App) find(cardID string) (*card.Card, Area, error) {
	for _, area := range []Area{AreaQuest, AreaNPC, AreaSavedQuests, AreaSavedNPCs} {
		if c, ok := a.boards[area].Find(cardID); ok {
			return c, area, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrCardMissing, cardID)
}

// render shows lock toggles on generator boards only. Callers hold mu.
func (a *App) render(area Area, c *card.Card) card.View {
	if area == AreaQuest || area == AreaNPC {
		return card.Render(c, a.locks[c.Kind])
	}
	return card.Render(c, nil)
}

// fail records err as a notice and returns it.
func (a *App) fail(op string, err error) error {
	a.log.Warn(op+" failed", "error", err)
	a.notify(LevelError, err.Error())
	return err
}

// Close commits outstanding deletions.
func (a *App) Close(ctx context.Context) error {
	if err := a.deletes.Flush(ctx); err != nil {
		a.log.Error("flushing pending deletions", "error", err)
		return err
	}
	return nil
}
