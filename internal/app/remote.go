package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"sidequest/internal/card"
	"sidequest/internal/persist"
	"sidequest/internal/store"
	"sidequest/internal/undo"
)

// SearchHit is a saved card matching a search query.
type SearchHit struct {
	Card    card.View `json:"card"`
	Score   float64   `json:"score"`
	Snippet string    `json:"snippet"`
}

// AddTag tags a card. Blank input is ignored. A persisted card syncs its full
// tag list and drops the tag again when the sync fails.
func (a *App) AddTag(ctx context.Context, cardID, text string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, area, err := a.find(cardID)
	if err != nil {
		return card.View{}, err
	}
	added, err := c.AddTag(text)
	if err != nil {
		return card.View{}, a.fail("add tag", err)
	}
	if added && c.Persisted() {
		if err := a.syncTags(ctx, c); err != nil {
			c.RemoveTag(text)
			return card.View{}, a.fail("add tag", err)
		}
	}
	return a.render(area, c), nil
}

// RemoveTag untags a card, restoring the tag in place when a persisted card
// fails to sync.
func (a *App) RemoveTag(ctx context.Context, cardID, text string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, area, err := a.find(cardID)
	if err != nil {
		return card.View{}, err
	}
	before := slices.Clone(c.Tags)
	if c.RemoveTag(text) && c.Persisted() {
		if err := a.syncTags(ctx, c); err != nil {
			c.Tags = before
			return card.View{}, a.fail("remove tag", err)
		}
	}
	return a.render(area, c), nil
}

// syncTags sends the full tag list. Callers hold mu.
func (a *App) syncTags(ctx context.Context, c *card.Card) error {
	return a.gateway.UpdateTags(ctx, a.session.get(), c.Kind, c.RemoteID, c.Tags)
}

// Save stores a card remotely and shows the saved copy on its list board.
// Saving an already persisted card does nothing.
func (a *App) Save(ctx context.Context, cardID string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, area, err := a.find(cardID)
	if err != nil {
		return card.View{}, err
	}
	if c.Persisted() {
		return a.render(area, c), nil
	}

	rec, err := a.gateway.Insert(ctx, a.session.get(), c)
	if err != nil {
		return card.View{}, a.fail("save", err)
	}
	c.RemoteID = rec.ID
	a.boards[SavedArea(c.Kind)].Show(persist.CardFromRecord(*rec))
	a.log.Info("card saved", "card_id", c.ID, "remote_id", rec.ID, "kind", c.Kind)
	a.notify(LevelInfo, fmt.Sprintf("Saved %q.", c.Title))
	return a.render(area, c), nil
}

// LoadSaved replaces the saved board for kind with the identity's records,
// newest first. Records waiting out a delete grace window are left out.
func (a *App) LoadSaved(ctx context.Context, kind card.Kind) ([]card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	records, err := a.gateway.List(ctx, a.session.get(), kind)
	if err != nil {
		return nil, a.fail("load saved", err)
	}

	hidden := a.pendingRemoteIDs()
	board := a.boards[SavedArea(kind)]
	board.Clear()
	for i := len(records) - 1; i >= 0; i-- {
		if _, ok := hidden[records[i].ID]; ok {
			continue
		}
		board.Show(persist.CardFromRecord(records[i]))
	}

	cards := board.Cards()
	out := make([]card.View, 0, len(cards))
	for _, c := range cards {
		out = append(out, card.Render(c, nil))
	}
	return out, nil
}

// Search runs a full-text query over saved cards of kind without changing
// any board.
func (a *App) Search(ctx context.Context, kind card.Kind, query string) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, store.ErrEmptyQuery
	}
	results, err := a.gateway.Search(ctx, a.session.get(), kind, query)
	if err != nil {
		return nil, a.fail("search", err)
	}
	a.mu.Lock()
	hidden := a.pendingRemoteIDs()
	a.mu.Unlock()

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		if _, ok := hidden[r.ID]; ok {
			continue
		}
		hits = append(hits, SearchHit{
			Card:    card.Render(persist.CardFromRecord(r.CardRecord), nil),
			Score:   r.Score,
			Snippet: r.Snippet,
		})
	}
	return hits, nil
}

func (a *App) pendingRemoteIDs() map[string]struct{} {
	pending := a.deletes.Pending()
	out := make(map[string]struct{}, len(pending))
	for _, p := range pending {
		out[p.RemoteID] = struct{}{}
	}
	return out
}

// Delete removes a card from its board. Persisted cards can be undone until
// the grace window ends; the rest are gone at once.
func (a *App) Delete(cardID string) (undo.Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, area, err := a.find(cardID)
	if err != nil {
		return undo.Outcome{}, err
	}
	out, err := a.deletes.Delete(a.container(area), cardID)
	if err != nil {
		return undo.Outcome{}, a.fail("delete", err)
	}
	if !out.Immediate {
		a.notify(LevelInfo, fmt.Sprintf("Deleted %q. Undo within %s.", out.Pending.Title, a.deletes.Grace()))
	}
	return out, nil
}

// container is where a deletion from area is restored. Generator boards
// only take the card back while they are still empty.
func (a *App) container(area Area) undo.Container {
	board := a.boards[area]
	switch area {
	case AreaQuest:
		return generatorSlot{app: a, board: board, saved: a.boards[AreaSavedQuests], area: AreaSavedQuests}
	case AreaNPC:
		return generatorSlot{app: a, board: board, saved: a.boards[AreaSavedNPCs], area: AreaSavedNPCs}
	}
	return board
}

// generatorSlot restores a generator card to its board while nothing newer
// is shown there. Otherwise the card goes to its saved list, replacing the
// saved copy of the same record, so the newer card is kept.
type generatorSlot struct {
	app   *App
	board *card.Board
	saved *card.Board
	area  Area
}

func (g generatorSlot) Remove(id string) (*card.Card, int, bool) {
	return g.board.Remove(id)
}

func (g generatorSlot) InsertAt(c *card.Card, pos int) {
	if g.board.ShowIfEmpty(c) {
		return
	}
	if !g.saved.ReplaceRemote(c) {
		g.saved.InsertAt(c, 0)
	}
	g.app.log.Info("restored card moved to saved board", "card_id", c.ID, "area", g.area)
	g.app.notify(LevelInfo, fmt.Sprintf("Restored %q to %s; a newer card is showing.", c.Title, g.area))
}

// Undo restores the most recently deleted card still pending.
func (a *App) Undo() (card.View, error) {
	c, err := a.deletes.UndoLatest()
	return a.restored(c, err)
}

// UndoCard restores one pending card.
func (a *App) UndoCard(cardID string) (card.View, error) {
	c, err := a.deletes.Undo(cardID)
	return a.restored(c, err)
}

func (a *App) restored(c *card.Card, err error) (card.View, error) {
	if err != nil {
		if errors.Is(err, undo.ErrNothingToUndo) {
			return card.View{}, err
		}
		return card.View{}, a.fail("undo", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, area, ferr := a.find(c.ID); ferr == nil {
		return a.render(area, c), nil
	}
	return card.Render(c, nil), nil
}

// ConfirmDelete commits a pending deletion before its deadline.
func (a *App) ConfirmDelete(ctx context.Context, cardID string) error {
	return a.deletes.Confirm(ctx, cardID)
}

// PendingDeletes lists deletions still inside their grace window.
func (a *App) PendingDeletes() []undo.Pending {
	return a.deletes.Pending()
}

// removeRemote is the sequencer's commit step. It runs on timer goroutines,
// so it must not be called with mu held.
func (a *App) removeRemote(ctx context.Context, kind card.Kind, remoteID string) error {
	if err := a.gateway.Delete(ctx, a.session.get(), kind, remoteID); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, board := range a.boards {
		for _, c := range board.Cards() {
			if c.RemoteID != remoteID {
				continue
			}
			if board == a.boards[AreaQuest] || board == a.boards[AreaNPC] {
				c.RemoteID = ""
				continue
			}
			board.Remove(c.ID)
		}
	}
	return nil
}

func (a *App) deleteFailed(f undo.Failure) {
	a.notify(LevelError, f.Err.Error())
}

// Login switches the session identity. Deletions pending for a previous
// identity are committed first.
func (a *App) Login(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return persist.ErrNotAuthenticated
	}
	if current := a.session.get(); current != "" && current != identity {
		if err := a.Logout(ctx); err != nil {
			a.log.Warn("logout before login", "error", err)
		}
	}
	a.session.set(identity)
	a.log.Info("signed in", "identity", identity)
	return nil
}

// Logout commits pending deletions, clears the saved boards and drops the
// identity. The identity is cleared even when a commit fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.deletes.Flush(ctx)
	a.session.set("")
	a.boards[AreaSavedQuests].Clear()
	a.boards[AreaSavedNPCs].Clear()
	if err != nil {
		return a.fail("logout", err)
	}
	return nil
}

// Import saves a card read from an export file and shows it on its saved
// board.
func (a *App) Import(ctx context.Context, c *card.Card) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, err := a.gateway.Insert(ctx, a.session.get(), c)
	if err != nil {
		return card.View{}, a.fail("import", err)
	}
	c.RemoteID = rec.ID
	a.boards[SavedArea(c.Kind)].Show(c)
	a.log.Info("card imported", "remote_id", rec.ID, "kind", c.Kind, "title", c.Title)
	return card.Render(c, nil), nil
}
