package app

import (
	"fmt"

	"sidequest/internal/card"
	"sidequest/internal/dice"
	"sidequest/internal/exportfile"
	"sidequest/internal/generate"
	"sidequest/internal/locks"
)

// GenerateQuest replaces the quest board's card. An empty theme uses the
// saved generator theme. On error the previous card stays displayed.
func (a *App) GenerateQuest(theme, questType string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, err := a.quests.Generate(a.set, a.themeOrDefault(theme), questType)
	if err != nil {
		return card.View{}, a.fail("generate quest", err)
	}
	a.boards[AreaQuest].Show(c)
	a.log.Debug("quest generated", "card_id", c.ID, "theme", c.Theme, "type", c.Subtype)
	return a.render(AreaQuest, c), nil
}

// GenerateNPC replaces the NPC board's card.
func (a *App) GenerateNPC(theme string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, err := a.npcs.Generate(a.set, a.themeOrDefault(theme))
	if err != nil {
		return card.View{}, a.fail("generate npc", err)
	}
	a.boards[AreaNPC].Show(c)
	a.log.Debug("npc generated", "card_id", c.ID, "theme", c.Theme)
	return a.render(AreaNPC, c), nil
}

// themeOrDefault falls back to the preferred generator theme. Callers hold mu.
func (a *App) themeOrDefault(theme string) string {
	if theme != "" || a.set == nil {
		return theme
	}
	return a.prefs.GeneratorTheme(a.set.Themes())
}

// ToggleLock pins or releases the displayed value of a lockable row on a
// generator card and reports the new lock state. The name row locks first
// and last name together.
func (a *App) ToggleLock(cardID, key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, area, err := a.find(cardID)
	if err != nil {
		return false, err
	}
	f, ok := c.Field(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", card.ErrUnknownField, key)
	}
	if !f.Lockable || (area != AreaQuest && area != AreaNPC) {
		return false, fmt.Errorf("%w: %s", ErrNotLockable, key)
	}

	registry := a.locks[c.Kind]
	if key == card.NameKey {
		first, last := generate.SplitName(f.Value)
		return registry.ToggleName(first, last), nil
	}
	return registry.Toggle(key, f.Value), nil
}

func (a *App) ToggleNameLock(cardID string) (bool, error) {
	return a.ToggleLock(cardID, card.NameKey)
}

// LockValue pins key on the generator registry for kind without a card,
// for surfaces that take locks as flags.
func (a *App) LockValue(kind card.Kind, key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	registry, ok := a.locks[kind]
	if !ok {
		return fmt.Errorf("%w: %q", card.ErrUnknownKind, kind)
	}
	if kind == card.KindNPC && key == card.NameKey {
		first, last := generate.SplitName(value)
		registry.Lock(locks.FirstName, first)
		registry.Lock(locks.LastName, last)
		return nil
	}
	registry.Lock(key, value)
	return nil
}

// Locks lists the pinned values for kind.
func (a *App) Locks(kind card.Kind) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if registry, ok := a.locks[kind]; ok {
		return registry.Snapshot()
	}
	return nil
}

// EditTitle replaces a card's title; blank input becomes "Untitled".
func (a *App) EditTitle(cardID, title string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, area, err := a.find(cardID)
	if err != nil {
		return card.View{}, err
	}
	c.SetTitle(title)
	return a.render(area, c), nil
}

// EditField replaces a row's displayed value. A locked row keeps its lock on
// the edited value.
func (a *App) EditField(cardID, key, value string) (card.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, area, err := a.find(cardID)
	if err != nil {
		return card.View{}, err
	}
	if err := c.SetField(key, value); err != nil {
		return card.View{}, err
	}

	if area == AreaQuest || area == AreaNPC {
		registry := a.locks[c.Kind]
		f, _ := c.Field(key)
		switch {
		case key == card.NameKey && registry.NameLocked():
			first, last := generate.SplitName(f.Value)
			registry.Lock(locks.FirstName, first)
			registry.Lock(locks.LastName, last)
		case registry.IsLocked(key):
			registry.Lock(key, f.Value)
		}
	}
	return a.render(area, c), nil
}

// ToggleCollapse flips a card's body visibility and reports whether the
// body is now expanded.
func (a *App) ToggleCollapse(cardID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, _, err := a.find(cardID)
	if err != nil {
		return false, err
	}
	return c.ToggleCollapsed(), nil
}

// Export renders a card as a plain text download.
func (a *App) Export(cardID string) (filename, content string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, _, err := a.find(cardID)
	if err != nil {
		return "", "", err
	}
	return exportfile.Filename(c.Title), exportfile.Render(c), nil
}

// Roll throws count dice with the given sides. Count is clamped to the
// supported range.
func (a *App) Roll(sides, count int) (dice.Roll, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	roll, err := dice.RollDice(a.sel, sides, count)
	if err != nil {
		return dice.Roll{}, a.fail("roll", err)
	}
	return roll, nil
}

// RollNotation rolls "NdS" notation such as "3d6".
func (a *App) RollNotation(notation string) (dice.Roll, error) {
	sides, count, err := dice.ParseNotation(notation)
	if err != nil {
		return dice.Roll{}, a.fail("roll", err)
	}
	return a.Roll(sides, count)
}
